package config

import (
	"os"

	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration, parsed from the environment
// once at startup and passed into the components that need it.
type Config struct {
	Port              string `env:"PORT" envDefault:"8080"`
	MongoURI          string `env:"MONGODB_URI"`
	DBName            string `env:"DB_NAME" envDefault:"kryptomurat"`
	GeminiAPIKey      string `env:"GEMINI_API_KEY"`
	GeminiModel       string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	PolygonRPCURL     string `env:"POLYGON_RPC_URL" envDefault:"https://polygon-rpc.com"`
	MuratTokenAddress string `env:"MURAT_TOKEN_ADDRESS" envDefault:"0x04296ee51cd6fdfEE0CB1016A818F17b8ae7a1dD"`
	LivepeerAPIKey    string `env:"LIVEPEER_API_KEY"`
	LivepeerBaseURL   string `env:"LIVEPEER_BASE_URL" envDefault:"https://livepeer.com/api"`
	TelegramBotToken  string `env:"TELEGRAM_BOT_TOKEN"`
	AllowedOrigins    string `env:"ALLOWED_ORIGINS"`

	// StakingAPY maps staking duration in days to the fixed APY percentage.
	// Not read from the environment; tests substitute their own table.
	StakingAPY map[int]float64
}

// DefaultStakingAPY is the duration-to-APY table used when no override is
// supplied.
func DefaultStakingAPY() map[int]float64 {
	return map[int]float64{30: 2.0, 90: 4.0, 180: 6.0, 360: 8.0}
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.StakingAPY = DefaultStakingAPY()
	return cfg, nil
}

// GetGeminiModel returns the Gemini model to use from environment variable
// Defaults to "gemini-2.5-flash" if not set
func GetGeminiModel() string {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		// Default to flash model if not specified
		return "gemini-2.5-flash"
	}
	return model
}

// GetGeminiAPIKey returns the Gemini API key from environment variable
func GetGeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}
