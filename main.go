package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/KryptoMuratLive/kryptomuratv4/config"
	"github.com/KryptoMuratLive/kryptomuratv4/db"
	"github.com/KryptoMuratLive/kryptomuratv4/handlers"
	"github.com/KryptoMuratLive/kryptomuratv4/livepeer"
	"github.com/KryptoMuratLive/kryptomuratv4/middleware"
	"github.com/KryptoMuratLive/kryptomuratv4/story"
	"github.com/KryptoMuratLive/kryptomuratv4/telegram"
	"github.com/KryptoMuratLive/kryptomuratv4/web3"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to parse configuration:", err)
	}
	if cfg.MongoURI == "" {
		log.Fatal("MONGODB_URI environment variable not set")
	}

	// Initialize MongoDB connection
	if err := db.InitMongoDB(cfg.MongoURI, cfg.DBName); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer db.Close()

	db.EnsureIndexes()
	if err := db.SeedChapters(); err != nil {
		log.Fatal("Failed to seed story chapters:", err)
	}

	// External collaborators
	chain := web3.NewClient(cfg.PolygonRPCURL)
	streamAPI := livepeer.NewClient(cfg.LivepeerBaseURL, cfg.LivepeerAPIKey)
	bot := telegram.NewClient(telegram.DefaultAPIBase, cfg.TelegramBotToken)

	// Story engine over the Mongo store
	engine := story.NewEngine(
		db.NewStoryStore(),
		handlers.NewTierResolver(chain),
		story.WithGenerator(story.GeneratorFunc(handlers.GenerateConsequence)),
		story.WithNotifier(telegram.NewNotifier(bot)),
	)

	handlers.Init(cfg, engine, chain, streamAPI)

	// Set up HTTP handlers
	routes := map[string]http.HandlerFunc{
		"/api/wallet/connect":     handlers.ConnectWalletHandler,
		"/api/wallet/balance/":    handlers.TokenBalanceHandler,
		"/api/staking/create":     handlers.CreateStakingHandler,
		"/api/staking/positions/": handlers.StakingPositionsHandler,
		"/api/staking/rewards/":   handlers.StakingRewardsHandler,
		"/api/nft/access/":        handlers.NFTAccessHandler,
		"/api/ai/generate":        handlers.GenerateContentHandler,
		"/api/ai/content/":        handlers.AIContentHistoryHandler,
		"/api/story/initialize":   handlers.InitializeStoryHandler,
		"/api/story/chapters":     handlers.ChaptersHandler,
		"/api/story/chapter/":     handlers.ChapterDetailHandler,
		"/api/story/progress/":    handlers.StoryProgressHandler,
		"/api/story/choice":       handlers.StoryChoiceHandler,
		"/api/story/vote":         handlers.StoryVoteHandler,
		"/api/story/votes/":       handlers.StoryVotesHandler,
		"/api/streams":            handlers.StreamsHandler,
		"/api/telegram/subscribe": handlers.TelegramSubscribeHandler,
		"/api/admin/stats":        handlers.AdminStatsHandler,
	}
	for path, handler := range routes {
		http.HandleFunc(path, middleware.EnableCORS(cfg.AllowedOrigins, handler))
	}

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, nil))
}
