package models

import (
	"time"
)

// WalletConnection records a wallet session. One document per connect call.
type WalletConnection struct {
	ID            string    `bson:"id" json:"id"`
	WalletAddress string    `bson:"wallet_address" json:"wallet_address"`
	ChainID       int       `bson:"chain_id" json:"chain_id"`
	Timestamp     time.Time `bson:"timestamp" json:"timestamp"`
}

// StakingPosition is a simulated MURAT staking position. The APY is fixed at
// creation time from the duration table in the config.
type StakingPosition struct {
	ID            string    `bson:"id" json:"id"`
	WalletAddress string    `bson:"wallet_address" json:"wallet_address"`
	Amount        string    `bson:"amount" json:"amount"`
	DurationDays  int       `bson:"duration_days" json:"duration_days"`
	APY           float64   `bson:"apy" json:"apy"`
	StartDate     time.Time `bson:"start_date" json:"start_date"`
	EndDate       time.Time `bson:"end_date" json:"end_date"`
	Status        string    `bson:"status" json:"status"` // active, completed, withdrawn
}

// Stream is a provisioned Livepeer stream. The stream key is stored but never
// returned by list endpoints.
type Stream struct {
	ID            string    `bson:"id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Description   string    `bson:"description" json:"description,omitempty"`
	CreatorWallet string    `bson:"creator_wallet" json:"creator_wallet"`
	StreamKey     string    `bson:"stream_key" json:"-"`
	PlaybackID    string    `bson:"playback_id" json:"playback_id"`
	NFTRequired   bool      `bson:"nft_required" json:"nft_required"`
	Status        string    `bson:"status" json:"status"` // active, inactive, ended
	ViewerCount   int       `bson:"viewer_count" json:"viewer_count"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// TelegramSubscription links a wallet to a Telegram chat for push
// notifications, with per-category opt-outs.
type TelegramSubscription struct {
	WalletAddress string            `bson:"wallet_address" json:"wallet_address"`
	ChatID        int64             `bson:"chat_id" json:"chat_id"`
	Subscribed    bool              `bson:"subscribed" json:"subscribed"`
	Notifications NotificationFlags `bson:"notifications" json:"notifications"`
	CreatedAt     time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `bson:"updated_at" json:"updated_at"`
}

// NotificationFlags selects which event categories a subscriber receives.
type NotificationFlags struct {
	Staking bool `bson:"staking" json:"staking"`
	Streams bool `bson:"streams" json:"streams"`
	Story   bool `bson:"story" json:"story"`
	General bool `bson:"general" json:"general"`
}

// AIContent is a stored generation result, grouped by session for history
// lookups.
type AIContent struct {
	ID            string    `bson:"id" json:"id"`
	WalletAddress string    `bson:"wallet_address" json:"wallet_address,omitempty"`
	Prompt        string    `bson:"prompt" json:"prompt"`
	ContentType   string    `bson:"content_type" json:"content_type"`
	Content       string    `bson:"content" json:"content"`
	SessionID     string    `bson:"session_id" json:"session_id"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
