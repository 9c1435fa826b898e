package models

import (
	"time"
)

// Chapter is a published narrative unit. Chapters are written once by the
// authoring flow and read-only afterwards.
type Chapter struct {
	ID                 string             `bson:"id" json:"id"`
	Title              string             `bson:"title" json:"title"`
	Description        string             `bson:"description" json:"description"`
	Content            string             `bson:"content" json:"content"`
	ChapterNumber      int                `bson:"chapter_number" json:"chapter_number"`
	ImageURL           string             `bson:"image_url" json:"image_url,omitempty"`
	NFTRequired        bool               `bson:"nft_required" json:"nft_required"`
	Choices            []Choice           `bson:"choices" json:"choices"`
	NextChapters       []string           `bson:"next_chapters" json:"next_chapters,omitempty"`
	UnlockRequirements UnlockRequirements `bson:"unlock_requirements" json:"unlock_requirements"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
}

// UnlockRequirements lists the chapters a player must have completed before
// this one becomes readable.
type UnlockRequirements struct {
	CompletedChapters []string `bson:"completed_chapters" json:"completed_chapters,omitempty"`
}

// Choice is one branch offered by a chapter. An empty Consequence means the
// flavor text is filled in lazily by the AI generator after the choice is
// applied.
type Choice struct {
	Text             string `bson:"text" json:"text"`
	Consequence      string `bson:"consequence" json:"consequence,omitempty"`
	ReputationChange int    `bson:"reputation_change" json:"reputation_change"`
	NextChapter      string `bson:"next_chapter" json:"next_chapter,omitempty"`
	StoryPath        string `bson:"story_path" json:"story_path,omitempty"`
}

// StoryProgress tracks a wallet's position in the story. There is at most one
// document per wallet address.
type StoryProgress struct {
	WalletAddress     string       `bson:"wallet_address" json:"wallet_address"`
	CurrentChapter    string       `bson:"current_chapter" json:"current_chapter"`
	CompletedChapters []string     `bson:"completed_chapters" json:"completed_chapters"`
	ChoicesMade       []ChoiceMade `bson:"choices_made" json:"choices_made"`
	ReputationScore   int          `bson:"reputation_score" json:"reputation_score"`
	ItemsCollected    []string     `bson:"items_collected" json:"items_collected"`
	StoryPath         string       `bson:"story_path" json:"story_path"`
	LastPlayed        time.Time    `bson:"last_played" json:"last_played"`
	CreatedAt         time.Time    `bson:"created_at" json:"created_at"`
}

// ChoiceMade is the compact per-progress log entry appended on every applied
// choice.
type ChoiceMade struct {
	ChapterID   string    `bson:"chapter_id" json:"chapter_id"`
	ChoiceIndex int       `bson:"choice_index" json:"choice_index"`
	Text        string    `bson:"text" json:"text"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}

// ChoiceRecord is the full audit log entry written to its own collection.
// Immutable once written, except for a later consequence fill-in by the
// AI generator.
type ChoiceRecord struct {
	ID               string    `bson:"id" json:"id"`
	WalletAddress    string    `bson:"wallet_address" json:"wallet_address"`
	ChapterID        string    `bson:"chapter_id" json:"chapter_id"`
	ChoiceIndex      int       `bson:"choice_index" json:"choice_index"`
	Text             string    `bson:"text" json:"text"`
	Consequence      string    `bson:"consequence" json:"consequence,omitempty"`
	ReputationChange int       `bson:"reputation_change" json:"reputation_change"`
	Timestamp        time.Time `bson:"timestamp" json:"timestamp"`
}

// Vote is one community vote. Unique per (wallet_address, vote_type); a
// repeat vote overwrites the option but keeps the original weight.
type Vote struct {
	WalletAddress string    `bson:"wallet_address" json:"wallet_address"`
	VoteType      string    `bson:"vote_type" json:"vote_type"`
	VoteOption    string    `bson:"vote_option" json:"vote_option"`
	VoteWeight    int       `bson:"vote_weight" json:"vote_weight"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
