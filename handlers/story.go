package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/KryptoMuratLive/kryptomuratv4/story"
	"github.com/KryptoMuratLive/kryptomuratv4/web3"
)

type InitializeStoryRequest struct {
	WalletAddress string `json:"wallet_address"`
}

// InitializeStoryHandler creates (or returns) the wallet's story progress.
func InitializeStoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req InitializeStoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad request")
		return
	}
	if !web3.IsValidAddress(req.WalletAddress) {
		writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	progress, err := engine.Initialize(ctx, req.WalletAddress)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    progress,
	})
}

// ChaptersHandler lists the public chapter summaries, ordered by chapter
// number.
func ChaptersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	chapters, err := engine.ListChapters(ctx)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chapters": chapters,
		"count":    len(chapters),
	})
}

// ChapterDetailHandler returns the full chapter for
// /api/story/chapter/{chapterId}?wallet=0x..., enforcing the NFT gate and
// the unlock requirements.
func ChapterDetailHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	chapterID := strings.TrimPrefix(r.URL.Path, "/api/story/chapter/")
	if chapterID == "" {
		writeError(w, http.StatusBadRequest, "Chapter ID is required")
		return
	}
	wallet := r.URL.Query().Get("wallet")
	if !web3.IsValidAddress(wallet) {
		writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	// The NFT gate is resolved on chain. A failed lookup counts as no
	// access rather than an error; the engine still rejects gated
	// chapters.
	hasAccess := false
	tier, err := resolveTier(ctx, wallet)
	if err != nil {
		log.Printf("[TIER_FALLBACK] tier lookup for %s failed: %v", wallet, err)
	} else {
		hasAccess = tier != story.TierNone
	}

	chapter, err := engine.GetChapter(ctx, chapterID, wallet, hasAccess)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chapter)
}

// StoryProgressHandler returns stored progress for
// /api/story/progress/{address}.
func StoryProgressHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	address := strings.TrimPrefix(r.URL.Path, "/api/story/progress/")
	if !web3.IsValidAddress(address) {
		writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	progress, err := engine.Progress(ctx, address)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

type StoryChoiceRequest struct {
	WalletAddress string `json:"wallet_address"`
	ChapterID     string `json:"chapter_id"`
	ChoiceIndex   *int   `json:"choice_index"`
}

// StoryChoiceHandler applies a chapter choice to the wallet's progress.
func StoryChoiceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req StoryChoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad request")
		return
	}
	if req.WalletAddress == "" || req.ChapterID == "" || req.ChoiceIndex == nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !web3.IsValidAddress(req.WalletAddress) {
		writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	result, err := engine.ApplyChoice(ctx, req.WalletAddress, req.ChapterID, *req.ChoiceIndex)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

type StoryVoteRequest struct {
	WalletAddress string `json:"wallet_address"`
	VoteType      string `json:"vote_type"`
	VoteOption    string `json:"vote_option"`
}

// StoryVoteHandler casts a community vote. The vote weight is frozen at the
// wallet's access tier on first cast.
func StoryVoteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req StoryVoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad request")
		return
	}
	if req.WalletAddress == "" || req.VoteType == "" || req.VoteOption == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !web3.IsValidAddress(req.WalletAddress) {
		writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	vote, err := engine.CastVote(ctx, req.WalletAddress, req.VoteType, req.VoteOption)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    vote,
	})
}

// StoryVotesHandler tallies votes for /api/story/votes/{vote_type}.
func StoryVotesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	voteType := strings.TrimPrefix(r.URL.Path, "/api/story/votes/")
	if voteType == "" {
		writeError(w, http.StatusBadRequest, "Vote type is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tally, err := engine.TallyVotes(ctx, voteType)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tally)
}
