package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/KryptoMuratLive/kryptomuratv4/db"
)

// AdminStatsHandler aggregates platform counters for the dashboard.
func AdminStatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userCount, err := db.CountWalletConnections(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count users")
		return
	}

	positions, err := db.ListAllStakingPositions(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch staking positions")
		return
	}
	totalStaked := 0.0
	activeStakes := 0
	for _, pos := range positions {
		if amount, err := strconv.ParseFloat(pos.Amount, 64); err == nil {
			totalStaked += amount
		}
		if pos.Status == "active" {
			activeStakes++
		}
	}

	aiCount, err := db.CountAIContent(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count AI content")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_count":           userCount,
		"total_staked":         totalStaked,
		"active_stakes":        activeStakes,
		"ai_content_generated": aiCount,
		"timestamp":            time.Now().UTC(),
	})
}
