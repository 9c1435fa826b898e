package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KryptoMuratLive/kryptomuratv4/db"
	"github.com/KryptoMuratLive/kryptomuratv4/db/models"
	"github.com/KryptoMuratLive/kryptomuratv4/web3"
)

type CreateStakingRequest struct {
	WalletAddress string `json:"wallet_address"`
	Amount        string `json:"amount"`
	DurationDays  int    `json:"duration_days"`
}

// apyForDuration looks up the fixed APY for a staking duration. Unknown
// durations fall back to the 30-day rate.
func apyForDuration(table map[int]float64, durationDays int) float64 {
	if apy, ok := table[durationDays]; ok {
		return apy
	}
	return 2.0
}

// accruedRewards sums the daily accrual over all given positions as of now.
func accruedRewards(positions []models.StakingPosition, now time.Time) float64 {
	total := 0.0
	for _, pos := range positions {
		amount, err := strconv.ParseFloat(pos.Amount, 64)
		if err != nil {
			continue
		}
		daysStaked := int(now.Sub(pos.StartDate).Hours() / 24)
		if daysStaked < 0 {
			daysStaked = 0
		}
		dailyRate := pos.APY / 365 / 100
		total += amount * dailyRate * float64(daysStaked)
	}
	return total
}

// CreateStakingHandler opens a staking position with the APY frozen from the
// duration table.
func CreateStakingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CreateStakingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad request")
		return
	}
	if req.WalletAddress == "" || req.Amount == "" || req.DurationDays == 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !web3.IsValidAddress(req.WalletAddress) {
		writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}
	if _, err := strconv.ParseFloat(req.Amount, 64); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	now := time.Now().UTC()
	position := &models.StakingPosition{
		ID:            uuid.NewString(),
		WalletAddress: req.WalletAddress,
		Amount:        req.Amount,
		DurationDays:  req.DurationDays,
		APY:           apyForDuration(cfg.StakingAPY, req.DurationDays),
		StartDate:     now,
		EndDate:       now.AddDate(0, 0, req.DurationDays),
		Status:        "active",
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := db.CreateStakingPosition(ctx, position); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create staking position")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"staking_position": position,
	})
}

// StakingPositionsHandler lists all positions for
// /api/staking/positions/{address}.
func StakingPositionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	address := strings.TrimPrefix(r.URL.Path, "/api/staking/positions/")
	if !web3.IsValidAddress(address) {
		writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	positions, err := db.GetStakingPositions(ctx, address, "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch positions")
		return
	}
	if positions == nil {
		positions = []models.StakingPosition{}
	}

	writeJSON(w, http.StatusOK, positions)
}

// StakingRewardsHandler computes accrued rewards over the wallet's active
// positions for /api/staking/rewards/{address}.
func StakingRewardsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	address := strings.TrimPrefix(r.URL.Path, "/api/staking/rewards/")
	if !web3.IsValidAddress(address) {
		writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	positions, err := db.GetStakingPositions(ctx, address, "active")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch positions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"wallet_address": address,
		"total_rewards":  accruedRewards(positions, time.Now().UTC()),
	})
}
