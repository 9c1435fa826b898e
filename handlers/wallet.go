package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KryptoMuratLive/kryptomuratv4/db"
	"github.com/KryptoMuratLive/kryptomuratv4/db/models"
	"github.com/KryptoMuratLive/kryptomuratv4/web3"
)

type ConnectWalletRequest struct {
	WalletAddress string `json:"wallet_address"`
	ChainID       int    `json:"chain_id"`
}

// ConnectWalletHandler records a wallet session.
func ConnectWalletHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ConnectWalletRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad request")
		return
	}
	if !web3.IsValidAddress(req.WalletAddress) {
		writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}
	if req.ChainID == 0 {
		req.ChainID = 137 // Polygon mainnet
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	conn := &models.WalletConnection{
		ID:            uuid.NewString(),
		WalletAddress: req.WalletAddress,
		ChainID:       req.ChainID,
	}
	if err := db.SaveWalletConnection(ctx, conn); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store wallet connection")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Wallet connected successfully",
	})
}

// TokenBalanceHandler returns the MURAT token balance for
// /api/wallet/balance/{address}.
func TokenBalanceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	address := strings.TrimPrefix(r.URL.Path, "/api/wallet/balance/")
	if !web3.IsValidAddress(address) {
		writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	balance, err := chain.TokenBalanceOf(ctx, cfg.MuratTokenAddress, address)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching balance: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, balance)
}
