package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/KryptoMuratLive/kryptomuratv4/db"
	"github.com/KryptoMuratLive/kryptomuratv4/db/models"
	"github.com/KryptoMuratLive/kryptomuratv4/web3"
)

type TelegramSubscribeRequest struct {
	WalletAddress string                    `json:"wallet_address"`
	ChatID        int64                     `json:"chat_id"`
	Notifications *models.NotificationFlags `json:"notifications,omitempty"`
}

// TelegramSubscribeHandler links a wallet to a Telegram chat. All
// notification categories default to on.
func TelegramSubscribeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req TelegramSubscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad request")
		return
	}
	if !web3.IsValidAddress(req.WalletAddress) {
		writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}
	if req.ChatID == 0 {
		writeError(w, http.StatusBadRequest, "Chat ID is required")
		return
	}

	flags := models.NotificationFlags{Staking: true, Streams: true, Story: true, General: true}
	if req.Notifications != nil {
		flags = *req.Notifications
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sub := &models.TelegramSubscription{
		WalletAddress: req.WalletAddress,
		ChatID:        req.ChatID,
		Subscribed:    true,
		Notifications: flags,
	}
	if err := db.UpsertTelegramSubscription(ctx, sub); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store subscription")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Telegram notifications enabled",
	})
}
