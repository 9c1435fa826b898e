package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/KryptoMuratLive/kryptomuratv4/db"
	"github.com/KryptoMuratLive/kryptomuratv4/db/models"
	"github.com/KryptoMuratLive/kryptomuratv4/web3"
)

type CreateStreamRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	CreatorWallet string `json:"creator_wallet"`
	NFTRequired   bool   `json:"nft_required"`
}

// CreateStreamResponse includes the stream key, which only the creator may
// see. List responses never carry it.
type CreateStreamResponse struct {
	models.Stream
	StreamKey string `json:"stream_key"`
}

// StreamsHandler serves /api/streams: POST provisions a stream through
// Livepeer, GET lists active streams.
func StreamsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		createStream(w, r)
	case http.MethodGet:
		listStreams(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func createStream(w http.ResponseWriter, r *http.Request) {
	var req CreateStreamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad request")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Stream name is required")
		return
	}
	if !web3.IsValidAddress(req.CreatorWallet) {
		writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	provisioned, err := streamAPI.CreateStream(ctx, req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to provision stream: "+err.Error())
		return
	}

	stream := &models.Stream{
		ID:            provisioned.ID,
		Name:          req.Name,
		Description:   req.Description,
		CreatorWallet: req.CreatorWallet,
		StreamKey:     provisioned.StreamKey,
		PlaybackID:    provisioned.PlaybackID,
		NFTRequired:   req.NFTRequired,
		Status:        "active",
	}
	if err := db.SaveStream(ctx, stream); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store stream")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": CreateStreamResponse{
			Stream:    *stream,
			StreamKey: stream.StreamKey,
		},
	})
}

func listStreams(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	streams, err := db.ListStreams(ctx, "active")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch streams")
		return
	}
	if streams == nil {
		streams = []models.Stream{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"streams": streams,
		"count":   len(streams),
	})
}
