package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/KryptoMuratLive/kryptomuratv4/config"
	"github.com/KryptoMuratLive/kryptomuratv4/db"
	"github.com/KryptoMuratLive/kryptomuratv4/db/models"
	"github.com/KryptoMuratLive/kryptomuratv4/prompts"
)

type GenerateContentRequest struct {
	Prompt        string `json:"prompt"`
	ContentType   string `json:"content_type"`
	SessionID     string `json:"session_id"`
	WalletAddress string `json:"wallet_address,omitempty"`
}

// GenerateContentHandler produces German platform content (meme, comic,
// story or free text) and stores it under the request's session.
func GenerateContentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GenerateContentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad request")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}
	if req.ContentType == "" {
		req.ContentType = "meme"
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	text, err := generate(ctx, prompts.ForContentType(req.ContentType, req.Prompt))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate content: "+err.Error())
		return
	}

	content := &models.AIContent{
		ID:            uuid.NewString(),
		WalletAddress: req.WalletAddress,
		Prompt:        req.Prompt,
		ContentType:   req.ContentType,
		Content:       text,
		SessionID:     req.SessionID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := db.SaveAIContent(ctx, content); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store content")
		return
	}

	writeJSON(w, http.StatusOK, content)
}

// AIContentHistoryHandler returns the generation history for
// /api/ai/content/{session_id}.
func AIContentHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := strings.TrimPrefix(r.URL.Path, "/api/ai/content/")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items, err := db.GetAIContentBySession(ctx, sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch content history")
		return
	}
	if items == nil {
		items = []models.AIContent{}
	}

	writeJSON(w, http.StatusOK, items)
}

// GenerateConsequence is the story engine's flavor-text collaborator: it
// turns an applied choice into a short German consequence line.
func GenerateConsequence(ctx context.Context, chapterTitle, choiceText string) (string, error) {
	return generate(ctx, prompts.ForConsequence(chapterTitle, choiceText))
}

func generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: config.GetGeminiAPIKey(),
	})
	if err != nil {
		return "", err
	}

	full := prompts.SystemPersona + "\n\n" + prompt
	resp, err := client.Models.GenerateContent(ctx, config.GetGeminiModel(),
		[]*genai.Content{genai.NewContentFromText(full, genai.RoleUser)}, nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
