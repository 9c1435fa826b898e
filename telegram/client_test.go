package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("path = %q, want /bottest-token/sendMessage", r.URL.Path)
		}
		var body struct {
			ChatID int64  `json:"chat_id"`
			Text   string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.ChatID != 42 {
			t.Errorf("chat_id = %d, want 42", body.ChatID)
		}
		if body.Text == "" {
			t.Error("text is empty")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	if err := client.SendMessage(context.Background(), 42, "Kapitel abgeschlossen"); err != nil {
		t.Errorf("SendMessage() error = %v", err)
	}
}

func TestSendMessageAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":          false,
			"description": "Bad Request: chat not found",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	if err := client.SendMessage(context.Background(), 1, "x"); err == nil {
		t.Error("SendMessage() error = nil, want api error")
	}
}
