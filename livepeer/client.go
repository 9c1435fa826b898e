// Package livepeer provisions live streams through the Livepeer REST API.
package livepeer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the Livepeer API with a bearer key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient returns a client for the given API base URL and key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Stream is the subset of Livepeer's stream object the platform uses.
type Stream struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	StreamKey  string `json:"streamKey"`
	PlaybackID string `json:"playbackId"`
}

// CreateStream provisions a new stream and returns its key and playback id.
func (c *Client) CreateStream(ctx context.Context, name string) (*Stream, error) {
	body, err := json.Marshal(map[string]interface{}{
		"name": name,
		"profiles": []map[string]interface{}{
			{"name": "720p", "bitrate": 2000000, "fps": 30, "width": 1280, "height": 720},
			{"name": "480p", "bitrate": 1000000, "fps": 30, "width": 854, "height": 480},
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stream", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("livepeer create stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("livepeer create stream: status %d", resp.StatusCode)
	}

	var stream Stream
	if err := json.NewDecoder(resp.Body).Decode(&stream); err != nil {
		return nil, fmt.Errorf("livepeer create stream: decode: %w", err)
	}
	return &stream, nil
}
