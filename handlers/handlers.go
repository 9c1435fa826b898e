package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/KryptoMuratLive/kryptomuratv4/config"
	"github.com/KryptoMuratLive/kryptomuratv4/livepeer"
	"github.com/KryptoMuratLive/kryptomuratv4/story"
	"github.com/KryptoMuratLive/kryptomuratv4/web3"
)

var (
	cfg       *config.Config
	engine    *story.Engine
	chain     *web3.Client
	streamAPI *livepeer.Client
)

// Init wires the handler package's dependencies. Must run before any route
// is served.
func Init(c *config.Config, e *story.Engine, w *web3.Client, l *livepeer.Client) {
	cfg = c
	engine = e
	chain = w
	streamAPI = l
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "error": msg})
}

// writeEngineError maps story engine error kinds to distinct HTTP responses
// so the frontend can show appropriate feedback per kind.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, story.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, story.ErrInvalidChoice):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, story.ErrAccessDenied):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, story.ErrNotUnlocked):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
