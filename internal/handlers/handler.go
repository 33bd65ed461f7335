package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/arshad1/private-chat/internal/store"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	messages store.MessageStore
	sessions store.SessionStore
	pingers  map[string]Pinger
}

// NewHandler creates a new Handler. pingers maps a backend name ("redis",
// "postgres", ...) to its connectivity check for the health endpoint.
func NewHandler(messages store.MessageStore, sessions store.SessionStore, pingers map[string]Pinger) *Handler {
	return &Handler{messages: messages, sessions: sessions, pingers: pingers}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
