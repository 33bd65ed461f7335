package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arshad1/private-chat/internal/models"
)

// MessageListResponse represents the message history response.
type MessageListResponse struct {
	Messages []models.Message `json:"messages"`
	Total    int              `json:"total"`
}

// UserMessages handles message history lookup for a user, returning every
// message where the user is sender or recipient, oldest first.
func (h *Handler) UserMessages(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.Error(w, http.StatusBadRequest, "missing user ID")
		return
	}

	messages, err := h.messages.FindMessagesForUser(r.Context(), userID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "message store error")
		return
	}

	h.JSON(w, http.StatusOK, MessageListResponse{
		Messages: messages,
		Total:    len(messages),
	})
}
