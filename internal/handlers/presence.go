package handlers

import (
	"net/http"
)

// PresenceEntry represents one session in the presence roster.
type PresenceEntry struct {
	UserID    string `json:"userID"`
	Username  string `json:"username"`
	Connected bool   `json:"connected"`
}

// PresenceResponse represents the presence roster response.
type PresenceResponse struct {
	Sessions []PresenceEntry `json:"sessions"`
	Total    int             `json:"total"`
}

// Presence handles the presence roster, listing every known session.
func (h *Handler) Presence(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.FindAllSessions(r.Context())
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "session store error")
		return
	}

	entries := make([]PresenceEntry, 0, len(sessions))
	for _, sess := range sessions {
		entries = append(entries, PresenceEntry{
			UserID:    sess.UserID,
			Username:  sess.Username,
			Connected: sess.Connected,
		})
	}

	h.JSON(w, http.StatusOK, PresenceResponse{
		Sessions: entries,
		Total:    len(entries),
	})
}
