package models

import "github.com/google/uuid"

// Session represents the connection state of a logical user presence.
// The same ID is reused across reconnects; saving is an upsert keyed by ID.
type Session struct {
	ID        string `json:"id"`
	UserID    string `json:"userID"`
	Username  string `json:"username"`
	Connected bool   `json:"connected"`
}

// NewSessionID generates a time-ordered session identifier for a new
// connection. The transport layer calls this on first connect and reuses
// the ID for the lifetime of the user's presence.
func NewSessionID() string {
	return uuid.Must(uuid.NewV7()).String()
}
