package models

// Message represents a direct chat message between two users.
// Messages are immutable once saved; there is no update or delete.
type Message struct {
	ID      string `json:"id"` // ULID, assigned on first save
	Content string `json:"content"`
	From    string `json:"from"` // sender user ID
	To      string `json:"to"`   // recipient user ID
	SentAt  int64  `json:"ts"`   // Unix ms
}

// Involves reports whether userID is either endpoint of the message.
func (m Message) Involves(userID string) bool {
	return m.From == userID || m.To == userID
}
