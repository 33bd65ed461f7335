package store

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/arshad1/private-chat/internal/models"
)

// RetentionTTL is how long cached messages and sessions are kept.
// Every write refreshes the window.
const RetentionTTL = 24 * time.Hour

// stamp assigns a ULID and send time to a message that has none yet.
// ULIDs are lexicographically time-ordered, so sorting by ID recovers
// insertion order.
func stamp(msg *models.Message) {
	if msg.ID == "" {
		msg.ID = ulid.Make().String()
	}
	if msg.SentAt == 0 {
		msg.SentAt = time.Now().UnixMilli()
	}
}

// MessageStore defines the interface for message persistence.
// MemoryMessageStore, RedisMessageStore, PostgresMessageStore and
// SQLiteMessageStore all implement this interface.
type MessageStore interface {
	// SaveMessage persists a message. The message's ID is assigned on
	// first save when empty.
	SaveMessage(ctx context.Context, msg *models.Message) error

	// FindMessagesForUser returns every message where userID is sender
	// or recipient, oldest first, within the backend's retention window.
	// An unknown user yields an empty slice, not an error.
	FindMessagesForUser(ctx context.Context, userID string) ([]models.Message, error)
}

// SessionStore defines the interface for per-connection session state.
// Writes are idempotent upserts keyed by session ID.
type SessionStore interface {
	// FindSession returns the session for id, or (nil, nil) when no
	// session exists. Absence is not an error.
	FindSession(ctx context.Context, id string) (*models.Session, error)

	// SaveSession upserts the session for id. For a given id at most one
	// record exists afterwards, regardless of concurrent saves.
	SaveSession(ctx context.Context, id string, sess models.Session) error

	// FindAllSessions returns every currently known session, including
	// ones written by other instances when the backend is shared.
	FindAllSessions(ctx context.Context) ([]models.Session, error)
}
