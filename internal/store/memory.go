package store

import (
	"context"
	"sync"

	"github.com/arshad1/private-chat/internal/metrics"
	"github.com/arshad1/private-chat/internal/models"
)

// MemoryMessageStore keeps messages in an append-only slice for the
// lifetime of the process. No expiry, no persistence across restarts.
type MemoryMessageStore struct {
	mu       sync.RWMutex
	messages []models.Message
}

// NewMemoryMessageStore creates an in-process message store.
func NewMemoryMessageStore() *MemoryMessageStore {
	return &MemoryMessageStore{}
}

// SaveMessage appends the message.
func (s *MemoryMessageStore) SaveMessage(ctx context.Context, msg *models.Message) error {
	stamp(msg)

	s.mu.Lock()
	s.messages = append(s.messages, *msg)
	s.mu.Unlock()

	metrics.MessagesSaved.WithLabelValues("memory").Inc()
	return nil
}

// FindMessagesForUser filters the full sequence by endpoint membership.
func (s *MemoryMessageStore) FindMessagesForUser(ctx context.Context, userID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Message, 0)
	for _, m := range s.messages {
		if m.Involves(userID) {
			result = append(result, m)
		}
	}
	return result, nil
}

// MemorySessionStore keeps sessions in a map keyed by session ID.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewMemorySessionStore creates an in-process session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]models.Session)}
}

// FindSession looks up the session for id, returning (nil, nil) when absent.
func (s *MemorySessionStore) FindSession(ctx context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

// SaveSession overwrites the session for id.
func (s *MemorySessionStore) SaveSession(ctx context.Context, id string, sess models.Session) error {
	sess.ID = id

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	metrics.SessionsSaved.WithLabelValues("memory").Inc()
	return nil
}

// FindAllSessions returns the current value set.
func (s *MemorySessionStore) FindAllSessions(ctx context.Context) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		result = append(result, sess)
	}
	return result, nil
}
