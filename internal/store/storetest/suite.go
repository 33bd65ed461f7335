// Package storetest provides conformance suites run against every backend
// implementation of the store interfaces.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/shoenig/test/must"

	"github.com/arshad1/private-chat/internal/models"
	"github.com/arshad1/private-chat/internal/store"
)

// MessageStoreSuite tests a MessageStore implementation. The factory is
// called once per subtest and must return an empty store.
func MessageStoreSuite(t *testing.T, newStore func(t *testing.T) store.MessageStore) {
	t.Helper()

	t.Run("visible to both endpoints", func(t *testing.T) {
		s := newStore(t)

		msg := &models.Message{Content: "hi", From: "u1", To: "u2"}
		must.NoError(t, s.SaveMessage(context.Background(), msg))
		must.NotEq(t, "", msg.ID)

		for _, userID := range []string{"u1", "u2"} {
			got, err := s.FindMessagesForUser(context.Background(), userID)
			must.NoError(t, err)
			must.Len(t, 1, got)
			must.Eq(t, "hi", got[0].Content)
			must.Eq(t, "u1", got[0].From)
			must.Eq(t, "u2", got[0].To)
		}
	})

	t.Run("unknown user yields empty slice", func(t *testing.T) {
		s := newStore(t)

		got, err := s.FindMessagesForUser(context.Background(), "nobody")
		must.NoError(t, err)
		must.Len(t, 0, got)
	})

	t.Run("insertion order preserved", func(t *testing.T) {
		s := newStore(t)

		for _, content := range []string{"one", "two", "three"} {
			msg := &models.Message{Content: content, From: "u1", To: "u2"}
			must.NoError(t, s.SaveMessage(context.Background(), msg))
		}

		got, err := s.FindMessagesForUser(context.Background(), "u1")
		must.NoError(t, err)
		must.Len(t, 3, got)
		must.Eq(t, "one", got[0].Content)
		must.Eq(t, "two", got[1].Content)
		must.Eq(t, "three", got[2].Content)
	})

	t.Run("uninvolved user sees nothing", func(t *testing.T) {
		s := newStore(t)

		msg := &models.Message{Content: "private", From: "u1", To: "u2"}
		must.NoError(t, s.SaveMessage(context.Background(), msg))

		got, err := s.FindMessagesForUser(context.Background(), "u3")
		must.NoError(t, err)
		must.Len(t, 0, got)
	})
}

// SessionStoreSuite tests a SessionStore implementation. The factory is
// called once per subtest and must return an empty store.
func SessionStoreSuite(t *testing.T, newStore func(t *testing.T) store.SessionStore) {
	t.Helper()

	t.Run("round trip", func(t *testing.T) {
		s := newStore(t)

		sess := models.Session{UserID: "u1", Username: "alice", Connected: true}
		must.NoError(t, s.SaveSession(context.Background(), "s1", sess))

		got, err := s.FindSession(context.Background(), "s1")
		must.NoError(t, err)
		must.NotNil(t, got)
		must.Eq(t, "u1", got.UserID)
		must.Eq(t, "alice", got.Username)
		must.True(t, got.Connected)
	})

	t.Run("absence is not an error", func(t *testing.T) {
		s := newStore(t)

		got, err := s.FindSession(context.Background(), "unknown")
		must.NoError(t, err)
		must.Nil(t, got)
	})

	t.Run("save is idempotent", func(t *testing.T) {
		s := newStore(t)

		sess := models.Session{UserID: "u1", Username: "alice", Connected: true}
		must.NoError(t, s.SaveSession(context.Background(), "s1", sess))
		must.NoError(t, s.SaveSession(context.Background(), "s1", sess))

		all, err := s.FindAllSessions(context.Background())
		must.NoError(t, err)
		must.Len(t, 1, all)
	})

	t.Run("save updates in place", func(t *testing.T) {
		s := newStore(t)

		must.NoError(t, s.SaveSession(context.Background(), "s1",
			models.Session{UserID: "u1", Username: "alice", Connected: true}))
		must.NoError(t, s.SaveSession(context.Background(), "s1",
			models.Session{UserID: "u1", Username: "alice", Connected: false}))

		got, err := s.FindSession(context.Background(), "s1")
		must.NoError(t, err)
		must.NotNil(t, got)
		must.False(t, got.Connected)

		all, err := s.FindAllSessions(context.Background())
		must.NoError(t, err)
		must.Len(t, 1, all)
	})

	t.Run("enumerates all sessions", func(t *testing.T) {
		s := newStore(t)

		sessions := map[string]models.Session{
			"s1": {UserID: "u1", Username: "alice", Connected: true},
			"s2": {UserID: "u2", Username: "bob", Connected: false},
			"s3": {UserID: "u3", Username: "carol", Connected: true},
		}
		for id, sess := range sessions {
			must.NoError(t, s.SaveSession(context.Background(), id, sess))
		}

		all, err := s.FindAllSessions(context.Background())
		must.NoError(t, err)
		must.Len(t, 3, all)

		seen := make(map[string]models.Session, len(all))
		for _, sess := range all {
			seen[sess.UserID] = sess
		}
		for _, want := range sessions {
			got, ok := seen[want.UserID]
			must.True(t, ok)
			must.Eq(t, want.Username, got.Username)
			must.Eq(t, want.Connected, got.Connected)
		}
	})

	t.Run("concurrent saves leave one record", func(t *testing.T) {
		s := newStore(t)

		const n = 16
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = s.SaveSession(context.Background(), "s1",
					models.Session{UserID: "u1", Username: "alice", Connected: true})
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			must.NoError(t, err)
		}

		all, err := s.FindAllSessions(context.Background())
		must.NoError(t, err)
		must.Len(t, 1, all)
	})
}
