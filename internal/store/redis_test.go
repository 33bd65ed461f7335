package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shoenig/test/must"

	"github.com/arshad1/private-chat/internal/models"
	"github.com/arshad1/private-chat/internal/store"
	"github.com/arshad1/private-chat/internal/store/storetest"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisMessageStore(t *testing.T) {
	storetest.MessageStoreSuite(t, func(t *testing.T) store.MessageStore {
		_, client := newTestRedis(t)
		return store.NewRedisMessageStore(client)
	})
}

func TestRedisSessionStore(t *testing.T) {
	storetest.SessionStoreSuite(t, func(t *testing.T) store.SessionStore {
		_, client := newTestRedis(t)
		return store.NewRedisSessionStore(client)
	})
}

func TestRedisMessageExpiry(t *testing.T) {
	mr, client := newTestRedis(t)
	s := store.NewRedisMessageStore(client)

	msg := &models.Message{Content: "hi", From: "u1", To: "u2"}
	must.NoError(t, s.SaveMessage(context.Background(), msg))

	mr.FastForward(store.RetentionTTL + time.Minute)

	for _, userID := range []string{"u1", "u2"} {
		got, err := s.FindMessagesForUser(context.Background(), userID)
		must.NoError(t, err)
		must.Len(t, 0, got)
	}
}

// Every write refreshes the retention window, so an active conversation
// outlives the TTL measured from its first message.
func TestRedisMessageTTLRefreshedOnWrite(t *testing.T) {
	mr, client := newTestRedis(t)
	s := store.NewRedisMessageStore(client)

	must.NoError(t, s.SaveMessage(context.Background(), &models.Message{Content: "first", From: "u1", To: "u2"}))
	mr.FastForward(store.RetentionTTL - time.Hour)
	must.NoError(t, s.SaveMessage(context.Background(), &models.Message{Content: "second", From: "u1", To: "u2"}))
	mr.FastForward(2 * time.Hour)

	got, err := s.FindMessagesForUser(context.Background(), "u2")
	must.NoError(t, err)
	must.Len(t, 2, got)
}

func TestRedisSessionExpiry(t *testing.T) {
	mr, client := newTestRedis(t)
	s := store.NewRedisSessionStore(client)

	sess := models.Session{UserID: "u1", Username: "alice", Connected: true}
	must.NoError(t, s.SaveSession(context.Background(), "s1", sess))

	mr.FastForward(store.RetentionTTL + time.Minute)

	got, err := s.FindSession(context.Background(), "s1")
	must.NoError(t, err)
	must.Nil(t, got)

	all, err := s.FindAllSessions(context.Background())
	must.NoError(t, err)
	must.Len(t, 0, all)
}

// 250 sessions forces SCAN through multiple bounded rounds; the roster must
// still be complete.
func TestRedisFindAllSessionsManyScanRounds(t *testing.T) {
	_, client := newTestRedis(t)
	s := store.NewRedisSessionStore(client)

	const n = 250
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("s%03d", i)
		sess := models.Session{
			UserID:    fmt.Sprintf("u%03d", i),
			Username:  fmt.Sprintf("user-%03d", i),
			Connected: i%2 == 0,
		}
		must.NoError(t, s.SaveSession(context.Background(), id, sess))
	}

	all, err := s.FindAllSessions(context.Background())
	must.NoError(t, err)
	must.Len(t, n, all)

	seen := make(map[string]bool, len(all))
	for _, sess := range all {
		seen[sess.ID] = true
	}
	for i := 0; i < n; i++ {
		must.True(t, seen[fmt.Sprintf("s%03d", i)])
	}
}

// A malformed cached entry fails only that entry, not the whole read.
func TestRedisMalformedMessageSkipped(t *testing.T) {
	_, client := newTestRedis(t)
	s := store.NewRedisMessageStore(client)

	must.NoError(t, client.RPush(context.Background(), "messages:u1", "{not json").Err())
	must.NoError(t, s.SaveMessage(context.Background(), &models.Message{Content: "hi", From: "u1", To: "u2"}))

	got, err := s.FindMessagesForUser(context.Background(), "u1")
	must.NoError(t, err)
	must.Len(t, 1, got)
	must.Eq(t, "hi", got[0].Content)
}

// Sessions written by another instance are visible through the shared
// backend. The raw HSET mirrors what a second server process would write.
func TestRedisSessionSharedAcrossInstances(t *testing.T) {
	_, client := newTestRedis(t)
	s := store.NewRedisSessionStore(client)

	must.NoError(t, client.HSet(context.Background(), "session:remote",
		"userID", "u9", "username", "zoe", "connected", "true").Err())

	got, err := s.FindSession(context.Background(), "remote")
	must.NoError(t, err)
	must.NotNil(t, got)
	must.Eq(t, "u9", got.UserID)
	must.True(t, got.Connected)

	all, err := s.FindAllSessions(context.Background())
	must.NoError(t, err)
	must.Len(t, 1, all)
}
