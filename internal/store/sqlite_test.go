package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shoenig/test/must"

	"github.com/arshad1/private-chat/internal/models"
	"github.com/arshad1/private-chat/internal/store"
	"github.com/arshad1/private-chat/internal/store/storetest"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.NewSQLiteDB(context.Background(), filepath.Join(t.TempDir(), "chat.db"))
	must.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteMessageStore(t *testing.T) {
	storetest.MessageStoreSuite(t, func(t *testing.T) store.MessageStore {
		return store.NewSQLiteMessageStore(newTestDB(t))
	})
}

func TestSQLiteSessionStore(t *testing.T) {
	storetest.SessionStoreSuite(t, func(t *testing.T) store.SessionStore {
		return store.NewSQLiteSessionStore(newTestDB(t))
	})
}

// Every stored row is attributed to the sender via user_id.
func TestSQLiteMessageOwnership(t *testing.T) {
	db := newTestDB(t)
	s := store.NewSQLiteMessageStore(db)

	msg := &models.Message{Content: "hi", From: "u1", To: "u2"}
	must.NoError(t, s.SaveMessage(context.Background(), msg))

	var owner string
	err := db.QueryRowContext(context.Background(),
		`SELECT user_id FROM message WHERE id = ?`, msg.ID).Scan(&owner)
	must.NoError(t, err)
	must.Eq(t, "u1", owner)
}
