package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/arshad1/private-chat/internal/metrics"
	"github.com/arshad1/private-chat/internal/models"
)

// NewSQLiteDB opens the SQLite database shared by the SQLite-backed stores
// and initializes the schema. If dbPath is empty, defaults to
// "./data/chat.db".
func NewSQLiteDB(ctx context.Context, dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		dbPath = "./data/chat.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// Single writer; concurrent upserts otherwise fail with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// initSchema creates tables if they don't exist.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS message (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		xfrom TEXT NOT NULL,
		xto TEXT NOT NULL,
		user_id TEXT NOT NULL,
		sent_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_message_xfrom ON message(xfrom);
	CREATE INDEX IF NOT EXISTS idx_message_xto ON message(xto);

	CREATE TABLE IF NOT EXISTS chat_session (
		session_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		connected INTEGER NOT NULL DEFAULT 0
	);
	`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SQLiteMessageStore persists messages in a local SQLite database.
type SQLiteMessageStore struct {
	db *sql.DB
}

// NewSQLiteMessageStore creates a SQLite-backed message store.
func NewSQLiteMessageStore(db *sql.DB) *SQLiteMessageStore {
	return &SQLiteMessageStore{db: db}
}

// SaveMessage inserts a single row. The owning user_id column is set to the
// sender, matching the existing schema convention.
func (s *SQLiteMessageStore) SaveMessage(ctx context.Context, msg *models.Message) error {
	stamp(msg)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO message (id, content, xfrom, xto, user_id, sent_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.Content, msg.From, msg.To, msg.From, msg.SentAt)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("sqlite", "save_message").Inc()
		return fmt.Errorf("sqlite save message: %w", err)
	}

	metrics.MessagesSaved.WithLabelValues("sqlite").Inc()
	return nil
}

// FindMessagesForUser selects every row where the user is either endpoint,
// ordered by ID, mapping xfrom and xto back to From and To.
func (s *SQLiteMessageStore) FindMessagesForUser(ctx context.Context, userID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, xfrom, xto, sent_at
		FROM message
		WHERE xfrom = ? OR xto = ?
		ORDER BY id
	`, userID, userID)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("sqlite", "find_messages").Inc()
		return nil, fmt.Errorf("sqlite find messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.Content, &msg.From, &msg.To, &msg.SentAt); err != nil {
			return nil, fmt.Errorf("sqlite scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		metrics.StoreErrors.WithLabelValues("sqlite", "find_messages").Inc()
		return nil, fmt.Errorf("sqlite find messages: %w", err)
	}

	return messages, nil
}

// SQLiteSessionStore persists sessions in a local SQLite database.
type SQLiteSessionStore struct {
	db *sql.DB
}

// NewSQLiteSessionStore creates a SQLite-backed session store.
func NewSQLiteSessionStore(db *sql.DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db}
}

// FindSession selects by session_id, returning (nil, nil) when no row
// matches.
func (s *SQLiteSessionStore) FindSession(ctx context.Context, id string) (*models.Session, error) {
	sess := &models.Session{}
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, user_id, username, connected
		FROM chat_session WHERE session_id = ?
	`, id).Scan(&sess.ID, &sess.UserID, &sess.Username, &sess.Connected)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		metrics.StoreErrors.WithLabelValues("sqlite", "find_session").Inc()
		return nil, fmt.Errorf("sqlite find session: %w", err)
	}
	return sess, nil
}

// SaveSession issues a single atomic upsert keyed by session_id.
func (s *SQLiteSessionStore) SaveSession(ctx context.Context, id string, sess models.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_session (session_id, user_id, username, connected)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET
			user_id = excluded.user_id,
			username = excluded.username,
			connected = excluded.connected
	`, id, sess.UserID, sess.Username, sess.Connected)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("sqlite", "save_session").Inc()
		return fmt.Errorf("sqlite save session: %w", err)
	}

	metrics.SessionsSaved.WithLabelValues("sqlite").Inc()
	return nil
}

// FindAllSessions selects every row with the same field normalization.
func (s *SQLiteSessionStore) FindAllSessions(ctx context.Context) ([]models.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, user_id, username, connected
		FROM chat_session
		ORDER BY session_id
	`)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("sqlite", "find_all_sessions").Inc()
		return nil, fmt.Errorf("sqlite find all sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		var sess models.Session
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.Username, &sess.Connected); err != nil {
			return nil, fmt.Errorf("sqlite scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		metrics.StoreErrors.WithLabelValues("sqlite", "find_all_sessions").Inc()
		return nil, fmt.Errorf("sqlite find all sessions: %w", err)
	}

	return sessions, nil
}
