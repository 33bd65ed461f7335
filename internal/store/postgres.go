package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arshad1/private-chat/internal/metrics"
	"github.com/arshad1/private-chat/internal/models"
)

// NewPostgresPool creates and pings a connection pool for the relational
// backends. Each store operation checks a connection out of the pool and
// returns it on every exit path.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// EnsurePostgresSchema creates the message and session tables if they do
// not exist.
func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := `
	CREATE TABLE IF NOT EXISTS message (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		xfrom TEXT NOT NULL,
		xto TEXT NOT NULL,
		user_id TEXT NOT NULL,
		sent_at BIGINT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_message_xfrom ON message(xfrom);
	CREATE INDEX IF NOT EXISTS idx_message_xto ON message(xto);

	CREATE TABLE IF NOT EXISTS chat_session (
		session_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		connected BOOLEAN NOT NULL
	);
	`

	_, err := pool.Exec(ctx, schema)
	return err
}

// PostgresMessageStore persists messages in the message table.
type PostgresMessageStore struct {
	pool *pgxpool.Pool
}

// NewPostgresMessageStore creates a PostgreSQL-backed message store.
func NewPostgresMessageStore(pool *pgxpool.Pool) *PostgresMessageStore {
	return &PostgresMessageStore{pool: pool}
}

// SaveMessage inserts a single row. The owning user_id column is set to the
// sender, matching the existing schema convention.
func (s *PostgresMessageStore) SaveMessage(ctx context.Context, msg *models.Message) error {
	stamp(msg)

	_, err := s.pool.Exec(ctx, `
		INSERT INTO message (id, content, xfrom, xto, user_id, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, msg.ID, msg.Content, msg.From, msg.To, msg.From, msg.SentAt)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("postgres", "save_message").Inc()
		return fmt.Errorf("postgres save message: %w", err)
	}

	metrics.MessagesSaved.WithLabelValues("postgres").Inc()
	return nil
}

// FindMessagesForUser selects every row where the user is either endpoint,
// ordered by ID (ULIDs sort in insertion-time order). Column names xfrom and
// xto are mapped back to From and To.
func (s *PostgresMessageStore) FindMessagesForUser(ctx context.Context, userID string) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, content, xfrom, xto, sent_at
		FROM message
		WHERE xfrom = $1 OR xto = $1
		ORDER BY id
	`, userID)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("postgres", "find_messages").Inc()
		return nil, fmt.Errorf("postgres find messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.Content, &msg.From, &msg.To, &msg.SentAt); err != nil {
			return nil, fmt.Errorf("postgres scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		metrics.StoreErrors.WithLabelValues("postgres", "find_messages").Inc()
		return nil, fmt.Errorf("postgres find messages: %w", err)
	}

	return messages, nil
}

// PostgresSessionStore persists sessions in the chat_session table.
type PostgresSessionStore struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionStore creates a PostgreSQL-backed session store.
func NewPostgresSessionStore(pool *pgxpool.Pool) *PostgresSessionStore {
	return &PostgresSessionStore{pool: pool}
}

// FindSession selects by session_id, mapping user_id to UserID and
// returning (nil, nil) when no row matches.
func (s *PostgresSessionStore) FindSession(ctx context.Context, id string) (*models.Session, error) {
	sess := &models.Session{}
	err := s.pool.QueryRow(ctx, `
		SELECT session_id, user_id, username, connected
		FROM chat_session WHERE session_id = $1
	`, id).Scan(&sess.ID, &sess.UserID, &sess.Username, &sess.Connected)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		metrics.StoreErrors.WithLabelValues("postgres", "find_session").Inc()
		return nil, fmt.Errorf("postgres find session: %w", err)
	}
	return sess, nil
}

// SaveSession issues a single atomic upsert keyed by session_id, so
// concurrent saves for the same id can never produce duplicate rows.
func (s *PostgresSessionStore) SaveSession(ctx context.Context, id string, sess models.Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_session (session_id, user_id, username, connected)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			username = EXCLUDED.username,
			connected = EXCLUDED.connected
	`, id, sess.UserID, sess.Username, sess.Connected)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("postgres", "save_session").Inc()
		return fmt.Errorf("postgres save session: %w", err)
	}

	metrics.SessionsSaved.WithLabelValues("postgres").Inc()
	return nil
}

// FindAllSessions selects every row with the same field normalization.
func (s *PostgresSessionStore) FindAllSessions(ctx context.Context) ([]models.Session, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT session_id, user_id, username, connected
		FROM chat_session
		ORDER BY session_id
	`)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("postgres", "find_all_sessions").Inc()
		return nil, fmt.Errorf("postgres find all sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		var sess models.Session
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.Username, &sess.Connected); err != nil {
			return nil, fmt.Errorf("postgres scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		metrics.StoreErrors.WithLabelValues("postgres", "find_all_sessions").Inc()
		return nil, fmt.Errorf("postgres find all sessions: %w", err)
	}

	return sessions, nil
}
