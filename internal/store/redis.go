package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/arshad1/private-chat/internal/metrics"
	"github.com/arshad1/private-chat/internal/models"
)

// scanCount bounds how many keys a single SCAN round trip may return.
const scanCount = 100

// NewRedisClient connects and pings a Redis client for the cache backends.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// messagesKey returns the key for a user's message list.
func messagesKey(userID string) string {
	return fmt.Sprintf("messages:%s", userID)
}

// sessionKey returns the key for a session hash.
func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// RedisMessageStore keeps each user's conversation as a Redis list with a
// retention TTL refreshed on every write.
type RedisMessageStore struct {
	client *redis.Client
}

// NewRedisMessageStore creates a Redis-backed message store.
func NewRedisMessageStore(client *redis.Client) *RedisMessageStore {
	return &RedisMessageStore{client: client}
}

// SaveMessage appends the message to both endpoints' lists and refreshes
// their TTLs in a single MULTI/EXEC batch, so a crash mid-write can never
// leave one side updated and the other stale.
func (s *RedisMessageStore) SaveMessage(ctx context.Context, msg *models.Message) error {
	stamp(msg)

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	fromKey := messagesKey(msg.From)
	toKey := messagesKey(msg.To)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, fromKey, data)
		pipe.RPush(ctx, toKey, data)
		pipe.Expire(ctx, fromKey, RetentionTTL)
		pipe.Expire(ctx, toKey, RetentionTTL)
		return nil
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("redis", "save_message").Inc()
		return fmt.Errorf("redis save message: %w", err)
	}

	metrics.MessagesSaved.WithLabelValues("redis").Inc()
	return nil
}

// FindMessagesForUser reads the user's full list in append order. An absent
// key yields an empty slice. A malformed entry fails only that entry.
func (s *RedisMessageStore) FindMessagesForUser(ctx context.Context, userID string) ([]models.Message, error) {
	results, err := s.client.LRange(ctx, messagesKey(userID), 0, -1).Result()
	if err != nil {
		metrics.StoreErrors.WithLabelValues("redis", "find_messages").Inc()
		return nil, fmt.Errorf("redis find messages: %w", err)
	}

	messages := make([]models.Message, 0, len(results))
	for _, data := range results {
		var msg models.Message
		if err := json.Unmarshal([]byte(data), &msg); err != nil {
			metrics.DecodeFailures.WithLabelValues("redis").Inc()
			continue
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// RedisSessionStore keeps one hash per session under session:<id> with a
// retention TTL refreshed on every save.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// sessionFromFields maps an HMGET result [userID, username, connected] into
// a Session, or nil when the record is absent.
func sessionFromFields(id string, vals []interface{}) *models.Session {
	if len(vals) != 3 || vals[0] == nil {
		return nil
	}

	sess := &models.Session{ID: id}
	if v, ok := vals[0].(string); ok {
		sess.UserID = v
	}
	if v, ok := vals[1].(string); ok {
		sess.Username = v
	}
	if v, ok := vals[2].(string); ok {
		sess.Connected, _ = strconv.ParseBool(v)
	}
	return sess
}

// FindSession reads the session hash, returning (nil, nil) when absent.
func (s *RedisSessionStore) FindSession(ctx context.Context, id string) (*models.Session, error) {
	vals, err := s.client.HMGet(ctx, sessionKey(id), "userID", "username", "connected").Result()
	if err != nil {
		metrics.StoreErrors.WithLabelValues("redis", "find_session").Inc()
		return nil, fmt.Errorf("redis find session: %w", err)
	}

	return sessionFromFields(id, vals), nil
}

// SaveSession sets the session fields and refreshes the TTL in a single
// MULTI/EXEC batch.
func (s *RedisSessionStore) SaveSession(ctx context.Context, id string, sess models.Session) error {
	key := sessionKey(id)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"userID", sess.UserID,
			"username", sess.Username,
			"connected", strconv.FormatBool(sess.Connected),
		)
		pipe.Expire(ctx, key, RetentionTTL)
		return nil
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("redis", "save_session").Inc()
		return fmt.Errorf("redis save session: %w", err)
	}

	metrics.SessionsSaved.WithLabelValues("redis").Inc()
	return nil
}

// FindAllSessions enumerates the session key space with cursor-based SCAN
// rounds of at most scanCount keys, then fetches all field sets in one
// batched round trip. Entries that error or are empty are filtered out.
func (s *RedisSessionStore) FindAllSessions(ctx context.Context) ([]models.Session, error) {
	keys := make(map[string]struct{})

	// SCAN may return the same key more than once; the map deduplicates.
	iter := s.client.Scan(ctx, 0, sessionKey("*"), scanCount).Iterator()
	for iter.Next(ctx) {
		keys[iter.Val()] = struct{}{}
	}
	if err := iter.Err(); err != nil {
		metrics.StoreErrors.WithLabelValues("redis", "find_all_sessions").Inc()
		return nil, fmt.Errorf("redis scan sessions: %w", err)
	}

	if len(keys) == 0 {
		return []models.Session{}, nil
	}

	ordered := make([]string, 0, len(keys))
	for key := range keys {
		ordered = append(ordered, key)
	}

	cmds := make([]*redis.SliceCmd, len(ordered))
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range ordered {
			cmds[i] = pipe.HMGet(ctx, key, "userID", "username", "connected")
		}
		return nil
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("redis", "find_all_sessions").Inc()
		return nil, fmt.Errorf("redis fetch sessions: %w", err)
	}

	sessions := make([]models.Session, 0, len(ordered))
	for i, cmd := range cmds {
		vals, err := cmd.Result()
		if err != nil {
			continue
		}
		id := ordered[i][len("session:"):]
		if sess := sessionFromFields(id, vals); sess != nil {
			sessions = append(sessions, *sess)
		}
	}

	return sessions, nil
}
