package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shoenig/test/must"

	"github.com/arshad1/private-chat/internal/api"
	"github.com/arshad1/private-chat/internal/handlers"
	"github.com/arshad1/private-chat/internal/models"
	"github.com/arshad1/private-chat/internal/store"
)

func newTestServer(t *testing.T, pingers map[string]handlers.Pinger) (*httptest.Server, store.MessageStore, store.SessionStore) {
	t.Helper()

	messages := store.NewMemoryMessageStore()
	sessions := store.NewMemorySessionStore()
	h := handlers.NewHandler(messages, sessions, pingers)
	srv := httptest.NewServer(api.NewRouter(zerolog.Nop(), h))
	t.Cleanup(srv.Close)

	return srv, messages, sessions
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()

	resp, err := http.Get(url)
	must.NoError(t, err)
	defer resp.Body.Close()

	must.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestPresence(t *testing.T) {
	srv, _, sessions := newTestServer(t, nil)

	must.NoError(t, sessions.SaveSession(context.Background(), "s1",
		models.Session{UserID: "u1", Username: "alice", Connected: true}))
	must.NoError(t, sessions.SaveSession(context.Background(), "s2",
		models.Session{UserID: "u2", Username: "bob", Connected: false}))

	var got handlers.PresenceResponse
	status := getJSON(t, srv.URL+"/presence", &got)
	must.Eq(t, 200, status)
	must.Eq(t, 2, got.Total)
	must.Len(t, 2, got.Sessions)
}

func TestUserMessages(t *testing.T) {
	srv, messages, _ := newTestServer(t, nil)

	must.NoError(t, messages.SaveMessage(context.Background(),
		&models.Message{Content: "hi", From: "u1", To: "u2"}))

	var got handlers.MessageListResponse
	status := getJSON(t, srv.URL+"/messages/u2", &got)
	must.Eq(t, 200, status)
	must.Eq(t, 1, got.Total)
	must.Eq(t, "hi", got.Messages[0].Content)

	status = getJSON(t, srv.URL+"/messages/u3", &got)
	must.Eq(t, 200, status)
	must.Eq(t, 0, got.Total)
}

func TestHealthDegraded(t *testing.T) {
	srv, _, _ := newTestServer(t, map[string]handlers.Pinger{
		"redis": func(ctx context.Context) error { return errors.New("down") },
	})

	var got handlers.HealthResponse
	status := getJSON(t, srv.URL+"/health", &got)
	must.Eq(t, 503, status)
	must.Eq(t, "degraded", got.Status)
	must.Eq(t, "fail", got.Checks["redis"].Status)
}

func TestHealthHealthy(t *testing.T) {
	srv, _, _ := newTestServer(t, map[string]handlers.Pinger{
		"sqlite": func(ctx context.Context) error { return nil },
	})

	var got handlers.HealthResponse
	status := getJSON(t, srv.URL+"/health", &got)
	must.Eq(t, 200, status)
	must.Eq(t, "healthy", got.Status)
}
