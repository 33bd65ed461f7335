package store_test

import (
	"testing"

	"github.com/arshad1/private-chat/internal/store"
	"github.com/arshad1/private-chat/internal/store/storetest"
)

func TestMemoryMessageStore(t *testing.T) {
	storetest.MessageStoreSuite(t, func(t *testing.T) store.MessageStore {
		return store.NewMemoryMessageStore()
	})
}

func TestMemorySessionStore(t *testing.T) {
	storetest.SessionStoreSuite(t, func(t *testing.T) store.SessionStore {
		return store.NewMemorySessionStore()
	})
}
