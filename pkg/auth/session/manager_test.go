package session

import (
	"context"
	"testing"
	"time"

	redisclient "github.com/parceldrop/parceldrop-backend/pkg/redis"
)

type memoryStore struct {
	entries map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string]string{}}
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.entries[key] = "1"
	_ = value
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.entries[key]; ok {
		return v, nil
	}
	return "", redisclient.ErrNotFound
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

type prefixKeyer struct{}

func (prefixKeyer) AccessSessionKey(accessID string) string { return "test:session:" + accessID }

func testManager() (*Manager, *memoryStore) {
	store := newMemoryStore()
	return &Manager{store: store, keyer: prefixKeyer{}, ttl: time.Minute}, store
}

func TestRegisterHasRevoke(t *testing.T) {
	mgr, _ := testManager()
	ctx := context.Background()

	id := NewAccessID()
	if err := mgr.Register(ctx, id); err != nil {
		t.Fatalf("register: %v", err)
	}

	ok, err := mgr.HasSession(ctx, id)
	if err != nil || !ok {
		t.Fatalf("expected live session, ok=%v err=%v", ok, err)
	}

	if err := mgr.Revoke(ctx, id); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	ok, err = mgr.HasSession(ctx, id)
	if err != nil || ok {
		t.Fatalf("expected revoked session, ok=%v err=%v", ok, err)
	}
}

func TestHasSessionEmptyID(t *testing.T) {
	mgr, _ := testManager()
	ok, err := mgr.HasSession(context.Background(), "  ")
	if err != nil || ok {
		t.Fatalf("blank access id should not resolve, ok=%v err=%v", ok, err)
	}
}

func TestRegisterRequiresID(t *testing.T) {
	mgr, _ := testManager()
	if err := mgr.Register(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty access id")
	}
}
