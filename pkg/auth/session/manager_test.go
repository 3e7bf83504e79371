package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/daghlis/gallery-backend/pkg/config"
	redisclient "github.com/daghlis/gallery-backend/pkg/redis"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func newTestManager(store *mockStore) *Manager {
	return &Manager{store: store, keyer: store, ttl: time.Hour, now: time.Now}
}

func TestManagerGenerateAndRotate(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)

	ctx := context.Background()
	accessID := "access-123"
	token, err := manager.Generate(ctx, accessID, "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	stored := store.data[store.AccessSessionKey(accessID)]
	if stored == "" || strings.Contains(stored, token) {
		t.Fatalf("expected only a digest of the token to be stored, got %q", stored)
	}
	if store.ttls[store.AccessSessionKey(accessID)] != time.Hour {
		t.Fatalf("expected ttl to be applied")
	}

	if _, err := manager.Rotate(ctx, accessID, "wrong"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token error, got %v", err)
	}

	next, err := manager.Rotate(ctx, accessID, token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if next.Subject != "admin" {
		t.Fatalf("expected subject to carry over, got %q", next.Subject)
	}
	if _, exists := store.data[store.AccessSessionKey(accessID)]; exists {
		t.Fatalf("old access key left behind")
	}
	ok, err := manager.HasSession(ctx, next.AccessID)
	if err != nil || !ok {
		t.Fatalf("expected new session to exist")
	}

	if _, err := manager.Rotate(ctx, accessID, token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("reusing a rotated token must fail, got %v", err)
	}
}

func TestManagerRevoke(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	if _, err := manager.Generate(ctx, "a1", "admin"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := manager.Revoke(ctx, "a1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err := manager.HasSession(ctx, "a1")
	if err != nil || ok {
		t.Fatalf("expected session to be gone, ok=%v err=%v", ok, err)
	}
	if err := manager.Revoke(ctx, " "); err == nil {
		t.Fatalf("expected error for blank access id")
	}
}

func TestManagerGenerateValidates(t *testing.T) {
	manager := newTestManager(newMockStore())
	if _, err := manager.Generate(context.Background(), "", "admin"); err == nil {
		t.Fatalf("expected missing access id error")
	}
	if _, err := manager.Generate(context.Background(), "a1", ""); err == nil {
		t.Fatalf("expected missing subject error")
	}
}

func TestNewManagerTTLValidation(t *testing.T) {
	client := &redisclient.Client{}
	if _, err := NewManager(client, config.JWTConfig{ExpirationMinutes: 30, RefreshTokenTTLMinutes: 10}); err == nil {
		t.Fatalf("refresh ttl shorter than access ttl must fail")
	}
	if _, err := NewManager(nil, config.JWTConfig{ExpirationMinutes: 30, RefreshTokenTTLMinutes: 60}); err == nil {
		t.Fatalf("nil client must fail")
	}
	if _, err := NewManager(client, config.JWTConfig{ExpirationMinutes: 30, RefreshTokenTTLMinutes: 60}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
