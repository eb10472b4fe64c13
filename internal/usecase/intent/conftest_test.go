package intent

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/synapse-kb/synapse/internal/db"
)

type mockChat struct {
	response string
	err      error
	calls    int
	lastSent string
}

func (m *mockChat) Complete(_ context.Context, _ string, prompt string, _ int) (string, error) {
	m.calls++
	m.lastSent = prompt
	return m.response, m.err
}

type mockLimiter struct {
	allow bool
}

func (m *mockLimiter) Allow() (bool, time.Duration) {
	if m.allow {
		return true, 0
	}
	return false, 30 * time.Second
}

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}}
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockCache) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func newTestService(t *testing.T, chat *mockChat, limiter *mockLimiter, cache *mockCache) *Service {
	t.Helper()
	return New(chat, limiter, cache, time.Hour, nil, zap.NewNop())
}
