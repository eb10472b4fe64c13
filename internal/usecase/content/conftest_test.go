package content

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/synapse-kb/synapse/internal/domain"
	"github.com/synapse-kb/synapse/internal/transport/books"
)

type mockChat struct {
	response string
	err      error
	calls    int
}

func (m *mockChat) Complete(_ context.Context, _ string, _ string, _ int) (string, error) {
	m.calls++
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

type mockRepo struct {
	items      map[string]domain.ContentItem
	embeddings map[string][]float32
	createErr  error
	saveErr    error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		items:      map[string]domain.ContentItem{},
		embeddings: map[string][]float32{},
	}
}

func (m *mockRepo) Create(_ context.Context, _ string, item domain.ContentItem) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.items[item.ID()] = item
	return nil
}

func (m *mockRepo) Get(_ context.Context, _ string, id string) (domain.ContentItem, error) {
	item, ok := m.items[id]
	if !ok {
		return domain.ContentItem{}, domain.ErrNotFound
	}
	return item, nil
}

func (m *mockRepo) List(_ context.Context, _ string) ([]domain.ContentItem, error) {
	out := make([]domain.ContentItem, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *mockRepo) Delete(_ context.Context, _ string, id string) error {
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	delete(m.embeddings, id)
	return nil
}

func (m *mockRepo) SaveEmbedding(_ context.Context, _ string, id string, vec []float32) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.embeddings[id] = vec
	return nil
}

type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
	texts []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	m.texts = append(m.texts, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockCatalog struct {
	meta  domain.Metadata
	calls int
	lastQ books.Query
}

func (m *mockCatalog) Lookup(_ context.Context, q books.Query) domain.Metadata {
	m.calls++
	m.lastQ = q
	if m.meta == nil {
		return domain.Metadata{}
	}
	return m.meta
}

func newTestService(t *testing.T, repo *mockRepo, embedder *mockEmbedder, chat *mockChat, catalog BookCatalog) *Service {
	t.Helper()
	classifier := NewClassifier(chat, &mockLimiter{allow: true}, zap.NewNop())
	svc := New(repo, embedder, classifier, catalog, zap.NewNop())
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return svc
}
