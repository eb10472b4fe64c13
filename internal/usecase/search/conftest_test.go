package search

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/synapse-kb/synapse/internal/domain"
)

type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

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

type mockIntentParser struct {
	intent domain.QueryIntent
	calls  int
}

func (m *mockIntentParser) Parse(_ context.Context, query string) domain.QueryIntent {
	m.calls++
	if m.intent.OtherFilters == nil {
		return domain.DefaultIntent(query)
	}
	return m.intent
}

type mockContentReader struct {
	items      []domain.ContentItem
	embeddings map[string][]float32
	listErr    error
	embErr     error
}

func (m *mockContentReader) List(_ context.Context, _ string) ([]domain.ContentItem, error) {
	return m.items, m.listErr
}

func (m *mockContentReader) GetEmbeddings(_ context.Context, _ string, ids []string) (map[string][]float32, error) {
	if m.embErr != nil {
		return nil, m.embErr
	}
	out := make(map[string][]float32, len(ids))
	for _, id := range ids {
		if vec, ok := m.embeddings[id]; ok {
			out[id] = vec
		}
	}
	return out, nil
}

func testRankerConfig() RankerConfig {
	return RankerConfig{
		DefaultLimit:  20,
		MaxLimit:      100,
		RerankWindow:  50,
		SnippetLen:    200,
		RerankEnabled: true,
	}
}

func newTestRanker(t *testing.T, embedder domain.Embedder, chat ChatCompleter, limiter RateLimiter) *Ranker {
	t.Helper()
	return NewRanker(embedder, chat, limiter, testRankerConfig(), zap.NewNop())
}

func makeItem(t *testing.T, id string, ct domain.ContentType, title, body string, meta domain.Metadata, createdAt time.Time) domain.ContentItem {
	t.Helper()
	item, err := domain.NewContentItem(id, ct, title, body, "", meta, createdAt)
	if err != nil {
		t.Fatalf("failed to build item %s: %v", id, err)
	}
	return item
}

// unitVec builds a simple unit basis vector for deterministic similarity.
func unitVec(dims, axis int) []float32 {
	v := make([]float32, dims)
	v[axis] = 1
	return v
}
