package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/synapse-kb/synapse/internal/domain"
	contentuc "github.com/synapse-kb/synapse/internal/usecase/content"
	healthuc "github.com/synapse-kb/synapse/internal/usecase/health"
	searchuc "github.com/synapse-kb/synapse/internal/usecase/search"
)

// memRepo backs both the content service and the search flow in tests.
type memRepo struct {
	items      map[string]domain.ContentItem
	embeddings map[string][]float32
}

func newMemRepo() *memRepo {
	return &memRepo{
		items:      map[string]domain.ContentItem{},
		embeddings: map[string][]float32{},
	}
}

func (m *memRepo) Create(_ context.Context, _ string, item domain.ContentItem) error {
	m.items[item.ID()] = item
	return nil
}

func (m *memRepo) Get(_ context.Context, _ string, id string) (domain.ContentItem, error) {
	item, ok := m.items[id]
	if !ok {
		return domain.ContentItem{}, domain.ErrNotFound
	}
	return item, nil
}

func (m *memRepo) List(_ context.Context, _ string) ([]domain.ContentItem, error) {
	out := make([]domain.ContentItem, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, _ string, id string) error {
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	delete(m.embeddings, id)
	return nil
}

func (m *memRepo) SaveEmbedding(_ context.Context, _ string, id string, vec []float32) error {
	m.embeddings[id] = vec
	return nil
}

func (m *memRepo) GetEmbeddings(_ context.Context, _ string, ids []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(ids))
	for _, id := range ids {
		if vec, ok := m.embeddings[id]; ok {
			out[id] = vec
		}
	}
	return out, nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	vec := make([]float32, domain.DefaultDimensions)
	vec[0] = 1
	return domain.EmbeddingResult{Embedding: vec}, nil
}

type passthroughIntents struct{}

func (passthroughIntents) Parse(_ context.Context, query string) domain.QueryIntent {
	return domain.DefaultIntent(query)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(_ context.Context) error { return p.err }

type stubCacheClearer struct {
	cleared int
	err     error
}

func (c *stubCacheClearer) Clear(_ context.Context) (int, error) {
	return c.cleared, c.err
}

type testEnv struct {
	repo    *memRepo
	cache   *stubCacheClearer
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	repo := newMemRepo()

	classifier := contentuc.NewClassifier(nil, nil, logger)
	contentSvc := contentuc.New(repo, stubEmbedder{}, classifier, nil, logger)

	ranker := searchuc.NewRanker(stubEmbedder{}, nil, nil, searchuc.RankerConfig{
		DefaultLimit: 20,
		MaxLimit:     100,
		RerankWindow: 50,
		SnippetLen:   200,
	}, logger)
	searchSvc := searchuc.New(passthroughIntents{}, repo, ranker, logger)

	cache := &stubCacheClearer{cleared: 7}
	srv := NewServer(contentSvc, searchSvc, healthuc.New(stubPinger{}, nil), cache, logger)

	r := chirouter.NewRouter()
	srv.Routes(r)

	return &testEnv{repo: repo, cache: cache, handler: r}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set(userIDHeader, "user-1")
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}
