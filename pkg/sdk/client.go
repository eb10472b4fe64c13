package synapse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/synapse-kb/synapse/internal/db"
	dbRedis "github.com/synapse-kb/synapse/internal/db/redis"
	"github.com/synapse-kb/synapse/internal/domain"
	contentrepo "github.com/synapse-kb/synapse/internal/repository/content"
	"github.com/synapse-kb/synapse/internal/repository/embcache"
	"github.com/synapse-kb/synapse/internal/transport/books"
	contentuc "github.com/synapse-kb/synapse/internal/usecase/content"
	healthuc "github.com/synapse-kb/synapse/internal/usecase/health"
	searchuc "github.com/synapse-kb/synapse/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Default search result counts, overridable via WithSearchLimits.
const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// Re-ranking window and snippet sizes. Unused in embedded mode (re-ranking
// stays disabled) but the ranker config requires them.
const (
	rerankWindowSize = 50
	snippetLength    = 200
)

// Internal interfaces for substitution in tests.
type contentUseCase interface {
	Capture(ctx context.Context, userID string, in contentuc.CaptureInput) (domain.ContentItem, error)
	Get(ctx context.Context, userID, id string) (domain.ContentItem, error)
	List(ctx context.Context, userID string) ([]domain.ContentItem, error)
	Delete(ctx context.Context, userID, id string) error
}

type searchUseCase interface {
	Search(ctx context.Context, userID, query string, limit int) ([]domain.ScoredResult, error)
}

// Client is the synapse embedded client entry point.
type Client struct {
	store      db.Store
	contentSvc contentUseCase
	searchSvc  searchUseCase
	healthSvc  healthUseCase
	cache      *embcache.CachedEmbedder
	obs        *observer
}

// New creates a synapse Client and connects to Redis.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		defaultLimit: defaultSearchLimit,
		maxLimit:     maxSearchLimit,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("synapse: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("synapse: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("synapse: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	zlog := zap.NewNop()
	repo := contentrepo.New(store)

	// Embedder: noop unless one is configured. The cache decorator wraps
	// only real embedders so failed noop calls never touch Redis.
	var domEmb domain.Embedder = noopEmbedder{}
	var cache *embcache.CachedEmbedder
	if cfg.embedder != nil {
		cache = embcache.New(&embedderAdapter{inner: cfg.embedder}, store, nil, zlog)
		domEmb = cache
	}

	// No chat provider in embedded mode: heuristic classification only.
	classifier := contentuc.NewClassifier(nil, nil, zlog)

	var catalog contentuc.BookCatalog
	if cfg.bookLookup {
		catalog = books.New(zlog)
	}

	contentSvc := contentuc.New(repo, domEmb, classifier, catalog, zlog)

	ranker := searchuc.NewRanker(domEmb, nil, nil, searchuc.RankerConfig{
		DefaultLimit:  cfg.defaultLimit,
		MaxLimit:      cfg.maxLimit,
		RerankWindow:  rerankWindowSize,
		SnippetLen:    snippetLength,
		RerankEnabled: false,
	}, zlog)
	searchSvc := searchuc.New(defaultIntents{}, repo, ranker, zlog)

	healthSvc := healthuc.New(store, nil)

	return &Client{
		store:      store,
		contentSvc: contentSvc,
		searchSvc:  searchSvc,
		healthSvc:  healthSvc,
		cache:      cache,
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// ClearEmbeddingCache drops every cached embedding and returns the number
// of entries removed. Returns zero when no embedder is configured.
func (c *Client) ClearEmbeddingCache(ctx context.Context) (cleared int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("cache.clear", start, err) }()

	if c.cache == nil {
		return 0, nil
	}
	return c.cache.Clear(ctx)
}

// defaultIntents interprets every query as plain search terms with no
// filters. Used in embedded mode where no LLM is available.
type defaultIntents struct{}

func (defaultIntents) Parse(_ context.Context, query string) domain.QueryIntent {
	return domain.DefaultIntent(query)
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"synapse: embedder not configured (use WithEmbedder for semantic search)",
	)
}
