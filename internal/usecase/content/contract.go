package content

import (
	"context"
	"time"

	"github.com/synapse-kb/synapse/internal/domain"
	"github.com/synapse-kb/synapse/internal/transport/books"
)

// Repository is the content storage contract used by the capture flow.
type Repository interface {
	Create(ctx context.Context, userID string, item domain.ContentItem) error
	Get(ctx context.Context, userID, id string) (domain.ContentItem, error)
	List(ctx context.Context, userID string) ([]domain.ContentItem, error)
	Delete(ctx context.Context, userID, id string) error
	SaveEmbedding(ctx context.Context, userID, id string, vec []float32) error
}

// ChatCompleter issues one LLM prompt and returns the raw text response.
type ChatCompleter interface {
	Complete(ctx context.Context, purpose, prompt string, maxTokens int) (string, error)
}

// RateLimiter gates outbound LLM calls.
type RateLimiter interface {
	Allow() (bool, time.Duration)
}

// BookCatalog resolves book metadata for enrichment.
type BookCatalog interface {
	Lookup(ctx context.Context, q books.Query) domain.Metadata
}
