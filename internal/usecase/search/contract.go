package search

import (
	"context"
	"time"

	"github.com/synapse-kb/synapse/internal/domain"
)

// IntentParser turns a free-text query into a structured intent.
type IntentParser interface {
	Parse(ctx context.Context, query string) domain.QueryIntent
}

// ChatCompleter issues one LLM prompt and returns the raw text response.
type ChatCompleter interface {
	Complete(ctx context.Context, purpose, prompt string, maxTokens int) (string, error)
}

// RateLimiter gates outbound LLM calls.
type RateLimiter interface {
	Allow() (bool, time.Duration)
}

// ContentReader is the slice of the content repository the search flow needs.
type ContentReader interface {
	List(ctx context.Context, userID string) ([]domain.ContentItem, error)
	GetEmbeddings(ctx context.Context, userID string, ids []string) (map[string][]float32, error)
}
