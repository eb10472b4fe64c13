package intent

import (
	"context"
	"time"
)

// ChatCompleter sends a single-turn prompt to the LLM provider.
type ChatCompleter interface {
	Complete(ctx context.Context, purpose, prompt string, maxTokens int) (string, error)
}

// RateLimiter gates outbound LLM calls.
type RateLimiter interface {
	Allow() (bool, time.Duration)
}

// Cache stores parsed intents keyed by query hash.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
