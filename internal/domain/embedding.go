package domain

import "context"

// DefaultDimensions is the pipeline-wide embedding dimensionality. All
// embeddings compared against each other must share it. Tunable, not derived.
const DefaultDimensions = 384

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the
// decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// ZeroVector returns the deterministic placeholder vector used when embedding
// fails. Callers treat it as "no signal", never as a valid embedding.
func ZeroVector(dims int) []float32 {
	return make([]float32, dims)
}

// IsZeroVector reports whether every component of v is zero.
func IsZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
