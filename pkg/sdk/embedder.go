package synapse

import "context"

// Embedder converts text to vector embeddings. All vectors returned for one
// client must share a single dimension; mixing dimensions yields zero
// similarity for the mismatched pairs.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
