package domain

import "errors"

var (
	// ErrNotFound signals a missing content item.
	ErrNotFound = errors.New("content not found")
	// ErrInvalidContentType signals an unrecognized content type.
	ErrInvalidContentType = errors.New("invalid content type")
	// ErrRateLimited signals a rate limit hit on the LLM provider boundary.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrLLMProviderError signals an LLM chat provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)

// KeyPrefix namespaces all storage keys written by this service.
const KeyPrefix = "synapse:"
