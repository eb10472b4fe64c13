package synapse

import "github.com/synapse-kb/synapse/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrInvalidContentType     = domain.ErrInvalidContentType
	ErrRateLimited            = domain.ErrRateLimited
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrLLMProviderError       = domain.ErrLLMProviderError
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
)
