package domain

// ScoredResult is a ContentItem paired with its similarity score and an
// optional rank position assigned by the LLM re-ranking pass.
type ScoredResult struct {
	item       ContentItem
	similarity float64
	rank       int
	hasRank    bool
}

// NewScoredResult creates a result with a similarity score and no rank.
func NewScoredResult(item ContentItem, similarity float64) ScoredResult {
	return ScoredResult{item: item, similarity: similarity}
}

// Item returns the content item.
func (r ScoredResult) Item() ContentItem { return r.item }

// Similarity returns the embedding similarity score. Re-ranking reorders
// results but never overwrites this value.
func (r ScoredResult) Similarity() float64 { return r.similarity }

// Rank returns the re-ranking position, reporting whether one was assigned.
func (r ScoredResult) Rank() (int, bool) { return r.rank, r.hasRank }

// WithRank returns a copy with the re-ranking position set.
func (r ScoredResult) WithRank(rank int) ScoredResult {
	out := r
	out.rank = rank
	out.hasRank = true
	return out
}
