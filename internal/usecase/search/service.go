// Package search runs the full query pipeline: sanitize, parse intent,
// filter candidates, score by embedding similarity, and optionally re-rank
// the top window with an LLM.
package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/synapse-kb/synapse/internal/domain"
	"github.com/synapse-kb/synapse/internal/sanitize"
)

// Service orchestrates one search request end to end.
type Service struct {
	intents IntentParser
	content ContentReader
	ranker  *Ranker
	now     func() time.Time
	logger  *zap.Logger
}

// New creates a search service.
func New(intents IntentParser, content ContentReader, ranker *Ranker, logger *zap.Logger) *Service {
	return &Service{
		intents: intents,
		content: content,
		ranker:  ranker,
		now:     time.Now,
		logger:  logger,
	}
}

// Search returns the user's items ranked against query. External failures
// degrade the ordering (similarity-only, or recency for an empty query) but
// only storage errors surface to the caller.
func (s *Service) Search(ctx context.Context, userID, query string, limit int) ([]domain.ScoredResult, error) {
	sanitized := sanitize.Clean(query, sanitize.DefaultMaxLength)

	items, err := s.content.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}

	// An empty query has no semantic signal: skip both LLM calls and the
	// embedding lookup and return the newest items.
	if sanitized == "" {
		return recentFirst(items, s.ranker.clampLimit(limit)), nil
	}

	intent := s.intents.Parse(ctx, sanitized)
	s.logger.Debug("parsed search intent",
		zap.String("search_terms", intent.SearchTerms),
		zap.String("time_filter", string(intent.TimeFilter)),
		zap.String("content_type", string(intent.ContentType)),
		zap.Bool("has_price_filter", intent.PriceRange != nil))

	candidates := Filter(items, intent, s.now())
	if len(candidates) == 0 {
		return []domain.ScoredResult{}, nil
	}

	ids := make([]string, len(candidates))
	for i := range candidates {
		ids[i] = candidates[i].ID()
	}
	embeddings, err := s.content.GetEmbeddings(ctx, userID, ids)
	if err != nil {
		// Ranking copes with missing vectors; a failed bulk read just
		// means similarity 0.0 across the board.
		s.logger.Warn("failed to load embeddings, ranking without similarity",
			zap.Error(err))
		embeddings = map[string][]float32{}
	}

	terms := intent.SearchTerms
	if terms == "" {
		terms = sanitized
	}
	return s.ranker.Rank(ctx, terms, candidates, embeddings, limit), nil
}

func recentFirst(items []domain.ContentItem, limit int) []domain.ScoredResult {
	sorted := make([]domain.ContentItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt().After(sorted[j].CreatedAt())
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]domain.ScoredResult, len(sorted))
	for i := range sorted {
		out[i] = domain.NewScoredResult(sorted[i], 0)
	}
	return out
}
