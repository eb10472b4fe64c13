package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/synapse-kb/synapse/internal/domain"
	"github.com/synapse-kb/synapse/internal/llmjson"
	"github.com/synapse-kb/synapse/internal/vector"
)

const rerankMaxTokens = 300

// RankerConfig carries the tunable sizing constants of the ranking pass.
type RankerConfig struct {
	DefaultLimit  int
	MaxLimit      int
	RerankWindow  int
	SnippetLen    int
	RerankEnabled bool
}

// Ranker orders filtered candidates by embedding similarity, with an
// optional LLM re-ranking pass over the top window. Re-ranking is an
// enhancement: every failure mode degrades to similarity order.
type Ranker struct {
	embedder domain.Embedder
	chat     ChatCompleter
	limiter  RateLimiter
	cfg      RankerConfig
	logger   *zap.Logger
}

// NewRanker creates a ranker. chat and limiter may be nil only when
// re-ranking is disabled in cfg.
func NewRanker(
	embedder domain.Embedder,
	chat ChatCompleter,
	limiter RateLimiter,
	cfg RankerConfig,
	logger *zap.Logger,
) *Ranker {
	return &Ranker{embedder: embedder, chat: chat, limiter: limiter, cfg: cfg, logger: logger}
}

// Rank scores candidates against the query and returns the top results in
// final order. It never fails for input-shape reasons; the worst case is
// pure-similarity ordering with no LLM involvement.
func (r *Ranker) Rank(
	ctx context.Context,
	query string,
	candidates []domain.ContentItem,
	embeddings map[string][]float32,
	limit int,
) []domain.ScoredResult {
	limit = r.clampLimit(limit)
	if len(candidates) == 0 {
		return []domain.ScoredResult{}
	}

	queryVec := r.embedQuery(ctx, query)

	scored := make([]domain.ScoredResult, 0, len(candidates))
	for _, item := range candidates {
		sim := 0.0
		// Candidates with no cached embedding stay eligible at 0.0, and a
		// zero query vector means no similarity signal at all.
		if vec, ok := embeddings[item.ID()]; ok && !domain.IsZeroVector(queryVec) {
			sim = vector.Cosine(queryVec, vec, r.logger)
		}
		scored = append(scored, domain.NewScoredResult(item, sim))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity() > scored[j].Similarity()
	})

	// Few enough results that ordering past the cut does not matter.
	if len(scored) <= limit {
		return scored
	}

	if r.cfg.RerankEnabled && r.chat != nil {
		if reranked, ok := r.rerank(ctx, query, scored, limit); ok {
			return reranked
		}
	}

	return scored[:limit]
}

func (r *Ranker) clampLimit(limit int) int {
	if limit <= 0 {
		r.logger.Warn("invalid result limit, using default",
			zap.Int("limit", limit), zap.Int("default", r.cfg.DefaultLimit))
		return r.cfg.DefaultLimit
	}
	if limit > r.cfg.MaxLimit {
		r.logger.Warn("result limit exceeds maximum, capping",
			zap.Int("limit", limit), zap.Int("max", r.cfg.MaxLimit))
		return r.cfg.MaxLimit
	}
	return limit
}

// embedQuery vectorizes the query, degrading to a zero vector on failure so
// ranking proceeds without a similarity signal instead of erroring out.
func (r *Ranker) embedQuery(ctx context.Context, query string) []float32 {
	res, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.logger.Warn("query embedding failed, ranking without similarity signal",
			zap.Error(err))
		return domain.ZeroVector(domain.DefaultDimensions)
	}
	return res.Embedding
}

// rerank asks the LLM to reorder the top window of similarity-sorted results.
// Returns ok=false whenever the similarity order should be used instead.
func (r *Ranker) rerank(
	ctx context.Context,
	query string,
	scored []domain.ScoredResult,
	limit int,
) ([]domain.ScoredResult, bool) {
	if r.limiter != nil {
		if ok, wait := r.limiter.Allow(); !ok {
			r.logger.Warn("re-ranking rate limited, keeping similarity order",
				zap.Duration("retry_after", wait))
			return nil, false
		}
	}

	window := scored
	if len(window) > r.cfg.RerankWindow {
		window = window[:r.cfg.RerankWindow]
	}

	raw, err := r.chat.Complete(ctx, "rerank", r.rerankPrompt(query, window, limit), rerankMaxTokens)
	if err != nil {
		r.logger.Warn("re-ranking LLM call failed, keeping similarity order", zap.Error(err))
		return nil, false
	}

	indices, err := parseRankOrder(raw, len(window), r.logger)
	if err != nil {
		r.logger.Warn("re-ranking response unusable, keeping similarity order", zap.Error(err))
		return nil, false
	}
	if len(indices) == 0 {
		r.logger.Warn("re-ranking response contained no valid indices, keeping similarity order")
		return nil, false
	}

	return applyRankOrder(scored, indices, limit), true
}

type rerankCandidate struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Type    string `json:"type"`
	Snippet string `json:"snippet"`
}

func (r *Ranker) rerankPrompt(query string, window []domain.ScoredResult, limit int) string {
	candidates := make([]rerankCandidate, len(window))
	for i := range window {
		item := window[i].Item()
		candidates[i] = rerankCandidate{
			ID:      i,
			Title:   item.Title(),
			Type:    string(item.ContentType()),
			Snippet: snippet(item.Body(), r.cfg.SnippetLen),
		}
	}
	ctxJSON, _ := json.MarshalIndent(candidates, "", "  ")

	return fmt.Sprintf(`Given this search query: %q

Rank these content items by relevance (most relevant first). Consider:
- Semantic similarity to the query
- Content type appropriateness
- Title and content relevance

Content items:
%s

Respond with only a JSON array of IDs in order of relevance, like: [3, 1, 5, 2, ...]
Return top %d items.`, query, ctxJSON, limit)
}

// snippet caps body text at n runes. A missing body yields an empty
// snippet, never an error.
func snippet(body string, n int) string {
	if body == "" {
		return ""
	}
	runes := []rune(strings.TrimSpace(body))
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

// parseRankOrder extracts the ordered index list from raw model output.
// Each entry is validated independently: non-integer or out-of-window
// entries are dropped with a warning, never used for indexing. Duplicates
// keep their first occurrence.
func parseRankOrder(raw string, windowSize int, logger *zap.Logger) ([]int, error) {
	var entries []json.RawMessage
	if err := llmjson.ExtractArray(raw, &entries); err != nil {
		return nil, fmt.Errorf("extract ranking array: %w", err)
	}

	seen := make(map[int]bool, len(entries))
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		var idx int
		if err := json.Unmarshal(e, &idx); err != nil {
			logger.Warn("dropping non-integer ranking entry", zap.String("entry", string(e)))
			continue
		}
		if idx < 0 || idx >= windowSize {
			logger.Warn("dropping out-of-range ranking index",
				zap.Int("index", idx), zap.Int("window", windowSize))
			continue
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out, nil
}

// applyRankOrder reorders scored by the validated index list, annotating each
// re-ranked result with its position. Unranked results fill the tail in
// similarity order until limit is reached. Similarity scores are preserved.
func applyRankOrder(scored []domain.ScoredResult, indices []int, limit int) []domain.ScoredResult {
	if len(indices) > limit {
		indices = indices[:limit]
	}

	used := make(map[int]bool, len(indices))
	out := make([]domain.ScoredResult, 0, limit)
	for pos, idx := range indices {
		used[idx] = true
		out = append(out, scored[idx].WithRank(pos))
	}
	for idx := range scored {
		if len(out) >= limit {
			break
		}
		if !used[idx] {
			out = append(out, scored[idx])
		}
	}
	return out
}
