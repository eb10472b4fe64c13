// Package intent turns a free-text search query into a structured QueryIntent
// via one LLM call, with a deterministic fallback for every failure mode.
package intent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/synapse-kb/synapse/internal/db"
	"github.com/synapse-kb/synapse/internal/domain"
	"github.com/synapse-kb/synapse/internal/llmjson"
	"github.com/synapse-kb/synapse/internal/sanitize"
)

var cacheKeyPrefix = domain.KeyPrefix + "intent_cache:"

const intentMaxTokens = 500

// Service parses search queries into intents.
type Service struct {
	chat       ChatCompleter
	limiter    RateLimiter
	cache      Cache
	cacheTTL   time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates an intent parsing service.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	chat ChatCompleter,
	limiter RateLimiter,
	cache Cache,
	cacheTTL time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Service {
	return &Service{
		chat:       chat,
		limiter:    limiter,
		cache:      cache,
		cacheTTL:   cacheTTL,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Parse extracts a structured intent from query. It never fails: any error on
// the way (rate limit, provider failure, unparseable response) degrades to
// the complete default intent, so the result always carries all five fields
// with OtherFilters non-nil.
func (s *Service) Parse(ctx context.Context, query string) domain.QueryIntent {
	sanitized := sanitize.Clean(query, sanitize.DefaultMaxLength)
	if sanitized == "" {
		return domain.DefaultIntent("")
	}

	key := s.cacheKey(sanitized)
	if cached, ok := s.getCached(ctx, key); ok {
		s.incCache("hit")
		return cached
	}
	s.incCache("miss")

	// Rate-limited: heuristic extraction, no caching so a later request
	// can retry the LLM once the window opens.
	if ok, wait := s.limiter.Allow(); !ok {
		s.logger.Warn("intent parse rate limited, using fallback",
			zap.Duration("retry_after", wait))
		return domain.DefaultIntent(sanitized)
	}

	raw, err := s.chat.Complete(ctx, "intent", intentPrompt(sanitized), intentMaxTokens)
	if err != nil {
		s.logger.Warn("intent LLM call failed, using fallback", zap.Error(err))
		fallback := domain.DefaultIntent(sanitized)
		s.putCached(ctx, key, fallback) // avoid hammering a failing provider
		return fallback
	}

	parsed, err := intentFromResponse(raw, sanitized)
	if err != nil {
		s.logger.Warn("intent response unparseable, using fallback",
			zap.Error(err), zap.String("response_head", head(raw, 100)))
		fallback := domain.DefaultIntent(sanitized)
		s.putCached(ctx, key, fallback)
		return fallback
	}

	s.putCached(ctx, key, parsed)
	return parsed
}

func intentPrompt(query string) string {
	return fmt.Sprintf(`Analyze this search query and extract search intent and filters:

Query: %q

Based on this query, provide:
1. The core search terms (what the user is looking for)
2. Any time filters (today, yesterday, last week, last month, etc.)
3. Any type filters (article, product, video, todo, note, book, quote)
4. Any price filters (if mentioned)
5. Any other metadata filters

Respond in JSON format:
{
    "search_terms": "core search terms",
    "time_filter": "today|yesterday|last_week|last_month|null",
    "content_type": "article|product|video|todo|note|book|quote|null",
    "price_range": {"min": 0, "max": 1000} or null,
    "other_filters": {}
}`, query)
}

// intentFromResponse extracts and validates the intent JSON from raw model
// output. The response must contain every expected key; a shape that drops a
// key is rejected so the caller's fallback keeps the intent fully populated.
func intentFromResponse(raw, sanitizedQuery string) (domain.QueryIntent, error) {
	var keys map[string]json.RawMessage
	if err := llmjson.ExtractObject(raw, &keys); err != nil {
		return domain.QueryIntent{}, fmt.Errorf("extract intent object: %w", err)
	}

	for _, k := range []string{"search_terms", "time_filter", "content_type", "price_range", "other_filters"} {
		if _, ok := keys[k]; !ok {
			return domain.QueryIntent{}, fmt.Errorf("intent response missing key %q", k)
		}
	}

	var dto intentDTO
	if err := llmjson.ExtractObject(raw, &dto); err != nil {
		return domain.QueryIntent{}, fmt.Errorf("decode intent object: %w", err)
	}

	return dto.toDomain(sanitizedQuery), nil
}

// intentDTO tolerates the loose typing of model output: filters may be
// null, the string "null", or absent-but-present-as-empty.
type intentDTO struct {
	SearchTerms  string         `json:"search_terms"`
	TimeFilter   *string        `json:"time_filter"`
	ContentType  *string        `json:"content_type"`
	PriceRange   *priceRangeDTO `json:"price_range"`
	OtherFilters map[string]any `json:"other_filters"`
}

type priceRangeDTO struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (d intentDTO) toDomain(sanitizedQuery string) domain.QueryIntent {
	out := domain.DefaultIntent(sanitizedQuery)

	if d.SearchTerms != "" {
		out.SearchTerms = d.SearchTerms
	}
	if d.TimeFilter != nil {
		out.TimeFilter = domain.ParseTimeFilter(*d.TimeFilter)
	}
	if d.ContentType != nil {
		if ct, err := domain.ParseContentType(*d.ContentType); err == nil {
			out.ContentType = ct
		}
	}
	if d.PriceRange != nil {
		out.PriceRange = &domain.PriceRange{Min: d.PriceRange.Min, Max: d.PriceRange.Max}
	}
	for k, v := range d.OtherFilters {
		if s, ok := v.(string); ok {
			out.OtherFilters[k] = s
		}
	}
	return out
}

// --- cache ---

// cachedIntent is the storage form of a parsed intent.
type cachedIntent struct {
	SearchTerms  string            `json:"search_terms"`
	TimeFilter   string            `json:"time_filter"`
	ContentType  string            `json:"content_type"`
	PriceRange   *priceRangeDTO    `json:"price_range"`
	OtherFilters map[string]string `json:"other_filters"`
}

func (s *Service) cacheKey(sanitized string) string {
	h := sha256.Sum256([]byte(sanitized))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (s *Service) getCached(ctx context.Context, key string) (domain.QueryIntent, bool) {
	if s.cache == nil {
		return domain.QueryIntent{}, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			s.logger.Warn("failed to read intent cache", zap.Error(err))
		}
		return domain.QueryIntent{}, false
	}

	var c cachedIntent
	if err := json.Unmarshal(data, &c); err != nil {
		s.logger.Warn("failed to parse cached intent", zap.Error(err))
		return domain.QueryIntent{}, false
	}

	out := domain.QueryIntent{
		SearchTerms:  c.SearchTerms,
		TimeFilter:   domain.ParseTimeFilter(c.TimeFilter),
		OtherFilters: c.OtherFilters,
	}
	if out.OtherFilters == nil {
		out.OtherFilters = map[string]string{}
	}
	if ct, err := domain.ParseContentType(c.ContentType); err == nil {
		out.ContentType = ct
	}
	if c.PriceRange != nil {
		out.PriceRange = &domain.PriceRange{Min: c.PriceRange.Min, Max: c.PriceRange.Max}
	}
	return out, true
}

func (s *Service) putCached(ctx context.Context, key string, in domain.QueryIntent) {
	if s.cache == nil {
		return
	}
	c := cachedIntent{
		SearchTerms:  in.SearchTerms,
		TimeFilter:   string(in.TimeFilter),
		ContentType:  string(in.ContentType),
		OtherFilters: in.OtherFilters,
	}
	if in.PriceRange != nil {
		c.PriceRange = &priceRangeDTO{Min: in.PriceRange.Min, Max: in.PriceRange.Max}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := s.cache.SetWithTTL(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("failed to write intent cache", zap.Error(err))
	}
}

func (s *Service) incCache(result string) {
	if s.cacheTotal != nil {
		s.cacheTotal.WithLabelValues(result).Inc()
	}
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
