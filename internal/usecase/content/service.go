// Package content implements the capture lifecycle: classify, enrich, embed,
// and store user items.
package content

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/synapse-kb/synapse/internal/domain"
	"github.com/synapse-kb/synapse/internal/sanitize"
	"github.com/synapse-kb/synapse/internal/transport/books"
)

// CaptureInput is one incoming item. ContentType is optional; when empty the
// service classifies the capture itself.
type CaptureInput struct {
	ContentType string
	Title       string
	Body        string
	SourceURL   string
	Metadata    domain.Metadata
}

// Service owns content CRUD plus the capture-time pipeline.
type Service struct {
	repo       Repository
	embedder   domain.Embedder
	classifier *Classifier
	catalog    BookCatalog
	newID      func() string
	now        func() time.Time
	logger     *zap.Logger
}

// New creates a content service. catalog may be nil to disable book enrichment.
func New(
	repo Repository,
	embedder domain.Embedder,
	classifier *Classifier,
	catalog BookCatalog,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:       repo,
		embedder:   embedder,
		classifier: classifier,
		catalog:    catalog,
		newID:      uuid.NewString,
		now:        time.Now,
		logger:     logger,
	}
}

// Capture validates, classifies, enriches, stores, and embeds one item.
// Embedding failures do not fail the capture: the item is stored without a
// vector and ranks at zero similarity until re-embedded.
func (s *Service) Capture(ctx context.Context, userID string, in CaptureInput) (domain.ContentItem, error) {
	title := sanitize.Clean(in.Title, sanitize.DefaultMaxLength)
	if title == "" {
		return domain.ContentItem{}, fmt.Errorf("title is required")
	}

	var ct domain.ContentType
	if in.ContentType != "" {
		parsed, err := domain.ParseContentType(in.ContentType)
		if err != nil {
			return domain.ContentItem{}, err
		}
		ct = parsed
	} else {
		ct = s.classifier.Classify(ctx, title, in.Body, in.SourceURL)
	}

	meta := in.Metadata.Clone()
	if ct == domain.TypeBook && s.catalog != nil {
		meta = s.enrichBook(ctx, title, meta)
	}

	item, err := domain.NewContentItem(s.newID(), ct, title, in.Body, in.SourceURL, meta, s.now())
	if err != nil {
		return domain.ContentItem{}, err
	}

	if err := s.repo.Create(ctx, userID, item); err != nil {
		return domain.ContentItem{}, fmt.Errorf("store content: %w", err)
	}

	if res, err := s.embedder.Embed(ctx, item.EmbeddingText()); err != nil {
		s.logger.Warn("failed to embed captured content",
			zap.String("content_id", item.ID()), zap.Error(err))
	} else if err := s.repo.SaveEmbedding(ctx, userID, item.ID(), res.Embedding); err != nil {
		s.logger.Warn("failed to store content embedding",
			zap.String("content_id", item.ID()), zap.Error(err))
	}

	return item, nil
}

// enrichBook merges catalog metadata under the caller's own entries.
func (s *Service) enrichBook(ctx context.Context, title string, meta domain.Metadata) domain.Metadata {
	q := books.Query{Title: title}
	if author, ok := meta["author"].AsString(); ok {
		q.Author = author
	}
	if isbn, ok := meta["isbn"].AsString(); ok {
		q.ISBN = isbn
	}

	fetched := s.catalog.Lookup(ctx, q)
	if len(fetched) == 0 {
		return meta
	}
	return fetched.Merge(meta)
}

// Get returns one item.
func (s *Service) Get(ctx context.Context, userID, id string) (domain.ContentItem, error) {
	return s.repo.Get(ctx, userID, id)
}

// List returns all of the user's items, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]domain.ContentItem, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(items)
	return items, nil
}

// Delete removes an item, its embedding, and its index entry.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func sortNewestFirst(items []domain.ContentItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt().After(items[j].CreatedAt())
	})
}
