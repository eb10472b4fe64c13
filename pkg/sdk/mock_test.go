package synapse

import (
	"context"

	"github.com/synapse-kb/synapse/internal/domain"
	contentuc "github.com/synapse-kb/synapse/internal/usecase/content"
	healthuc "github.com/synapse-kb/synapse/internal/usecase/health"
)

// --- contentUseCase mock ---

type mockContentUC struct {
	captureFn func(ctx context.Context, userID string, in contentuc.CaptureInput) (domain.ContentItem, error)
	getFn     func(ctx context.Context, userID, id string) (domain.ContentItem, error)
	listFn    func(ctx context.Context, userID string) ([]domain.ContentItem, error)
	deleteFn  func(ctx context.Context, userID, id string) error
}

func (m *mockContentUC) Capture(
	ctx context.Context, userID string, in contentuc.CaptureInput,
) (domain.ContentItem, error) {
	return m.captureFn(ctx, userID, in)
}

func (m *mockContentUC) Get(ctx context.Context, userID, id string) (domain.ContentItem, error) {
	return m.getFn(ctx, userID, id)
}

func (m *mockContentUC) List(ctx context.Context, userID string) ([]domain.ContentItem, error) {
	return m.listFn(ctx, userID)
}

func (m *mockContentUC) Delete(ctx context.Context, userID, id string) error {
	return m.deleteFn(ctx, userID, id)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, userID, query string, limit int) ([]domain.ScoredResult, error)
}

func (m *mockSearchUC) Search(
	ctx context.Context, userID, query string, limit int,
) ([]domain.ScoredResult, error) {
	return m.searchFn(ctx, userID, query, limit)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- helpers ---

func testClient(contentSvc contentUseCase, searchSvc searchUseCase, healthSvc healthUseCase) *Client {
	return &Client{
		contentSvc: contentSvc,
		searchSvc:  searchSvc,
		healthSvc:  healthSvc,
	}
}
