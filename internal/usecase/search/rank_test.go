package search

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/synapse-kb/synapse/internal/domain"
)

const dims = domain.DefaultDimensions

// rankItems builds n items whose embeddings are decreasingly similar to the
// query vector (axis 0): item i gets similarity roughly 1/(i+1).
func rankFixture(t *testing.T, n int) ([]domain.ContentItem, map[string][]float32) {
	t.Helper()
	items := make([]domain.ContentItem, n)
	embeddings := make(map[string][]float32, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("item-%02d", i)
		items[i] = makeItem(t, id, domain.TypeNote, "Note "+id, "body text", nil, filterNow)
		vec := make([]float32, dims)
		vec[0] = 1
		vec[1] = float32(i) // larger tail component lowers cosine vs axis 0
		embeddings[id] = vec
	}
	return items, embeddings
}

func TestRank_NegativeLimitUsesDefault(t *testing.T) {
	items, embeddings := rankFixture(t, 30)
	chat := &mockChat{err: context.DeadlineExceeded}
	r := newTestRanker(t, &mockEmbedder{vec: unitVec(dims, 0)}, chat, &mockLimiter{allow: true})

	got := r.Rank(context.Background(), "notes", items, embeddings, -5)

	if len(got) != 20 {
		t.Fatalf("got %d results, want default limit 20", len(got))
	}
}

func TestRank_HugeLimitIsCapped(t *testing.T) {
	items, embeddings := rankFixture(t, 120)
	chat := &mockChat{err: context.DeadlineExceeded}
	r := newTestRanker(t, &mockEmbedder{vec: unitVec(dims, 0)}, chat, &mockLimiter{allow: true})

	got := r.Rank(context.Background(), "notes", items, embeddings, 100000)

	if len(got) != 100 {
		t.Fatalf("got %d results, want capped ceiling 100", len(got))
	}
}

func TestRank_SimilarityOrder(t *testing.T) {
	items, embeddings := rankFixture(t, 10)
	r := newTestRanker(t, &mockEmbedder{vec: unitVec(dims, 0)}, nil, nil)

	got := r.Rank(context.Background(), "notes", items, embeddings, 20)

	if len(got) != 10 {
		t.Fatalf("got %d results, want 10", len(got))
	}
	for i := range got {
		want := fmt.Sprintf("item-%02d", i)
		if got[i].Item().ID() != want {
			t.Errorf("position %d = %s, want %s", i, got[i].Item().ID(), want)
		}
		if i > 0 && got[i].Similarity() > got[i-1].Similarity() {
			t.Errorf("similarity not descending at position %d", i)
		}
	}
}

func TestRank_MissingEmbeddingStaysEligible(t *testing.T) {
	items, embeddings := rankFixture(t, 3)
	delete(embeddings, "item-01")
	r := newTestRanker(t, &mockEmbedder{vec: unitVec(dims, 0)}, nil, nil)

	got := r.Rank(context.Background(), "notes", items, embeddings, 20)

	if len(got) != 3 {
		t.Fatalf("got %d results, want all 3", len(got))
	}
	last := got[len(got)-1]
	if last.Item().ID() != "item-01" || last.Similarity() != 0 {
		t.Errorf("unembedded item = %s sim %v, want item-01 at similarity 0 in last place",
			last.Item().ID(), last.Similarity())
	}
}

func TestRank_EmbedFailureDegradesToZeroSignal(t *testing.T) {
	items, embeddings := rankFixture(t, 5)
	r := newTestRanker(t, &mockEmbedder{err: context.DeadlineExceeded}, nil, nil)

	got := r.Rank(context.Background(), "notes", items, embeddings, 20)

	if len(got) != 5 {
		t.Fatalf("got %d results, want 5", len(got))
	}
	for _, res := range got {
		if res.Similarity() != 0 {
			t.Errorf("similarity = %v with failed query embedding, want 0", res.Similarity())
		}
	}
}

func TestRank_RerankReorders(t *testing.T) {
	items, embeddings := rankFixture(t, 10)
	chat := &mockChat{response: "Ranking complete: [2, 0, 1]"}
	r := newTestRanker(t, &mockEmbedder{vec: unitVec(dims, 0)}, chat, &mockLimiter{allow: true})

	got := r.Rank(context.Background(), "notes", items, embeddings, 5)

	if len(got) != 5 {
		t.Fatalf("got %d results, want 5", len(got))
	}
	wantOrder := []string{"item-02", "item-00", "item-01", "item-03", "item-04"}
	for i, want := range wantOrder {
		if got[i].Item().ID() != want {
			t.Fatalf("position %d = %s, want %s", i, got[i].Item().ID(), want)
		}
	}

	// Re-ranking reorders but never overwrites similarity.
	if got[0].Similarity() >= got[1].Similarity() {
		t.Error("re-ranked head should keep its original lower similarity score")
	}
	if rank, ok := got[0].Rank(); !ok || rank != 0 {
		t.Errorf("head rank = %d/%v, want 0/true", rank, ok)
	}
	if _, ok := got[4].Rank(); ok {
		t.Error("fill result should have no rank assigned")
	}
}

func TestRank_OutOfRangeIndexDropped(t *testing.T) {
	items, embeddings := rankFixture(t, 10)
	chat := &mockChat{response: `[999, 2, "first", 0, -1, 2]`}
	r := newTestRanker(t, &mockEmbedder{vec: unitVec(dims, 0)}, chat, &mockLimiter{allow: true})

	got := r.Rank(context.Background(), "notes", items, embeddings, 3)

	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
	wantOrder := []string{"item-02", "item-00", "item-01"}
	for i, want := range wantOrder {
		if got[i].Item().ID() != want {
			t.Fatalf("position %d = %s, want %s", i, got[i].Item().ID(), want)
		}
	}
}

func TestRank_RerankFailureFallsBackToSimilarity(t *testing.T) {
	items, embeddings := rankFixture(t, 10)

	tests := []struct {
		name string
		chat *mockChat
	}{
		{"llm error", &mockChat{err: context.DeadlineExceeded}},
		{"no json", &mockChat{response: "I cannot rank these items."}},
		{"no valid indices", &mockChat{response: "[999, 500]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRanker(t, &mockEmbedder{vec: unitVec(dims, 0)}, tt.chat, &mockLimiter{allow: true})

			got := r.Rank(context.Background(), "notes", items, embeddings, 3)

			if len(got) != 3 {
				t.Fatalf("got %d results, want 3", len(got))
			}
			for i := 0; i < 3; i++ {
				want := fmt.Sprintf("item-%02d", i)
				if got[i].Item().ID() != want {
					t.Fatalf("position %d = %s, want similarity order %s", i, got[i].Item().ID(), want)
				}
			}
		})
	}
}

func TestRank_RateLimitSkipsRerank(t *testing.T) {
	items, embeddings := rankFixture(t, 10)
	chat := &mockChat{response: "[2, 0, 1]"}
	r := newTestRanker(t, &mockEmbedder{vec: unitVec(dims, 0)}, chat, &mockLimiter{allow: false})

	got := r.Rank(context.Background(), "notes", items, embeddings, 3)

	if chat.calls != 0 {
		t.Errorf("chat called %d times while rate limited", chat.calls)
	}
	if got[0].Item().ID() != "item-00" {
		t.Errorf("head = %s, want similarity order", got[0].Item().ID())
	}
}

func TestRank_FewResultsSkipRerank(t *testing.T) {
	items, embeddings := rankFixture(t, 3)
	chat := &mockChat{response: "[2, 0, 1]"}
	r := newTestRanker(t, &mockEmbedder{vec: unitVec(dims, 0)}, chat, &mockLimiter{allow: true})

	got := r.Rank(context.Background(), "notes", items, embeddings, 10)

	if chat.calls != 0 {
		t.Errorf("chat called %d times for a result set below the limit", chat.calls)
	}
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
}

func TestRank_EmptyCandidates(t *testing.T) {
	r := newTestRanker(t, &mockEmbedder{vec: unitVec(dims, 0)}, nil, nil)

	got := r.Rank(context.Background(), "notes", nil, nil, 20)

	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", got)
	}
}

func TestRank_PromptSnippetsTolerateEmptyBody(t *testing.T) {
	items := []domain.ContentItem{
		makeItem(t, "bodyless", domain.TypeNote, "Just a title", "", nil, filterNow),
	}
	for i := 0; i < 5; i++ {
		items = append(items, makeItem(t, fmt.Sprintf("b-%d", i), domain.TypeNote, "T",
			strings.Repeat("x", 1000), nil, filterNow))
	}
	embeddings := map[string][]float32{}
	chat := &mockChat{err: context.DeadlineExceeded}
	r := newTestRanker(t, &mockEmbedder{vec: unitVec(dims, 0)}, chat, &mockLimiter{allow: true})

	got := r.Rank(context.Background(), "title", items, embeddings, 2)

	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if chat.calls != 1 {
		t.Fatalf("chat called %d times, want 1", chat.calls)
	}
	// Snippets are length-capped, so the 1000-char bodies must not appear whole.
	if strings.Contains(chat.lastSent, strings.Repeat("x", 201)) {
		t.Error("prompt contains an uncapped snippet")
	}
}

func TestSnippet(t *testing.T) {
	if got := snippet("", 200); got != "" {
		t.Errorf("snippet of empty body = %q, want empty", got)
	}
	if got := snippet("short", 200); got != "short" {
		t.Errorf("snippet = %q, want unchanged", got)
	}
	if got := snippet(strings.Repeat("é", 300), 200); len([]rune(got)) != 200 {
		t.Errorf("snippet rune length = %d, want 200", len([]rune(got)))
	}
}
