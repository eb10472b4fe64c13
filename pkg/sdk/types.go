package synapse

import (
	"time"

	"github.com/synapse-kb/synapse/internal/domain"
)

// Item is one captured unit of content.
type Item struct {
	ID        string
	Type      string // article, product, video, todo, note, quote, book
	Title     string
	Body      string
	SourceURL string
	Metadata  map[string]any
	CreatedAt time.Time
}

// CaptureInput describes one item to capture. Type is optional; when empty
// the client classifies the item from its URL and text.
type CaptureInput struct {
	Type      string
	Title     string
	Body      string
	SourceURL string
	Metadata  map[string]any
}

// SearchResult is an Item paired with its similarity score and, when the
// re-ranking pass assigned one, a rank position. Embedded clients never
// re-rank, so Rank is nil; the field exists so the type matches the HTTP
// API response shape.
type SearchResult struct {
	Item       Item
	Similarity float64
	Rank       *int
}

func itemFromDomain(it domain.ContentItem) Item {
	return Item{
		ID:        it.ID(),
		Type:      string(it.ContentType()),
		Title:     it.Title(),
		Body:      it.Body(),
		SourceURL: it.SourceURL(),
		Metadata:  metadataToMap(it.Metadata()),
		CreatedAt: it.CreatedAt(),
	}
}

func resultFromDomain(res domain.ScoredResult) SearchResult {
	out := SearchResult{
		Item:       itemFromDomain(res.Item()),
		Similarity: res.Similarity(),
	}
	if rank, ok := res.Rank(); ok {
		r := rank
		out.Rank = &r
	}
	return out
}

func metadataToMap(meta domain.Metadata) map[string]any {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		if n, ok := v.AsNumber(); ok {
			out[k] = n
		} else if s, ok := v.AsString(); ok {
			out[k] = s
		} else if b, ok := v.AsBool(); ok {
			out[k] = b
		} else if l, ok := v.AsStringList(); ok {
			out[k] = l
		}
	}
	return out
}

// metadataFromMap coerces loosely-typed values into the closed MetaValue
// variant set. Values outside the set are dropped, not errored on.
func metadataFromMap(raw map[string]any) domain.Metadata {
	if len(raw) == 0 {
		return nil
	}
	meta := make(domain.Metadata, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case float64:
			meta[k] = domain.Number(val)
		case int:
			meta[k] = domain.Number(float64(val))
		case string:
			meta[k] = domain.String(val)
		case bool:
			meta[k] = domain.Bool(val)
		case []string:
			meta[k] = domain.StringList(val)
		case []any:
			list := make([]string, 0, len(val))
			for _, e := range val {
				if s, ok := e.(string); ok {
					list = append(list, s)
				}
			}
			if len(list) > 0 {
				meta[k] = domain.StringList(list)
			}
		}
	}
	return meta
}
