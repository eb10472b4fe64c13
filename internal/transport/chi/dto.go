package chi

import (
	"time"

	"github.com/synapse-kb/synapse/internal/domain"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned to clients.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeRateLimited      = "rate_limited"
	codeProviderError    = "provider_error"
	codeInternalError    = "internal_error"
)

// CaptureRequest is the body of POST /content.
type CaptureRequest struct {
	ContentType string         `json:"content_type,omitempty"`
	Title       string         `json:"title"`
	Body        string         `json:"body,omitempty"`
	SourceURL   string         `json:"source_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ContentResponse is one stored item.
type ContentResponse struct {
	ID          string         `json:"id"`
	ContentType string         `json:"content_type"`
	Title       string         `json:"title"`
	Body        string         `json:"body,omitempty"`
	SourceURL   string         `json:"source_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ContentListResponse is the body of GET /content.
type ContentListResponse struct {
	Items []ContentResponse `json:"items"`
	Total int               `json:"total"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// SearchResultItem is one ranked result.
type SearchResultItem struct {
	ContentResponse
	Similarity float64 `json:"similarity"`
	Rank       *int    `json:"rank,omitempty"`
}

// SearchResponse is the body of POST /search.
type SearchResponse struct {
	Items []SearchResultItem `json:"items"`
	Total int                `json:"total"`
}

// CacheClearResponse is the body of POST /cache/clear.
type CacheClearResponse struct {
	Cleared int `json:"cleared"`
}

func contentToResponse(item domain.ContentItem) ContentResponse {
	return ContentResponse{
		ID:          item.ID(),
		ContentType: string(item.ContentType()),
		Title:       item.Title(),
		Body:        item.Body(),
		SourceURL:   item.SourceURL(),
		Metadata:    metadataToJSON(item.Metadata()),
		CreatedAt:   item.CreatedAt(),
	}
}

func resultToResponse(res domain.ScoredResult) SearchResultItem {
	item := SearchResultItem{
		ContentResponse: contentToResponse(res.Item()),
		Similarity:      res.Similarity(),
	}
	if rank, ok := res.Rank(); ok {
		r := rank
		item.Rank = &r
	}
	return item
}

func metadataToJSON(meta domain.Metadata) map[string]any {
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

// metadataFromJSON coerces loosely-typed JSON values into the closed
// MetaValue variant set. Values outside the set are dropped, not errored on.
func metadataFromJSON(raw map[string]any) domain.Metadata {
	if len(raw) == 0 {
		return nil
	}
	meta := make(domain.Metadata, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case float64:
			meta[k] = domain.Number(val)
		case string:
			meta[k] = domain.String(val)
		case bool:
			meta[k] = domain.Bool(val)
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
