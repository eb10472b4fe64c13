package content

import (
	"time"

	"github.com/synapse-kb/synapse/internal/domain"
)

// itemDTO is the storage representation of a ContentItem.
type itemDTO struct {
	ID          string         `json:"id"`
	ContentType string         `json:"content_type"`
	Title       string         `json:"title"`
	Body        string         `json:"body,omitempty"`
	SourceURL   string         `json:"source_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func toDTO(item domain.ContentItem) itemDTO {
	return itemDTO{
		ID:          item.ID(),
		ContentType: string(item.ContentType()),
		Title:       item.Title(),
		Body:        item.Body(),
		SourceURL:   item.SourceURL(),
		Metadata:    metadataToDTO(item.Metadata()),
		CreatedAt:   item.CreatedAt(),
	}
}

func fromDTO(dto itemDTO) domain.ContentItem {
	return domain.ReconstructContentItem(
		dto.ID,
		domain.ContentType(dto.ContentType),
		dto.Title,
		dto.Body,
		dto.SourceURL,
		metadataFromDTO(dto.Metadata),
		dto.CreatedAt,
	)
}

func metadataToDTO(meta domain.Metadata) map[string]any {
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

// metadataFromDTO coerces loosely-typed JSON values into the closed MetaValue
// variant set. Values outside the set are dropped, not errored on.
func metadataFromDTO(raw map[string]any) domain.Metadata {
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
