package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxBodySize is the maximum raw body size in bytes.
const MaxBodySize = 51200 // 50KB

// ContentType classifies a saved item.
type ContentType string

// Recognized content types.
const (
	TypeArticle ContentType = "article"
	TypeProduct ContentType = "product"
	TypeVideo   ContentType = "video"
	TypeTodo    ContentType = "todo"
	TypeNote    ContentType = "note"
	TypeQuote   ContentType = "quote"
	TypeBook    ContentType = "book"
)

var validContentTypes = map[ContentType]bool{
	TypeArticle: true, TypeProduct: true, TypeVideo: true,
	TypeTodo: true, TypeNote: true, TypeQuote: true, TypeBook: true,
}

// ParseContentType validates a content type string.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !validContentTypes[ct] {
		return "", fmt.Errorf("%w: %q", ErrInvalidContentType, s)
	}
	return ct, nil
}

// ContentItem is one saved unit of user content (immutable value object).
// The search pipeline treats it as read-only for the duration of a call.
type ContentItem struct {
	id          string
	contentType ContentType
	title       string
	body        string
	sourceURL   string
	metadata    Metadata
	createdAt   time.Time
}

// NewContentItem validates and creates a ContentItem.
func NewContentItem(
	id string, ct ContentType, title, body, sourceURL string,
	meta Metadata, createdAt time.Time,
) (ContentItem, error) {
	if id == "" {
		return ContentItem{}, fmt.Errorf("content ID is required")
	}
	if !validContentTypes[ct] {
		return ContentItem{}, fmt.Errorf("%w: %q", ErrInvalidContentType, ct)
	}
	if title == "" {
		return ContentItem{}, fmt.Errorf("title is required")
	}
	if len(body) > MaxBodySize {
		return ContentItem{}, fmt.Errorf("body too large (max %d bytes)", MaxBodySize)
	}
	return ContentItem{
		id:          id,
		contentType: ct,
		title:       title,
		body:        body,
		sourceURL:   sourceURL,
		metadata:    meta.Clone(),
		createdAt:   createdAt.UTC(),
	}, nil
}

// ReconstructContentItem creates a ContentItem without validation (storage hydration).
func ReconstructContentItem(
	id string, ct ContentType, title, body, sourceURL string,
	meta Metadata, createdAt time.Time,
) ContentItem {
	return ContentItem{
		id: id, contentType: ct, title: title, body: body,
		sourceURL: sourceURL, metadata: meta, createdAt: createdAt,
	}
}

// ID returns the item identifier.
func (c ContentItem) ID() string { return c.id }

// ContentType returns the content type tag.
func (c ContentItem) ContentType() ContentType { return c.contentType }

// Title returns the item title.
func (c ContentItem) Title() string { return c.title }

// Body returns the raw text body. May be empty.
func (c ContentItem) Body() string { return c.body }

// SourceURL returns the optional source locator.
func (c ContentItem) SourceURL() string { return c.sourceURL }

// Metadata returns the structured metadata.
func (c ContentItem) Metadata() Metadata { return c.metadata }

// CreatedAt returns the creation timestamp.
func (c ContentItem) CreatedAt() time.Time { return c.createdAt }

// EmbeddingText returns the text representation used for embedding.
func (c ContentItem) EmbeddingText() string {
	if c.body == "" {
		return c.title
	}
	return c.title + " " + c.body
}

// WithMetadata returns a copy with the given metadata set.
func (c ContentItem) WithMetadata(meta Metadata) ContentItem {
	out := c
	out.metadata = meta
	return out
}
