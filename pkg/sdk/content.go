package synapse

import (
	"context"
	"fmt"
	"time"

	contentuc "github.com/synapse-kb/synapse/internal/usecase/content"
)

// Capture stores one item. Type is classified from the URL and text when
// empty. Embedding failures do not fail the capture: the item is stored
// without a vector and ranks at zero similarity.
func (c *Client) Capture(ctx context.Context, userID string, in CaptureInput) (item Item, err error) {
	start := time.Now()
	defer func() { c.obs.observe("content.capture", start, err) }()

	stored, err := c.contentSvc.Capture(ctx, userID, contentuc.CaptureInput{
		ContentType: in.Type,
		Title:       in.Title,
		Body:        in.Body,
		SourceURL:   in.SourceURL,
		Metadata:    metadataFromMap(in.Metadata),
	})
	if err != nil {
		return Item{}, fmt.Errorf("capture: %w", err)
	}
	return itemFromDomain(stored), nil
}

// Get returns one item by ID. Returns ErrNotFound when absent.
func (c *Client) Get(ctx context.Context, userID, id string) (item Item, err error) {
	start := time.Now()
	defer func() { c.obs.observe("content.get", start, err) }()

	stored, err := c.contentSvc.Get(ctx, userID, id)
	if err != nil {
		return Item{}, fmt.Errorf("get: %w", err)
	}
	return itemFromDomain(stored), nil
}

// List returns all of the user's items, newest first.
func (c *Client) List(ctx context.Context, userID string) (items []Item, err error) {
	start := time.Now()
	defer func() { c.obs.observe("content.list", start, err) }()

	stored, err := c.contentSvc.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	items = make([]Item, 0, len(stored))
	for _, it := range stored {
		items = append(items, itemFromDomain(it))
	}
	return items, nil
}

// Delete removes one item and its embedding. Returns ErrNotFound when absent.
func (c *Client) Delete(ctx context.Context, userID, id string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("content.delete", start, err) }()

	if err = c.contentSvc.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
