package synapse

import (
	"context"
	"fmt"
	"time"
)

// Search runs a similarity search over the user's content. limit <= 0 falls
// back to the default result count. An empty query returns the newest items
// at zero similarity.
func (c *Client) Search(ctx context.Context, userID, query string, limit int) (results []SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	scored, err := c.searchSvc.Search(ctx, userID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	results = make([]SearchResult, 0, len(scored))
	for _, res := range scored {
		results = append(results, resultFromDomain(res))
	}
	return results, nil
}
