package search

import (
	"time"

	"github.com/synapse-kb/synapse/internal/domain"
)

// Filter applies the structured intent as predicates over items. Pure
// function, no I/O; predicates compose with AND semantics and an empty
// result is valid. now anchors the time-window cutoffs so callers (and
// tests) control the clock.
func Filter(items []domain.ContentItem, intent domain.QueryIntent, now time.Time) []domain.ContentItem {
	cutoff, hasCutoff := timeCutoff(intent.TimeFilter, now)

	out := make([]domain.ContentItem, 0, len(items))
	for _, item := range items {
		if intent.ContentType != "" && item.ContentType() != intent.ContentType {
			continue
		}
		if hasCutoff && item.CreatedAt().Before(cutoff) {
			continue
		}
		if intent.PriceRange != nil {
			// An explicit price filter excludes items that carry no
			// numeric price at all.
			price, ok := item.Metadata().Price()
			if !ok || !intent.PriceRange.Contains(price) {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

// timeCutoff maps a time filter to an inclusive lower bound on creation time.
func timeCutoff(tf domain.TimeFilter, now time.Time) (time.Time, bool) {
	now = now.UTC()
	switch tf {
	case domain.TimeToday:
		return startOfDay(now), true
	case domain.TimeYesterday:
		return startOfDay(now.AddDate(0, 0, -1)), true
	case domain.TimeLastWeek:
		return now.AddDate(0, 0, -7), true
	case domain.TimeLastMonth:
		return now.AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
