package domain

import "strings"

// TimeFilter restricts candidates to a creation-time window.
type TimeFilter string

// Recognized time filters.
const (
	TimeNone      TimeFilter = ""
	TimeToday     TimeFilter = "today"
	TimeYesterday TimeFilter = "yesterday"
	TimeLastWeek  TimeFilter = "last_week"
	TimeLastMonth TimeFilter = "last_month"
)

// ParseTimeFilter maps a string to a recognized time filter.
// Unknown values (including "null" and "none") map to TimeNone.
func ParseTimeFilter(s string) TimeFilter {
	switch TimeFilter(strings.ToLower(strings.TrimSpace(s))) {
	case TimeToday:
		return TimeToday
	case TimeYesterday:
		return TimeYesterday
	case TimeLastWeek:
		return TimeLastWeek
	case TimeLastMonth:
		return TimeLastMonth
	default:
		return TimeNone
	}
}

// PriceRange is an inclusive price window.
type PriceRange struct {
	Min float64
	Max float64
}

// Contains reports whether p falls inside the range. A zero Max means unbounded.
func (r PriceRange) Contains(p float64) bool {
	if p < r.Min {
		return false
	}
	if r.Max > 0 && p > r.Max {
		return false
	}
	return true
}

// QueryIntent is the structured interpretation of a free-text search query.
// It is always fully populated: absent filters are zero values, never missing
// fields, so callers branch on value, not on presence. OtherFilters is never nil.
type QueryIntent struct {
	SearchTerms  string
	TimeFilter   TimeFilter
	ContentType  ContentType // "" when no type filter
	PriceRange   *PriceRange // nil when no price filter
	OtherFilters map[string]string
}

// DefaultIntent is the complete fallback intent: the query itself as search
// terms and every filter absent. This is the shape every failure path of the
// intent parser must return.
func DefaultIntent(query string) QueryIntent {
	return QueryIntent{
		SearchTerms:  query,
		TimeFilter:   TimeNone,
		ContentType:  "",
		PriceRange:   nil,
		OtherFilters: map[string]string{},
	}
}
