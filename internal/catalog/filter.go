package catalog

import (
	"strings"

	"movieflix/internal/media"
)

// Type filter values accepted by Query.Type.
const (
	TypeAll   = "all"
	TypeMovie = "movie"
	TypeTV    = "tv"
)

// TypeFilters lists the type filters in the order the dashboard cycles them.
var TypeFilters = []string{TypeAll, TypeMovie, TypeTV}

// Query is a search plus type filter.
type Query struct {
	Search string
	Type   string
}

// Active reports whether the query narrows the list at all.
func (q Query) Active() bool {
	t := strings.ToLower(strings.TrimSpace(q.Type))
	return strings.TrimSpace(q.Search) != "" || (t != "" && t != TypeAll)
}

// Filter returns the entries matching q in their original order.
func Filter(entries []media.Entry, q Query) []media.Entry {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]media.Entry, 0, len(entries))
	for _, entry := range entries {
		if !matchesSearch(entry, search) || !entry.Type.Matches(q.Type) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func matchesSearch(entry media.Entry, search string) bool {
	if search == "" {
		return true
	}
	for _, field := range []string{entry.Title, entry.Director, entry.Location} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// NextType returns the type filter following current in TypeFilters.
func NextType(current string) string {
	current = strings.ToLower(strings.TrimSpace(current))
	for i, t := range TypeFilters {
		if t == current {
			return TypeFilters[(i+1)%len(TypeFilters)]
		}
	}
	return TypeAll
}

// EmptyMessage is shown when a filtered list has no rows.
func EmptyMessage(q Query) string {
	if q.Active() {
		return "No entries found matching your filters"
	}
	return "No entries yet. Add your first movie or TV show!"
}
