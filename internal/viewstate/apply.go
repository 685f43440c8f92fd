package viewstate

import (
	"slices"
	"strings"
)

// Filters are the user-chosen search, sort and equality filters of a page
type Filters struct {
	Search   string            `json:"search"`
	SortKey  string            `json:"sort_key"`
	SortDesc bool              `json:"sort_desc"`
	Match    map[string]string `json:"match"`
}

func (f Filters) clone() Filters {
	out := f
	if f.Match != nil {
		out.Match = make(map[string]string, len(f.Match))
		for k, v := range f.Match {
			out.Match[k] = v
		}
	}
	return out
}

// Spec describes how one record type is searched, filtered and sorted
type Spec[T any] struct {
	// SearchFields returns the texts matched by the search box
	SearchFields func(T) []string
	// FilterValue returns the value compared against Filters.Match[key]
	FilterValue func(item T, key string) string
	// SortKeys maps a sort key to an ascending comparison
	SortKeys map[string]func(a, b T) int
}

// Apply derives the visible list from items and filters. It never modifies
// items and returns the same output for the same inputs. Search is a
// case-insensitive substring match, every non-empty Match entry must equal
// the item's value, and sorting is stable so ties keep insertion order.
func Apply[T any](items []T, filters Filters, spec Spec[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(filters.Search))

	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle != "" && !matchesSearch(item, needle, spec) {
			continue
		}
		if !matchesFilters(item, filters.Match, spec) {
			continue
		}
		out = append(out, item)
	}

	compare, ok := spec.SortKeys[filters.SortKey]
	if filters.SortKey == "" || !ok {
		return out
	}
	slices.SortStableFunc(out, func(a, b T) int {
		if filters.SortDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}

func matchesSearch[T any](item T, needle string, spec Spec[T]) bool {
	if spec.SearchFields == nil {
		return true
	}
	for _, field := range spec.SearchFields(item) {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func matchesFilters[T any](item T, match map[string]string, spec Spec[T]) bool {
	for key, want := range match {
		if want == "" {
			continue
		}
		if spec.FilterValue == nil || spec.FilterValue(item, key) != want {
			return false
		}
	}
	return true
}
