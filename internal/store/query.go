package store

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"time"
)

// Matches reports whether a document body satisfies every equality filter
func Matches(data Data, filters []Filter) bool {
	for _, f := range filters {
		value, ok := data[f.Field]
		if !ok || !valuesEqual(value, f.Value) {
			return false
		}
	}
	return true
}

// Run filters, orders and limits an unordered set of documents. Documents
// with equal sort values keep their creation order.
func Run(docs []Document, q Query) []Document {
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if Matches(doc.Data, q.Where) {
			out = append(out, doc)
		}
	}

	slices.SortStableFunc(out, func(a, b Document) int {
		if c := a.CreateTime.Compare(b.CreateTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if q.OrderBy != "" {
		slices.SortStableFunc(out, func(a, b Document) int {
			c := CompareValues(a.Data[q.OrderBy], b.Data[q.OrderBy])
			if q.Desc {
				return -c
			}
			return c
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// CompareValues orders loosely typed field values. Missing values sort first,
// numbers compare numerically and times (or RFC3339 strings) chronologically.
func CompareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmp.Compare(fa, fb)
		}
	}

	if ta, ok := asTime(a); ok {
		if tb, ok := asTime(b); ok {
			return ta.Compare(tb)
		}
	}

	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return cmp.Compare(sa, sb)
		}
	}

	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			default:
				return 1
			}
		}
	}

	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func valuesEqual(a, b any) bool {
	if _, ok := b.(time.Time); ok {
		a, b = b, a
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := asTime(b); ok {
			return ta.Equal(tb)
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		return parsed, err == nil
	default:
		return time.Time{}, false
	}
}
