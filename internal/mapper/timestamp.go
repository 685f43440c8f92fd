package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrMalformedTimestamp = errors.New("malformed timestamp")

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp converts the shapes a stored date arrives in: a time value,
// a server timestamp object, a date string or unix milliseconds.
func Timestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("%w: nil", ErrMalformedTimestamp)
		}
		return t.UTC(), nil
	case map[string]any:
		return fromSecondsMap(t)
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, t)
	case int:
		return time.UnixMilli(int64(t)).UTC(), nil
	case int64:
		return time.UnixMilli(t).UTC(), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedTimestamp, t)
		}
		return time.UnixMilli(int64(t)).UTC(), nil
	case json.Number:
		ms, err := t.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", ErrMalformedTimestamp, t)
		}
		return time.UnixMilli(ms).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %T", ErrMalformedTimestamp, v)
	}
}

func fromSecondsMap(m map[string]any) (time.Time, error) {
	for _, keys := range [][2]string{{"seconds", "nanoseconds"}, {"_seconds", "_nanoseconds"}} {
		rawSec, ok := m[keys[0]]
		if !ok {
			continue
		}
		sec, ok := toInt64(rawSec)
		if !ok {
			return time.Time{}, fmt.Errorf("%w: seconds %v", ErrMalformedTimestamp, rawSec)
		}
		var nsec int64
		if rawNsec, ok := m[keys[1]]; ok {
			if nsec, ok = toInt64(rawNsec); !ok {
				return time.Time{}, fmt.Errorf("%w: nanoseconds %v", ErrMalformedTimestamp, rawNsec)
			}
		}
		return time.Unix(sec, nsec).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: object without seconds", ErrMalformedTimestamp)
}

// optionalTime reads field, falling back when it is absent or null.
// A present but malformed value is an error.
func optionalTime(data map[string]any, field string, fallback time.Time) (time.Time, error) {
	v, ok := data[field]
	if !ok || v == nil {
		return fallback, nil
	}
	t, err := Timestamp(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}
