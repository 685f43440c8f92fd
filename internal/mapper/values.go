package mapper

import (
	"encoding/json"
	"fmt"
	"math"
)

func str(data map[string]any, field string) string {
	switch v := data[field].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func counter(data map[string]any, field string) int64 {
	n, ok := toInt64(data[field])
	if !ok || n < 0 {
		return 0
	}
	return n
}

func number(data map[string]any, field string) float64 {
	f, ok := toFloat(data[field])
	if !ok {
		return 0
	}
	return f
}

func boolean(data map[string]any, field string) bool {
	b, _ := data[field].(bool)
	return b
}

func stringList(data map[string]any, field string) []string {
	out := []string{}
	switch v := data[field].(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func objectList(data map[string]any, field string) []map[string]any {
	var out []map[string]any
	switch v := data[field].(type) {
	case []map[string]any:
		out = append(out, v...)
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func toInt64(v any) (int64, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
