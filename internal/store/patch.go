package store

import (
	"reflect"
	"time"
)

// Patch is a partial update. Plain values replace the field; FieldOp values
// are applied against the current field. A patch is applied in one write.
type Patch map[string]any

// FieldOp is a field transformation evaluated against the stored value
type FieldOp interface {
	apply(current any, exists bool, now time.Time) (next any, keep bool)
}

type incrementOp struct{ delta float64 }

type arrayUnionOp struct{ values []any }

type arrayRemoveOp struct{ values []any }

type serverTimestampOp struct{}

type deleteFieldOp struct{}

// Increment adds delta to a numeric field, treating a missing field as zero
func Increment(delta int64) FieldOp {
	return incrementOp{delta: float64(delta)}
}

// ArrayUnion appends each value not already present
func ArrayUnion(values ...any) FieldOp {
	return arrayUnionOp{values: values}
}

// ArrayRemove removes every occurrence of each value
func ArrayRemove(values ...any) FieldOp {
	return arrayRemoveOp{values: values}
}

// ServerTimestamp stamps the field with the store's write time
func ServerTimestamp() FieldOp {
	return serverTimestampOp{}
}

// DeleteField removes the field from the document
func DeleteField() FieldOp {
	return deleteFieldOp{}
}

func (op incrementOp) apply(current any, exists bool, _ time.Time) (any, bool) {
	base, ok := toFloat(current)
	if !exists || !ok {
		base = 0
	}
	sum := base + op.delta
	if sum == float64(int64(sum)) {
		return int64(sum), true
	}
	return sum, true
}

func (op arrayUnionOp) apply(current any, _ bool, _ time.Time) (any, bool) {
	out := toSlice(current)
	for _, v := range op.values {
		if !containsValue(out, v) {
			out = append(out, v)
		}
	}
	return out, true
}

func (op arrayRemoveOp) apply(current any, _ bool, _ time.Time) (any, bool) {
	in := toSlice(current)
	out := make([]any, 0, len(in))
	for _, v := range in {
		if !containsValue(op.values, v) {
			out = append(out, v)
		}
	}
	return out, true
}

func (serverTimestampOp) apply(_ any, _ bool, now time.Time) (any, bool) {
	return now, true
}

func (deleteFieldOp) apply(any, bool, time.Time) (any, bool) {
	return nil, false
}

// ApplyPatch returns a copy of data with the patch applied
func ApplyPatch(data Data, patch Patch, now time.Time) Data {
	out := CloneData(data)
	for field, value := range patch {
		op, isOp := value.(FieldOp)
		if !isOp {
			out[field] = value
			continue
		}
		current, exists := out[field]
		next, keep := op.apply(current, exists, now)
		if keep {
			out[field] = next
		} else {
			delete(out, field)
		}
	}
	return out
}

// ResolveData replaces FieldOps in a full document body, used by Create and Set
func ResolveData(data Data, now time.Time) Data {
	return ApplyPatch(Data{}, Patch(data), now)
}

// CloneData copies the top level map and any nested slices or maps
func CloneData(data Data) Data {
	out := make(Data, len(data))
	for k, v := range data {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return CloneData(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(typed))
		copy(out, typed)
		return out
	default:
		return v
	}
}

func toSlice(v any) []any {
	switch typed := v.(type) {
	case nil:
		return []any{}
	case []any:
		out := make([]any, len(typed))
		copy(out, typed)
		return out
	case []string:
		out := make([]any, len(typed))
		for i, s := range typed {
			out[i] = s
		}
		return out
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice {
			out := make([]any, rv.Len())
			for i := range out {
				out[i] = rv.Index(i).Interface()
			}
			return out
		}
		return []any{v}
	}
}

func containsValue(values []any, target any) bool {
	for _, v := range values {
		if valuesEqual(v, target) {
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
