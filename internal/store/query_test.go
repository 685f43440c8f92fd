package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyPatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		data  Data
		patch Patch
		want  Data
	}{
		{
			name:  "increment missing field",
			data:  Data{},
			patch: Patch{"views": Increment(1)},
			want:  Data{"views": int64(1)},
		},
		{
			name:  "increment float field",
			data:  Data{"views": float64(4)},
			patch: Patch{"views": Increment(-1)},
			want:  Data{"views": int64(3)},
		},
		{
			name:  "union skips duplicates",
			data:  Data{"liked_by": []any{"u1"}},
			patch: Patch{"liked_by": ArrayUnion("u1", "u2")},
			want:  Data{"liked_by": []any{"u1", "u2"}},
		},
		{
			name:  "remove every occurrence",
			data:  Data{"liked_by": []string{"u1", "u2", "u1"}},
			patch: Patch{"liked_by": ArrayRemove("u1")},
			want:  Data{"liked_by": []any{"u2"}},
		},
		{
			name:  "server timestamp and delete",
			data:  Data{"draft": true},
			patch: Patch{"updated_at": ServerTimestamp(), "draft": DeleteField()},
			want:  Data{"updated_at": now},
		},
		{
			name:  "plain value replaces",
			data:  Data{"title": "a"},
			patch: Patch{"title": "b"},
			want:  Data{"title": "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := CloneData(tt.data)
			got := ApplyPatch(tt.data, tt.patch, now)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, before, tt.data, "input must not be modified")
		})
	}
}

func TestRunOrdersStably(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	docs := []Document{
		{ID: "c", CreateTime: base.Add(2 * time.Hour), Data: Data{"category": "go", "views": 5}},
		{ID: "a", CreateTime: base, Data: Data{"category": "go", "views": 5}},
		{ID: "b", CreateTime: base.Add(time.Hour), Data: Data{"category": "rust", "views": 9}},
		{ID: "d", CreateTime: base.Add(3 * time.Hour), Data: Data{"category": "go", "views": 1}},
	}

	got := Run(docs, Where("category", "go").Order("views", true))
	ids := make([]string, len(got))
	for i, d := range got {
		ids[i] = d.ID
	}
	// equal view counts keep creation order
	assert.Equal(t, []string{"a", "c", "d"}, ids)

	limited := Run(docs, Query{OrderBy: "views", Limit: 2})
	assert.Len(t, limited, 2)
	assert.Equal(t, "d", limited[0].ID)
}

func TestCompareValues(t *testing.T) {
	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"nil first", nil, 1, -1},
		{"mixed numbers", int64(2), 2.5, -1},
		{"time against string", late, early.Format(time.RFC3339), 1},
		{"strings", "b", "a", 1},
		{"bools", false, true, -1},
		{"equal", "x", "x", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareValues(tt.a, tt.b))
		})
	}
}

func TestMatches(t *testing.T) {
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	data := Data{"role": "teacher", "count": float64(3), "joined": at.Format(time.RFC3339Nano)}

	assert.True(t, Matches(data, []Filter{{Field: "role", Value: "teacher"}}))
	assert.True(t, Matches(data, []Filter{{Field: "count", Value: 3}}))
	assert.True(t, Matches(data, []Filter{{Field: "joined", Value: at}}))
	assert.False(t, Matches(data, []Filter{{Field: "role", Value: "admin"}}))
	assert.False(t, Matches(data, []Filter{{Field: "missing", Value: ""}}))
}
