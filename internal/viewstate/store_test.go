package viewstate

import (
	"cmp"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id       string
	title    string
	category string
	views    int
}

var itemSpec = Spec[item]{
	SearchFields: func(i item) []string { return []string{i.title} },
	FilterValue: func(i item, key string) string {
		if key == "category" {
			return i.category
		}
		return ""
	},
	SortKeys: map[string]func(a, b item) int{
		"views": func(a, b item) int { return cmp.Compare(a.views, b.views) },
		"title": func(a, b item) int { return cmp.Compare(a.title, b.title) },
	},
}

func ids(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

func sampleItems() []item {
	return []item{
		{id: "1", title: "Go Channels", category: "go", views: 10},
		{id: "2", title: "Rust Traits", category: "rust", views: 30},
		{id: "3", title: "Go Generics", category: "go", views: 10},
		{id: "4", title: "go modules", category: "go", views: 5},
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{name: "no filters keeps order", filters: Filters{}, want: []string{"1", "2", "3", "4"}},
		{name: "case-insensitive search", filters: Filters{Search: "GO"}, want: []string{"1", "3", "4"}},
		{name: "match filter", filters: Filters{Match: map[string]string{"category": "rust"}}, want: []string{"2"}},
		{name: "empty match ignored", filters: Filters{Match: map[string]string{"category": ""}}, want: []string{"1", "2", "3", "4"}},
		{name: "stable ascending", filters: Filters{SortKey: "views"}, want: []string{"4", "1", "3", "2"}},
		{name: "stable descending", filters: Filters{SortKey: "views", SortDesc: true}, want: []string{"2", "1", "3", "4"}},
		{name: "unknown sort key ignored", filters: Filters{SortKey: "nope"}, want: []string{"1", "2", "3", "4"}},
		{
			name:    "search then match then sort",
			filters: Filters{Search: "go", Match: map[string]string{"category": "go"}, SortKey: "title"},
			want:    []string{"1", "3", "4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := sampleItems()
			got := Apply(items, tt.filters, itemSpec)
			assert.Equal(t, tt.want, ids(got))
			assert.Equal(t, sampleItems(), items, "items must not be modified")
			assert.Equal(t, got, Apply(items, tt.filters, itemSpec), "same inputs give same output")
		})
	}
}

func TestSetSortToggles(t *testing.T) {
	s := NewStore(itemSpec, time.Second)
	defer s.Close()

	require.NoError(t, s.SetSort("views"))
	assert.False(t, s.Snapshot().Filters.SortDesc)

	require.NoError(t, s.SetSort("views"))
	assert.True(t, s.Snapshot().Filters.SortDesc)

	require.NoError(t, s.SetSort("title"))
	f := s.Snapshot().Filters
	assert.Equal(t, "title", f.SortKey)
	assert.False(t, f.SortDesc)

	assert.ErrorIs(t, s.SetSort("rating"), ErrUnknownSortKey)
}

func TestStateMachine(t *testing.T) {
	s := NewStore(itemSpec, time.Second)
	defer s.Close()

	assert.Equal(t, StatusIdle, s.Status())
	assert.ErrorIs(t, s.BeginMutation(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Loaded(nil), ErrInvalidTransition)

	require.NoError(t, s.BeginLoad())
	assert.ErrorIs(t, s.BeginLoad(), ErrInvalidTransition)
	require.NoError(t, s.Loaded(sampleItems()))
	assert.Equal(t, StatusLoaded, s.Status())
	assert.Len(t, s.Snapshot().Filtered, 4)

	require.NoError(t, s.BeginMutation())
	assert.ErrorIs(t, s.BeginLoad(), ErrInvalidTransition)
	require.NoError(t, s.EndMutation(nil))
	assert.Equal(t, StatusLoaded, s.Status())

	require.NoError(t, s.BeginMutation())
	require.NoError(t, s.EndMutation(errors.New("write failed")))
	state := s.Snapshot()
	assert.Equal(t, StatusError, state.Status)
	assert.Equal(t, "write failed", state.Error)
	assert.Equal(t, "write failed", state.Banner)

	require.NoError(t, s.BeginLoad())
	require.NoError(t, s.Loaded(nil))
	assert.Nil(t, s.Snapshot().Err)
}

func TestFailWithoutError(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(s *Store[item]) error
		wantErr error
		want    Status
	}{
		{
			name: "mutation ends loaded",
			prepare: func(s *Store[item]) error {
				if err := s.BeginLoad(); err != nil {
					return err
				}
				if err := s.Loaded(sampleItems()); err != nil {
					return err
				}
				return s.BeginMutation()
			},
			want: StatusLoaded,
		},
		{
			name:    "loading is not a mutation",
			prepare: func(s *Store[item]) error { return s.BeginLoad() },
			wantErr: ErrInvalidTransition,
			want:    StatusLoading,
		},
		{
			name:    "idle",
			prepare: func(*Store[item]) error { return nil },
			wantErr: ErrInvalidTransition,
			want:    StatusIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(itemSpec, time.Second)
			defer s.Close()
			require.NoError(t, tt.prepare(s))

			err := s.Fail(nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			state := s.Snapshot()
			assert.Equal(t, tt.want, state.Status)
			assert.Empty(t, state.Banner)
			assert.Nil(t, state.Err)
		})
	}
}

func TestFiltersRecomputeOnChange(t *testing.T) {
	s := NewStore(itemSpec, time.Second)
	defer s.Close()

	require.NoError(t, s.BeginLoad())
	require.NoError(t, s.Loaded(sampleItems()))

	require.NoError(t, s.SetMatch("category", "go"))
	require.NoError(t, s.SetSearch("generics"))
	assert.Equal(t, []string{"3"}, ids(s.Snapshot().Filtered))

	require.NoError(t, s.SetSearch(""))
	require.NoError(t, s.SetMatch("category", ""))
	assert.Len(t, s.Snapshot().Filtered, 4)

	require.NoError(t, s.Sync(sampleItems()[:1]))
	state := s.Snapshot()
	assert.Equal(t, 1, state.Total)
	assert.Equal(t, []string{"1"}, ids(state.Filtered))
}

func TestBannerClearsAfterTTL(t *testing.T) {
	s := NewStore(itemSpec, 50*time.Millisecond)
	defer s.Close()

	require.NoError(t, s.BeginLoad())
	require.NoError(t, s.Fail(errors.New("network down")))
	assert.Equal(t, "network down", s.Snapshot().Banner)

	require.Eventually(t, func() bool {
		return s.Snapshot().Banner == ""
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, StatusError, s.Status())
}

func TestWatchStreamsLatestState(t *testing.T) {
	s := NewStore(itemSpec, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	states, err := s.Watch(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, (<-states).Status)

	require.NoError(t, s.BeginLoad())
	require.NoError(t, s.Loaded(sampleItems()))
	require.NoError(t, s.SetSearch("rust"))

	latest := <-states
	assert.Equal(t, []string{"2"}, ids(latest.Filtered))

	s.Close()
	_, ok := <-states
	assert.False(t, ok)
	assert.ErrorIs(t, s.SetSearch("x"), ErrClosed)
	_, err = s.Watch(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}
