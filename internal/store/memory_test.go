package store

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/learnhub-service/internal/events"
)

func newMemoryStore(t *testing.T, feed events.Feed) *MemoryStore {
	t.Helper()
	s, err := NewMemoryStore(feed, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMemoryStoreCRUD(t *testing.T) {
	s := newMemoryStore(t, nil)
	ctx := context.Background()

	id, err := s.Create(ctx, "videos", Data{"title": "Intro to Go", "views": 0})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := s.Get(ctx, "videos", id)
	require.NoError(t, err)
	assert.Equal(t, "Intro to Go", doc.Data["title"])
	assert.False(t, doc.CreateTime.IsZero())

	require.NoError(t, s.Update(ctx, "videos", id, Patch{"title": "Go basics"}))
	doc, err = s.Get(ctx, "videos", id)
	require.NoError(t, err)
	assert.Equal(t, "Go basics", doc.Data["title"])

	require.NoError(t, s.Delete(ctx, "videos", id))
	_, err = s.Get(ctx, "videos", id)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting a missing document is not an error
	assert.NoError(t, s.Delete(ctx, "videos", id))
}

func TestMemoryStoreSetKeepsCreateTime(t *testing.T) {
	s := newMemoryStore(t, nil)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "users", "u1", Data{"name": "Ada"}))
	first, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "users", "u1", Data{"name": "Ada L."}))
	second, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)

	assert.Equal(t, first.CreateTime, second.CreateTime)
	assert.Equal(t, "Ada L.", second.Data["name"])
}

func TestMemoryStoreErrors(t *testing.T) {
	s := newMemoryStore(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{
			name: "get missing",
			run: func() error {
				_, err := s.Get(ctx, "videos", "nope")
				return err
			},
			want: ErrNotFound,
		},
		{
			name: "update missing",
			run:  func() error { return s.Update(ctx, "videos", "nope", Patch{"a": 1}) },
			want: ErrNotFound,
		},
		{
			name: "document path used as collection",
			run: func() error {
				_, err := s.List(ctx, "videos/v1", Query{})
				return err
			},
			want: ErrInvalidPath,
		},
		{
			name: "empty segment",
			run:  func() error { return s.Set(ctx, "videos//comments", "c1", Data{}) },
			want: ErrInvalidPath,
		},
		{
			name: "cancelled context",
			run: func() error {
				cctx, cancel := context.WithCancel(ctx)
				cancel()
				_, err := s.List(cctx, "videos", Query{})
				return err
			},
			want: ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.want)
		})
	}
}

func TestMemoryStoreSubCollections(t *testing.T) {
	s := newMemoryStore(t, nil)
	ctx := context.Background()

	comments := Path("videos", "v1", "comments")
	_, err := s.Create(ctx, comments, Data{"text": "nice"})
	require.NoError(t, err)
	_, err = s.Create(ctx, Path("videos", "v2", "comments"), Data{"text": "meh"})
	require.NoError(t, err)

	docs, err := s.List(ctx, comments, Query{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "nice", docs[0].Data["text"])
	assert.Equal(t, "videos", RootCollection(comments))
}

func TestMemoryStoreTransform(t *testing.T) {
	s := newMemoryStore(t, nil)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "videos", "v1", Data{"views": int64(1)}))

	doc, err := s.Transform(ctx, "videos", "v1", func(current Data) (Data, error) {
		current["views"] = current["views"].(int64) + 10
		return current, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), doc.Data["views"])

	// the returned document is a copy
	doc.Data["views"] = int64(0)
	stored, err := s.Get(ctx, "videos", "v1")
	require.NoError(t, err)
	assert.Equal(t, int64(11), stored.Data["views"])
}

func TestMemoryStoreToggleIsOneWrite(t *testing.T) {
	feed := events.NewInMemoryFeed(slog.Default())
	t.Cleanup(func() { _ = feed.Close() })
	s := newMemoryStore(t, feed)
	ctx := context.Background()

	changes, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "videos", "v1", Data{"like_count": 0, "liked_by": []any{}}))
	<-changes

	require.NoError(t, s.Update(ctx, "videos", "v1", Patch{
		"like_count": Increment(1),
		"liked_by":   ArrayUnion("u1"),
	}))

	select {
	case event := <-changes:
		assert.Equal(t, events.ChangeUpdated, event.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("no change event")
	}
	select {
	case event := <-changes:
		t.Fatalf("unexpected second change event %+v", event)
	case <-time.After(100 * time.Millisecond):
	}

	doc, err := s.Get(ctx, "videos", "v1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.Data["like_count"])
	assert.Equal(t, []any{"u1"}, doc.Data["liked_by"])
}
