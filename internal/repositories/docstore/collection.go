package docstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/learnhub-service/internal/mapper"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
)

// collection reads one record type out of the document store
type collection[T any] struct {
	store  store.DocumentStore
	logger *slog.Logger
	name   string
	to     func(store.Document) (T, error)
}

func newCollection[T any](s store.DocumentStore, logger *slog.Logger, name string, to func(store.Document) (T, error)) collection[T] {
	return collection[T]{store: s, logger: logger, name: name, to: to}
}

func (c collection[T]) get(ctx context.Context, path, id string) (*T, error) {
	doc, err := c.store.Get(ctx, path, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", c.name, id, err)
	}
	record, err := c.to(*doc)
	if err != nil {
		return nil, fmt.Errorf("failed to map %s %s: %w", c.name, id, err)
	}
	return &record, nil
}

// list maps every document of the query, leaving out the malformed ones
func (c collection[T]) list(ctx context.Context, path string, q store.Query) ([]T, error) {
	docs, err := c.store.List(ctx, path, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.name, err)
	}
	records, skipped := mapper.MapList(docs, c.to)
	if skipped > 0 {
		c.logger.Warn("Skipped malformed documents", "collection", path, "skipped", skipped)
	}
	return records, nil
}

// first returns the first match of q or store.ErrNotFound
func (c collection[T]) first(ctx context.Context, path string, q store.Query) (*T, error) {
	q.Limit = 1
	records, err := c.list(ctx, path, q)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", c.name, store.ErrNotFound)
	}
	return &records[0], nil
}

func (c collection[T]) watch(ctx context.Context, path string, q store.Query) (<-chan repositories.Snapshot[T], error) {
	snapshots, err := c.store.Subscribe(ctx, path, q)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", c.name, err)
	}
	return c.forward(ctx, snapshots), nil
}

// watchDoc streams one document; a deleted document arrives as an empty snapshot
func (c collection[T]) watchDoc(ctx context.Context, path, id string) (<-chan repositories.Snapshot[T], error) {
	snapshots, err := c.store.SubscribeDoc(ctx, path, id)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s %s: %w", c.name, id, err)
	}
	return c.forward(ctx, snapshots), nil
}

func (c collection[T]) forward(ctx context.Context, in <-chan store.Snapshot) <-chan repositories.Snapshot[T] {
	out := make(chan repositories.Snapshot[T], 1)
	go func() {
		defer close(out)
		for snap := range in {
			next := repositories.Snapshot[T]{ReadTime: snap.ReadTime, Err: snap.Err}
			if snap.Err == nil {
				next.Items, next.Skipped = mapper.MapList(snap.Docs, c.to)
			}
			select {
			case out <- next:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// listQuery applies list options on top of base
func listQuery(base store.Query, opts repositories.ListOptions) store.Query {
	if opts.OrderBy != "" {
		base = base.Order(opts.OrderBy, opts.Desc)
	}
	if opts.Limit > 0 {
		base.Limit = opts.Limit
	}
	return base
}

// patch collects the non-nil fields of an update
type patch store.Patch

func (p patch) setString(field string, value *string) {
	if value != nil {
		p[field] = *value
	}
}
