// Package dispatcher runs writes against the document store and keeps a
// page's view state in step with them.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/learnhub-service/internal/viewstate"
)

// Write performs the remote write for a mutation
type Write func(ctx context.Context) error

// Dispatcher applies optimistic patches to a view state store and reverts
// them exactly when the write fails.
type Dispatcher[T any] struct {
	state  *viewstate.Store[T]
	id     func(T) string
	logger *slog.Logger
}

func New[T any](state *viewstate.Store[T], id func(T) string, logger *slog.Logger) *Dispatcher[T] {
	return &Dispatcher[T]{state: state, id: id, logger: logger}
}

// Insert adds record to the front of the list, then writes it
func (d *Dispatcher[T]) Insert(ctx context.Context, record T, write Write) error {
	key := d.id(record)
	return d.optimistic(ctx, "insert", key,
		func(items []T) []T {
			out := make([]T, 0, len(items)+1)
			out = append(out, record)
			for _, item := range items {
				if d.id(item) != key {
					out = append(out, item)
				}
			}
			return out
		},
		write)
}

// Remove splices the record with id out of the list, then deletes it remotely
func (d *Dispatcher[T]) Remove(ctx context.Context, id string, write Write) error {
	return d.optimistic(ctx, "remove", id,
		func(items []T) []T {
			out := make([]T, 0, len(items))
			for _, item := range items {
				if d.id(item) != id {
					out = append(out, item)
				}
			}
			return out
		},
		write)
}

// Replace swaps the record with the same id in place, then writes it
func (d *Dispatcher[T]) Replace(ctx context.Context, record T, write Write) error {
	key := d.id(record)
	return d.optimistic(ctx, "replace", key,
		func(items []T) []T {
			for i, item := range items {
				if d.id(item) == key {
					items[i] = record
				}
			}
			return items
		},
		write)
}

// Reconcile performs a write without touching local items; the page's
// subscription delivers the confirmed state.
func (d *Dispatcher[T]) Reconcile(ctx context.Context, write Write) error {
	if err := d.state.BeginMutation(); err != nil {
		return err
	}
	err := write(ctx)
	if err != nil {
		d.logger.Error("Mutation failed", "error", err)
		if endErr := d.state.EndMutation(err); endErr != nil {
			return fmt.Errorf("%w (state: %v)", err, endErr)
		}
		return err
	}
	return d.state.EndMutation(nil)
}

// optimistic applies patch, runs write and either confirms or restores the
// items exactly as they were before patch.
func (d *Dispatcher[T]) optimistic(ctx context.Context, op, id string, patch func([]T) []T, write Write) error {
	if err := d.state.BeginMutation(); err != nil {
		return err
	}

	var before []T
	if err := d.state.Patch(func(items []T) []T {
		before = append([]T(nil), items...)
		return patch(items)
	}); err != nil {
		return err
	}

	err := write(ctx)
	if err == nil {
		return d.state.EndMutation(nil)
	}

	d.logger.Error("Mutation failed, reverting local change",
		"operation", op,
		"id", id,
		"error", err)

	if revertErr := d.state.Patch(func([]T) []T { return before }); revertErr != nil {
		return fmt.Errorf("%w (revert: %v)", err, revertErr)
	}
	if endErr := d.state.EndMutation(err); endErr != nil {
		return fmt.Errorf("%w (state: %v)", err, endErr)
	}
	return err
}
