package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/learnhub-service/internal/events"
)

// MemoryStore keeps every collection in process. It is the store used by
// tests and single-instance development deployments.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	hub         *Notifier
	now         func() time.Time
}

// NewMemoryStore creates an empty store. feed may be nil.
func NewMemoryStore(feed events.Feed, logger *slog.Logger) (*MemoryStore, error) {
	hub, err := NewNotifier(feed, logger)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
		hub:         hub,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *MemoryStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := validatePath(collection); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.mu.RLock()
	docs := make([]Document, 0, len(s.collections[collection]))
	for _, doc := range s.collections[collection] {
		docs = append(docs, copyDocument(doc))
	}
	s.mu.RUnlock()

	return Run(docs, q), nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := validatePath(collection); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	out := copyDocument(doc)
	return &out, nil
}

func (s *MemoryStore) Create(ctx context.Context, collection string, data Data) (string, error) {
	id := uuid.New().String()
	if err := s.write(ctx, collection, id, func(existing *Document, now time.Time) (*Document, error) {
		return &Document{
			ID:         id,
			Collection: collection,
			Data:       ResolveData(data, now),
			CreateTime: now,
			UpdateTime: now,
		}, nil
	}); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, data Data) error {
	return s.write(ctx, collection, id, func(existing *Document, now time.Time) (*Document, error) {
		created := now
		if existing != nil {
			created = existing.CreateTime
		}
		return &Document{
			ID:         id,
			Collection: collection,
			Data:       ResolveData(data, now),
			CreateTime: created,
			UpdateTime: now,
		}, nil
	})
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, patch Patch) error {
	return s.write(ctx, collection, id, func(existing *Document, now time.Time) (*Document, error) {
		if existing == nil {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
		}
		next := *existing
		next.Data = ApplyPatch(existing.Data, patch, now)
		next.UpdateTime = now
		return &next, nil
	})
}

func (s *MemoryStore) Transform(ctx context.Context, collection, id string, fn Mutator) (*Document, error) {
	var result Document
	err := s.write(ctx, collection, id, func(existing *Document, now time.Time) (*Document, error) {
		if existing == nil {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
		}
		data, err := fn(CloneData(existing.Data))
		if err != nil {
			return nil, err
		}
		next := *existing
		next.Data = ResolveData(data, now)
		next.UpdateTime = now
		result = copyDocument(next)
		return &next, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	return s.write(ctx, collection, id, func(existing *Document, _ time.Time) (*Document, error) {
		return nil, nil
	})
}

// write runs fn under the store lock. A nil document from fn deletes the entry.
func (s *MemoryStore) write(ctx context.Context, collection, id string, fn func(existing *Document, now time.Time) (*Document, error)) error {
	if err := validatePath(collection); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: empty document id", ErrInvalidPath)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.mu.Lock()
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]Document)
		s.collections[collection] = docs
	}

	var existing *Document
	if doc, found := docs[id]; found {
		existing = &doc
	}

	next, err := fn(existing, s.now())
	if err != nil {
		s.mu.Unlock()
		return err
	}

	var kind events.ChangeKind
	switch {
	case next == nil && existing == nil:
		s.mu.Unlock()
		return nil
	case next == nil:
		delete(docs, id)
		kind = events.ChangeDeleted
	case existing == nil:
		docs[id] = *next
		kind = events.ChangeCreated
	default:
		docs[id] = *next
		kind = events.ChangeUpdated
	}
	s.mu.Unlock()

	s.hub.Publish(ctx, collection, id, kind)
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, collection string, q Query) (<-chan Snapshot, error) {
	if err := validatePath(collection); err != nil {
		return nil, err
	}
	return s.hub.Watch(ctx, collection, "", func(ctx context.Context) ([]Document, error) {
		return s.List(ctx, collection, q)
	})
}

func (s *MemoryStore) SubscribeDoc(ctx context.Context, collection, id string) (<-chan Snapshot, error) {
	if err := validatePath(collection); err != nil {
		return nil, err
	}
	return s.hub.Watch(ctx, collection, id, func(ctx context.Context) ([]Document, error) {
		doc, err := s.Get(ctx, collection, id)
		if err != nil {
			if IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return []Document{*doc}, nil
	})
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close() error {
	s.hub.Close()
	return nil
}

func copyDocument(doc Document) Document {
	doc.Data = CloneData(doc.Data)
	return doc
}
