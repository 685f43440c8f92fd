package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/learnhub-service/internal/cache"
)

// CachedStore serves Get from Redis. Every write through it drops the cached
// copy, and since the cache is shared across instances so is the invalidation.
type CachedStore struct {
	DocumentStore
	cache  *cache.CacheManager
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedStore decorates inner. A zero ttl uses the document cache default.
func NewCachedStore(inner DocumentStore, cm *cache.CacheManager, ttl time.Duration, logger *slog.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = cache.DocCacheConfig.TTL
	}
	return &CachedStore{
		DocumentStore: inner,
		cache:         cm,
		ttl:           ttl,
		logger:        logger,
	}
}

func (s *CachedStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	key := cache.DocKey(collection, id)

	var cached Document
	err := s.cache.Docs.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheNotAvailable) {
		s.logger.Warn("Document cache read failed", "collection", collection, "id", id, "error", err)
	}

	doc, err := s.DocumentStore.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Docs.Set(ctx, key, doc, s.ttl); err != nil {
		s.logger.Warn("Document cache write failed", "collection", collection, "id", id, "error", err)
	}
	return doc, nil
}

func (s *CachedStore) Create(ctx context.Context, collection string, data Data) (string, error) {
	id, err := s.DocumentStore.Create(ctx, collection, data)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx, collection, id)
	return id, nil
}

func (s *CachedStore) Set(ctx context.Context, collection, id string, data Data) error {
	defer s.invalidate(ctx, collection, id)
	return s.DocumentStore.Set(ctx, collection, id, data)
}

func (s *CachedStore) Update(ctx context.Context, collection, id string, patch Patch) error {
	defer s.invalidate(ctx, collection, id)
	return s.DocumentStore.Update(ctx, collection, id, patch)
}

func (s *CachedStore) Transform(ctx context.Context, collection, id string, fn Mutator) (*Document, error) {
	defer s.invalidate(ctx, collection, id)
	return s.DocumentStore.Transform(ctx, collection, id, fn)
}

func (s *CachedStore) Delete(ctx context.Context, collection, id string) error {
	defer s.invalidate(ctx, collection, id)
	return s.DocumentStore.Delete(ctx, collection, id)
}

func (s *CachedStore) invalidate(ctx context.Context, collection, id string) {
	cache.InvalidateDocument(ctx, s.cache, collection, id)
}
