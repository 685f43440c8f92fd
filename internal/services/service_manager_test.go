package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/learnhub-service/internal/config"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories/docstore"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

func TestServiceManagerLifecycle(t *testing.T) {
	s, err := store.NewMemoryStore(nil, slog.Default())
	require.NoError(t, err)
	repos := docstore.NewRepositoryManager(docstore.RepositoryConfig{Store: s, Logger: slog.Default()})
	require.NoError(t, repos.Initialize())

	cfg := ConfigFromApp(&config.Config{CascadeDeletes: true, BannerTTL: time.Second, PageIdleTTL: time.Minute})
	assert.True(t, cfg.CascadeDeletes)

	sm := NewServiceManager(repos, nil, nil, slog.Default(), validator.New(), cfg)
	ctx := context.Background()

	assert.Panics(t, func() { sm.Video() })
	assert.Error(t, sm.HealthCheck(ctx))

	require.NoError(t, sm.Initialize(ctx))
	require.NoError(t, sm.Initialize(ctx))
	assert.NoError(t, sm.HealthCheck(ctx))

	for name, svc := range map[string]any{
		"user": sm.User(), "video": sm.Video(), "comment": sm.Comment(), "challenge": sm.Challenge(),
		"event": sm.Event(), "category": sm.Category(), "roadmap": sm.Roadmap(), "assist": sm.Assist(),
		"dashboard": sm.Dashboard(), "export": sm.Export(), "view": sm.View(),
	} {
		assert.NotNil(t, svc, name)
	}

	require.NoError(t, sm.Shutdown(ctx))
	require.NoError(t, sm.Shutdown(ctx))
	assert.Error(t, sm.HealthCheck(ctx))
	assert.Error(t, sm.Initialize(ctx))
}

func TestServiceManagerRequiresInitializedRepositories(t *testing.T) {
	s, err := store.NewMemoryStore(nil, slog.Default())
	require.NoError(t, err)
	repos := docstore.NewRepositoryManager(docstore.RepositoryConfig{Store: s})

	sm := NewServiceManager(repos, nil, nil, slog.Default(), validator.New(), ServiceManagerConfig{})
	assert.Error(t, sm.Initialize(context.Background()))
}
