package docstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/learnhub-service/internal/mapper"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
)

type DashboardRepository struct {
	store  store.DocumentStore
	logger *slog.Logger
}

func NewDashboardRepository(s store.DocumentStore, logger *slog.Logger) *DashboardRepository {
	return &DashboardRepository{store: s, logger: logger}
}

func (r *DashboardRepository) Count(ctx context.Context, collection string) (int, error) {
	docs, err := r.store.List(ctx, collection, store.Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return len(docs), nil
}

func (r *DashboardRepository) UsersByRole(ctx context.Context) (map[models.UserRole]int, error) {
	docs, err := r.store.List(ctx, repositories.CollectionUsers, store.Query{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users, skipped := mapper.MapList(docs, mapper.ToUser)
	if skipped > 0 {
		r.logger.Warn("Skipped malformed users", "skipped", skipped)
	}
	return mapper.CountByRole(users), nil
}

func (r *DashboardRepository) Monthly(ctx context.Context, collection, field string) ([]models.MonthlyCount, int, error) {
	docs, err := r.store.List(ctx, collection, store.Query{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	counts, skipped := mapper.MonthlyCounts(docs, field)
	return counts, skipped, nil
}
