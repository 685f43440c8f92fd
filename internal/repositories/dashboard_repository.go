package repositories

import (
	"context"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
)

// DashboardRepository computes aggregates over whole collections
type DashboardRepository interface {
	Count(ctx context.Context, collection string) (int, error)
	UsersByRole(ctx context.Context) (map[models.UserRole]int, error)
	// Monthly groups a collection by the month of field; skipped counts
	// documents whose date could not be read
	Monthly(ctx context.Context, collection, field string) (counts []models.MonthlyCount, skipped int, err error)
}
