package repositories

import (
	"context"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Role  models.UserRole
	Query string // Search query for name or email, identity directory only
	ListOptions
}

type UserProfileUpdate struct {
	Name     *string `json:"name"`
	PhotoURL *string `json:"photo_url"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

// UserRepository stores the profile documents the application owns
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, update UserProfileUpdate) error
	Delete(ctx context.Context, id string) error
	Watch(ctx context.Context, filters UserFilters) (<-chan Snapshot[models.User], error)
}

// IdentityDirectory reads identities from the external identity provider.
// The application never writes to it.
type IdentityDirectory interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]models.User, int64, error)
}
