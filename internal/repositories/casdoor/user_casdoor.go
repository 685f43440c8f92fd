package casdoor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/SAP-F-2025/learnhub-service/internal/cache"
	"github.com/SAP-F-2025/learnhub-service/internal/config"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
)

// userClient is the part of the Casdoor SDK client the directory reads through
type userClient interface {
	GetUserByUserId(userId string) (*casdoorsdk.User, error)
	GetUserByEmail(email string) (*casdoorsdk.User, error)
	GetPaginationUsers(p int, pageSize int, queryMap map[string]string) ([]*casdoorsdk.User, int, error)
}

// UserCasdoor reads identities from Casdoor. Lookups are cached under the
// user: prefix; the cache is optional.
type UserCasdoor struct {
	client userClient
	cache  *cache.CacheHelper
	ttl    time.Duration
	logger *slog.Logger
}

func NewUserCasdoor(cfg config.CasdoorConfig, cm *cache.CacheManager, logger *slog.Logger) *UserCasdoor {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)
	return newUserCasdoor(client, cm, logger)
}

func newUserCasdoor(client userClient, cm *cache.CacheManager, logger *slog.Logger) *UserCasdoor {
	var helper *cache.CacheHelper
	if cm != nil {
		helper = cm.User
	}
	return &UserCasdoor{
		client: client,
		cache:  helper,
		ttl:    cache.UserCacheConfig.TTL,
		logger: logger,
	}
}

var _ repositories.IdentityDirectory = (*UserCasdoor)(nil)

// ===== CACHE METHODS =====

func (u *UserCasdoor) fromCache(ctx context.Context, key string) *models.User {
	var user models.User
	if err := u.cache.Get(ctx, key, &user); err != nil {
		if !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheNotAvailable) {
			u.logger.Warn("Failed to read cached identity", "key", key, "error", err)
		}
		return nil
	}
	return &user
}

func (u *UserCasdoor) remember(ctx context.Context, user *models.User) {
	for _, key := range []string{"id:" + user.ID, "email:" + user.Email} {
		if err := u.cache.Set(ctx, key, user, u.ttl); err != nil {
			u.logger.Warn("Failed to cache identity", "key", key, "error", err)
		}
	}
}

// ===== CONVERSION METHODS =====

// convertCasdoorUserToModel converts Casdoor user to internal model
func convertCasdoorUserToModel(casdoorUser *casdoorsdk.User) *models.User {
	if casdoorUser == nil {
		return nil
	}

	var createdAt, updatedAt time.Time
	if casdoorUser.CreatedTime != "" {
		createdAt, _ = time.Parse(time.RFC3339, casdoorUser.CreatedTime)
	}
	if casdoorUser.UpdatedTime != "" {
		updatedAt, _ = time.Parse(time.RFC3339, casdoorUser.UpdatedTime)
	}

	return &models.User{
		ID:        casdoorUser.Id,
		Name:      casdoorUser.DisplayName,
		Email:     casdoorUser.Email,
		Role:      convertCasdoorRoles(casdoorUser),
		PhotoURL:  casdoorUser.Avatar,
		Phone:     casdoorUser.Phone,
		Address:   strings.Join(casdoorUser.Address, ", "),
		JoinedAt:  createdAt,
		UpdatedAt: updatedAt,
	}
}

// convertCasdoorRoles picks admin over teacher over learner
func convertCasdoorRoles(casdoorUser *casdoorsdk.User) models.UserRole {
	roles := make([]models.UserRole, 0, len(casdoorUser.Roles))
	for _, role := range casdoorUser.Roles {
		if role != nil {
			roles = append(roles, mapCasdoorRole(role.Name))
		}
	}

	switch {
	case casdoorUser.IsAdmin || slices.Contains(roles, models.RoleAdmin):
		return models.RoleAdmin
	case slices.Contains(roles, models.RoleTeacher):
		return models.RoleTeacher
	default:
		return models.RoleLearner
	}
}

func mapCasdoorRole(name string) models.UserRole {
	switch strings.ToLower(name) {
	case "teacher", "instructor":
		return models.RoleTeacher
	case "admin", "administrator":
		return models.RoleAdmin
	default:
		return models.RoleLearner
	}
}

// ===== READ OPERATIONS =====

// GetByID retrieves an identity by Casdoor user id
func (u *UserCasdoor) GetByID(ctx context.Context, id string) (*models.User, error) {
	if cached := u.fromCache(ctx, "id:"+id); cached != nil {
		return cached, nil
	}

	casdoorUser, err := u.client.GetUserByUserId(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}

	user := convertCasdoorUserToModel(casdoorUser)
	u.remember(ctx, user)
	return user, nil
}

// GetByEmail retrieves an identity by email
func (u *UserCasdoor) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if cached := u.fromCache(ctx, "email:"+email); cached != nil {
		return cached, nil
	}

	casdoorUser, err := u.client.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user with email %s: %w", email, store.ErrNotFound)
	}

	user := convertCasdoorUserToModel(casdoorUser)
	u.remember(ctx, user)
	return user, nil
}

// List retrieves one page of identities. Role filtering happens after the
// page is fetched, so a page may hold fewer than Limit users.
func (u *UserCasdoor) List(ctx context.Context, filters repositories.UserFilters) ([]models.User, int64, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	queryMap := make(map[string]string)
	if filters.Query != "" {
		queryMap["field"] = "email"
		queryMap["value"] = filters.Query
	}

	casdoorUsers, count, err := u.client.GetPaginationUsers(1, limit, queryMap)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get users from Casdoor: %w", err)
	}

	users := make([]models.User, 0, len(casdoorUsers))
	for _, casdoorUser := range casdoorUsers {
		user := convertCasdoorUserToModel(casdoorUser)
		if user == nil {
			continue
		}
		u.remember(ctx, user)
		if filters.Role != "" && user.Role != filters.Role {
			continue
		}
		users = append(users, *user)
	}

	return users, int64(count), nil
}
