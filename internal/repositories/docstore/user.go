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

type UserRepository struct {
	store store.DocumentStore
	users collection[models.User]
}

func NewUserRepository(s store.DocumentStore, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		store: s,
		users: newCollection(s, logger, "user", mapper.ToUser),
	}
}

// Create stores a profile under the identity provider's user id
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = mapper.DefaultRole
	}
	data := mapper.FromUser(*user)
	if user.ID == "" {
		id, err := r.store.Create(ctx, repositories.CollectionUsers, data)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		user.ID = id
		return nil
	}
	if err := r.store.Set(ctx, repositories.CollectionUsers, user.ID, data); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.ID, err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.users.get(ctx, repositories.CollectionUsers, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.users.first(ctx, repositories.CollectionUsers, store.Where(mapper.FieldEmail, email))
}

func (r *UserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]models.User, error) {
	return r.users.list(ctx, repositories.CollectionUsers, userQuery(filters))
}

// UpdateProfile writes the contact fields; role is not part of the update
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update repositories.UserProfileUpdate) error {
	p := patch{mapper.FieldUpdatedAt: store.ServerTimestamp()}
	p.setString(mapper.FieldName, update.Name)
	p.setString(mapper.FieldPhotoURL, update.PhotoURL)
	p.setString(mapper.FieldPhone, update.Phone)
	p.setString(mapper.FieldAddress, update.Address)

	if err := r.store.Update(ctx, repositories.CollectionUsers, id, store.Patch(p)); err != nil {
		return fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, repositories.CollectionUsers, id); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

func (r *UserRepository) Watch(ctx context.Context, filters repositories.UserFilters) (<-chan repositories.Snapshot[models.User], error) {
	return r.users.watch(ctx, repositories.CollectionUsers, userQuery(filters))
}

func userQuery(filters repositories.UserFilters) store.Query {
	var q store.Query
	if filters.Role != "" {
		q = q.And(mapper.FieldRole, string(filters.Role))
	}
	return listQuery(q, filters.ListOptions)
}

type PreferenceRepository struct {
	store       store.DocumentStore
	preferences collection[models.Preference]
}

func NewPreferenceRepository(s store.DocumentStore, logger *slog.Logger) *PreferenceRepository {
	return &PreferenceRepository{
		store:       s,
		preferences: newCollection(s, logger, "preference", mapper.ToPreference),
	}
}

func (r *PreferenceRepository) List(ctx context.Context, userID string) ([]models.Preference, error) {
	return r.preferences.list(ctx, repositories.PreferencesPath(userID), store.Query{})
}

// Add keys the preference by category so adding twice keeps one entry
func (r *PreferenceRepository) Add(ctx context.Context, userID, categoryID string) error {
	data := mapper.FromPreference(models.Preference{UserID: userID, CategoryID: categoryID})
	if err := r.store.Set(ctx, repositories.PreferencesPath(userID), categoryID, data); err != nil {
		return fmt.Errorf("failed to add preference %s for user %s: %w", categoryID, userID, err)
	}
	return nil
}

func (r *PreferenceRepository) Remove(ctx context.Context, userID, categoryID string) error {
	if err := r.store.Delete(ctx, repositories.PreferencesPath(userID), categoryID); err != nil {
		return fmt.Errorf("failed to remove preference %s for user %s: %w", categoryID, userID, err)
	}
	return nil
}
