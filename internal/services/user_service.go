package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{repo: repo, logger: logger, validator: validator}
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) ([]models.User, error) {
	users, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) Directory(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	identity := s.repo.Identity()
	if identity == nil {
		users, err := s.List(ctx, filters)
		if err != nil {
			return nil, err
		}
		return &UserListResponse{Users: users, Total: int64(len(users))}, nil
	}

	users, total, err := identity.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	return &UserListResponse{Users: users, Total: total}, nil
}

// UpdateProfile changes contact fields. The role is fixed at sign-up and a
// request carrying one is rejected as a whole.
func (s *userService) UpdateProfile(ctx context.Context, actor Actor, id string, req *UpdateProfileRequest) (*models.User, error) {
	s.logger.Info("Updating profile", "user_id", id, "actor_id", actor.ID)

	if !actor.Owns(id) {
		return nil, NewPermissionError(actor.ID, id, "user", "update", "not the profile owner")
	}
	if errors := s.validator.GetBusinessValidator().ValidateProfileUpdate(req); len(errors) > 0 {
		return nil, errors
	}

	update := repositories.UserProfileUpdate{
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := s.repo.User().UpdateProfile(ctx, id, update); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	return s.GetByID(ctx, id)
}

func (s *userService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return NewPermissionError(actor.ID, id, "user", "delete", "admin only")
	}
	if err := s.repo.User().Delete(ctx, id); err != nil {
		return notFound(err, ErrUserNotFound)
	}
	s.logger.Info("User deleted", "user_id", id, "actor_id", actor.ID)
	return nil
}

func (s *userService) ListPreferences(ctx context.Context, userID string) ([]models.Preference, error) {
	prefs, err := s.repo.Preference().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	return prefs, nil
}

func (s *userService) AddPreference(ctx context.Context, actor Actor, categoryID string) error {
	if _, err := s.repo.Category().GetByID(ctx, categoryID); err != nil {
		return notFound(err, ErrCategoryNotFound)
	}
	return s.repo.Preference().Add(ctx, actor.ID, categoryID)
}

func (s *userService) RemovePreference(ctx context.Context, actor Actor, categoryID string) error {
	return s.repo.Preference().Remove(ctx, actor.ID, categoryID)
}
