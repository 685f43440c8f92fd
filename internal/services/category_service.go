package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

type categoryService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCategoryService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) CategoryService {
	return &categoryService{repo: repo, logger: logger, validator: validator}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.Category().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Create adds a category; names are unique ignoring case
func (s *categoryService) Create(ctx context.Context, actor Actor, req *CreateCategoryRequest) (*models.Category, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, "", "category", "create", "admin only")
	}
	if errors := s.validator.Struct(req); len(errors) > 0 {
		return nil, errors
	}

	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	for _, c := range existing {
		if strings.EqualFold(c.Name, name) {
			return nil, ValidationErrors{*NewValidationError("name", "already exists", name)}
		}
	}

	subs := make([]string, 0, len(req.Subcategories))
	seen := make(map[string]bool, len(req.Subcategories))
	for _, sub := range req.Subcategories {
		sub = strings.TrimSpace(sub)
		if sub == "" || seen[strings.ToLower(sub)] {
			continue
		}
		seen[strings.ToLower(sub)] = true
		subs = append(subs, sub)
	}

	category := &models.Category{Name: name, Subcategories: subs}
	if err := s.repo.Category().Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("Category created", "category_id", category.ID, "name", name)
	stored, err := s.repo.Category().GetByID(ctx, category.ID)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return stored, nil
}

func (s *categoryService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return NewPermissionError(actor.ID, id, "category", "delete", "admin only")
	}
	if err := s.repo.Category().Delete(ctx, id); err != nil {
		return notFound(err, ErrCategoryNotFound)
	}
	return nil
}
