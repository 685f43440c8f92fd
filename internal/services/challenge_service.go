package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

type challengeService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewChallengeService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ChallengeService {
	return &challengeService{repo: repo, logger: logger, validator: validator}
}

func (s *challengeService) Create(ctx context.Context, actor Actor, req *CreateChallengeRequest) (*models.Challenge, error) {
	s.logger.Info("Creating challenge", "uploader_id", actor.ID, "title", req.Title)

	if !actor.CanAuthor() {
		return nil, NewPermissionError(actor.ID, "", "challenge", "create", "only teachers and admins publish challenges")
	}
	if errors := s.validator.Struct(req); len(errors) > 0 {
		return nil, errors
	}
	if _, err := s.repo.Category().GetByID(ctx, req.CategoryID); err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}

	challenge := &models.Challenge{
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Topic:         req.Topic,
		ProblemURL:    req.ProblemURL,
		SolutionURL:   req.SolutionURL,
		UploaderID:    actor.ID,
	}
	if err := s.repo.Challenge().Create(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	s.logger.Info("Challenge created successfully", "challenge_id", challenge.ID)
	return s.GetByID(ctx, challenge.ID)
}

func (s *challengeService) GetByID(ctx context.Context, id string) (*models.Challenge, error) {
	challenge, err := s.repo.Challenge().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrChallengeNotFound)
	}
	return challenge, nil
}

func (s *challengeService) List(ctx context.Context, filters repositories.ChallengeFilters) ([]models.Challenge, error) {
	if filters.OrderBy == "" {
		filters.OrderBy = "created_at"
		filters.Desc = true
	}
	challenges, err := s.repo.Challenge().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return challenges, nil
}

func (s *challengeService) Update(ctx context.Context, actor Actor, id string, req *UpdateChallengeRequest) (*models.Challenge, error) {
	challenge, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(challenge.UploaderID) {
		return nil, NewPermissionError(actor.ID, id, "challenge", "update", "not the uploader")
	}
	if errors := s.validator.Struct(req); len(errors) > 0 {
		return nil, errors
	}

	update := repositories.ChallengeUpdate{
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Topic:         req.Topic,
		ProblemURL:    req.ProblemURL,
		SolutionURL:   req.SolutionURL,
	}
	if err := s.repo.Challenge().Update(ctx, id, update); err != nil {
		return nil, notFound(err, ErrChallengeNotFound)
	}
	return s.GetByID(ctx, id)
}

func (s *challengeService) Delete(ctx context.Context, actor Actor, id string) error {
	challenge, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Owns(challenge.UploaderID) {
		return NewPermissionError(actor.ID, id, "challenge", "delete", "not the uploader")
	}
	if err := s.repo.Challenge().Delete(ctx, id); err != nil {
		return notFound(err, ErrChallengeNotFound)
	}
	s.logger.Info("Challenge deleted", "challenge_id", id, "actor_id", actor.ID)
	return nil
}
