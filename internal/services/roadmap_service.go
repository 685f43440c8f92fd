package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/learnhub-service/internal/ai"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

type roadmapService struct {
	repo      repositories.Repository
	ai        ai.Completer
	logger    *slog.Logger
	validator *validator.Validator
}

func NewRoadmapService(repo repositories.Repository, completer ai.Completer, logger *slog.Logger, validator *validator.Validator) RoadmapService {
	return &roadmapService{repo: repo, ai: completer, logger: logger, validator: validator}
}

// Generate asks the AI service for a roadmap towards the goal and stores it.
// When the AI call fails the fallback roadmap is stored instead. A user has
// one roadmap per title, so generating the same goal again replaces its steps.
func (s *roadmapService) Generate(ctx context.Context, actor Actor, req *GenerateRoadmapRequest) (*models.Roadmap, error) {
	if errors := s.validator.Struct(req); len(errors) > 0 {
		return nil, errors
	}
	title := strings.TrimSpace(req.Goal)
	s.logger.Info("Generating roadmap", "user_id", actor.ID, "title", title)

	steps, generated := s.steps(ctx, title, req.Level)

	roadmap := &models.Roadmap{
		UserID:      actor.ID,
		Title:       title,
		Description: description(req.Level),
		Steps:       steps,
		Generated:   generated,
	}

	existing, err := s.repo.Roadmap().FindByTitle(ctx, actor.ID, title)
	switch {
	case err == nil:
		roadmap.ID = existing.ID
		roadmap.CreatedAt = existing.CreatedAt
	case !store.IsNotFound(err):
		return nil, fmt.Errorf("failed to look up roadmap: %w", err)
	}

	if err := s.repo.Roadmap().Save(ctx, roadmap); err != nil {
		return nil, fmt.Errorf("failed to save roadmap: %w", err)
	}

	s.logger.Info("Roadmap saved", "roadmap_id", roadmap.ID, "steps", len(roadmap.Steps), "generated", generated)
	return s.load(ctx, roadmap.ID)
}

func (s *roadmapService) steps(ctx context.Context, goal, level string) ([]models.RoadmapStep, bool) {
	if s.ai == nil {
		return ai.FallbackRoadmap(goal), false
	}
	text, err := s.ai.Complete(ctx, ai.RoadmapPrompt(goal, level))
	if err != nil {
		s.logger.Warn("AI roadmap failed, using fallback", "goal", goal, "error", err)
		return ai.FallbackRoadmap(goal), false
	}
	steps := ai.ParseRoadmap(text)
	if len(steps) == 0 {
		s.logger.Warn("AI roadmap had no steps, using fallback", "goal", goal)
		return ai.FallbackRoadmap(goal), false
	}
	return steps, true
}

func description(level string) string {
	if level == "" {
		level = "beginner"
	}
	return fmt.Sprintf("Roadmap for a %s learner", level)
}

func (s *roadmapService) GetByID(ctx context.Context, actor Actor, id string) (*models.Roadmap, error) {
	roadmap, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(roadmap.UserID) {
		return nil, NewPermissionError(actor.ID, id, "roadmap", "read", "not the owner")
	}
	return roadmap, nil
}

func (s *roadmapService) ListByUser(ctx context.Context, userID string) ([]models.Roadmap, error) {
	roadmaps, err := s.repo.Roadmap().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roadmaps: %w", err)
	}
	return roadmaps, nil
}

// ToggleStep flips one step's completion without rewriting the roadmap
func (s *roadmapService) ToggleStep(ctx context.Context, actor Actor, roadmapID, stepID string) (*models.RoadmapStep, error) {
	if _, err := s.GetByID(ctx, actor, roadmapID); err != nil {
		return nil, err
	}
	step, err := s.repo.Roadmap().ToggleStep(ctx, roadmapID, stepID)
	if err != nil {
		return nil, notFound(err, ErrStepNotFound)
	}
	return step, nil
}

func (s *roadmapService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.GetByID(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Roadmap().Delete(ctx, id); err != nil {
		return notFound(err, ErrRoadmapNotFound)
	}
	s.logger.Info("Roadmap deleted", "roadmap_id", id, "user_id", actor.ID)
	return nil
}

func (s *roadmapService) load(ctx context.Context, id string) (*models.Roadmap, error) {
	roadmap, err := s.repo.Roadmap().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRoadmapNotFound)
	}
	return roadmap, nil
}
