package docstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/learnhub-service/internal/mapper"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
)

var byOrder = store.Query{}.Order(mapper.FieldOrder, false)

type RoadmapRepository struct {
	store    store.DocumentStore
	roadmaps collection[models.Roadmap]
	steps    collection[models.RoadmapStep]
}

func NewRoadmapRepository(s store.DocumentStore, logger *slog.Logger) *RoadmapRepository {
	return &RoadmapRepository{
		store:    s,
		roadmaps: newCollection(s, logger, "roadmap", mapper.ToRoadmap),
		steps:    newCollection(s, logger, "roadmap step", mapper.ToRoadmapStep),
	}
}

func (r *RoadmapRepository) FindByTitle(ctx context.Context, userID, title string) (*models.Roadmap, error) {
	q := store.Where(mapper.FieldUserID, userID).And(mapper.FieldTitle, title)
	roadmap, err := r.roadmaps.first(ctx, repositories.CollectionRoadmaps, q)
	if err != nil {
		return nil, err
	}
	return r.withSteps(ctx, roadmap)
}

func (r *RoadmapRepository) GetByID(ctx context.Context, id string) (*models.Roadmap, error) {
	roadmap, err := r.roadmaps.get(ctx, repositories.CollectionRoadmaps, id)
	if err != nil {
		return nil, err
	}
	return r.withSteps(ctx, roadmap)
}

func (r *RoadmapRepository) ListByUser(ctx context.Context, userID string) ([]models.Roadmap, error) {
	q := store.Where(mapper.FieldUserID, userID).Order(mapper.FieldUpdatedAt, true)
	roadmaps, err := r.roadmaps.list(ctx, repositories.CollectionRoadmaps, q)
	if err != nil {
		return nil, err
	}
	for i := range roadmaps {
		steps, err := r.steps.list(ctx, repositories.StepsPath(roadmaps[i].ID), byOrder)
		if err != nil {
			return nil, err
		}
		roadmaps[i].Steps = steps
	}
	return roadmaps, nil
}

// Save upserts the parent document, then writes every step and removes
// steps that are no longer part of the roadmap
func (r *RoadmapRepository) Save(ctx context.Context, roadmap *models.Roadmap) error {
	data := mapper.FromRoadmap(*roadmap)
	data[mapper.FieldCreatedAt] = roadmap.CreatedAt
	if roadmap.CreatedAt.IsZero() {
		data[mapper.FieldCreatedAt] = store.ServerTimestamp()
	}

	if roadmap.ID == "" {
		id, err := r.store.Create(ctx, repositories.CollectionRoadmaps, data)
		if err != nil {
			return fmt.Errorf("failed to create roadmap: %w", err)
		}
		roadmap.ID = id
	} else if err := r.store.Set(ctx, repositories.CollectionRoadmaps, roadmap.ID, data); err != nil {
		return fmt.Errorf("failed to save roadmap %s: %w", roadmap.ID, err)
	}

	path := repositories.StepsPath(roadmap.ID)
	existing, err := r.steps.list(ctx, path, store.Query{})
	if err != nil {
		return err
	}

	keep := make(map[string]bool, len(roadmap.Steps))
	for i := range roadmap.Steps {
		step := &roadmap.Steps[i]
		if step.ID == "" {
			step.ID = uuid.NewString()
		}
		keep[step.ID] = true
		if err := r.store.Set(ctx, path, step.ID, mapper.FromRoadmapStep(*step)); err != nil {
			return fmt.Errorf("failed to save step %s of roadmap %s: %w", step.ID, roadmap.ID, err)
		}
	}
	for _, step := range existing {
		if keep[step.ID] {
			continue
		}
		if err := r.store.Delete(ctx, path, step.ID); err != nil {
			return fmt.Errorf("failed to remove step %s of roadmap %s: %w", step.ID, roadmap.ID, err)
		}
	}
	return nil
}

// ToggleStep flips the completion flag of one step in a single write
func (r *RoadmapRepository) ToggleStep(ctx context.Context, roadmapID, stepID string) (*models.RoadmapStep, error) {
	doc, err := r.store.Transform(ctx, repositories.StepsPath(roadmapID), stepID, func(current store.Data) (store.Data, error) {
		completed, _ := current[mapper.FieldCompleted].(bool)
		current[mapper.FieldCompleted] = !completed
		return current, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle step %s of roadmap %s: %w", stepID, roadmapID, err)
	}
	step, err := mapper.ToRoadmapStep(*doc)
	if err != nil {
		return nil, err
	}
	return &step, nil
}

// Delete removes the steps first so a failure never leaves steps without a parent
func (r *RoadmapRepository) Delete(ctx context.Context, id string) error {
	path := repositories.StepsPath(id)
	steps, err := r.steps.list(ctx, path, store.Query{})
	if err != nil {
		return err
	}
	for _, step := range steps {
		if err := r.store.Delete(ctx, path, step.ID); err != nil {
			return fmt.Errorf("failed to delete step %s of roadmap %s: %w", step.ID, id, err)
		}
	}
	if err := r.store.Delete(ctx, repositories.CollectionRoadmaps, id); err != nil {
		return fmt.Errorf("failed to delete roadmap %s: %w", id, err)
	}
	return nil
}

func (r *RoadmapRepository) withSteps(ctx context.Context, roadmap *models.Roadmap) (*models.Roadmap, error) {
	steps, err := r.steps.list(ctx, repositories.StepsPath(roadmap.ID), byOrder)
	if err != nil {
		return nil, err
	}
	roadmap.Steps = steps
	return roadmap, nil
}
