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

type ChallengeRepository struct {
	store      store.DocumentStore
	challenges collection[models.Challenge]
}

func NewChallengeRepository(s store.DocumentStore, logger *slog.Logger) *ChallengeRepository {
	return &ChallengeRepository{
		store:      s,
		challenges: newCollection(s, logger, "challenge", mapper.ToChallenge),
	}
}

func (r *ChallengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	id, err := r.store.Create(ctx, repositories.CollectionChallenges, mapper.FromChallenge(*challenge))
	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	challenge.ID = id
	return nil
}

func (r *ChallengeRepository) GetByID(ctx context.Context, id string) (*models.Challenge, error) {
	return r.challenges.get(ctx, repositories.CollectionChallenges, id)
}

func (r *ChallengeRepository) List(ctx context.Context, filters repositories.ChallengeFilters) ([]models.Challenge, error) {
	return r.challenges.list(ctx, repositories.CollectionChallenges, challengeQuery(filters))
}

func (r *ChallengeRepository) Update(ctx context.Context, id string, update repositories.ChallengeUpdate) error {
	p := patch{}
	p.setString(mapper.FieldTitle, update.Title)
	p.setString(mapper.FieldDescription, update.Description)
	p.setString(mapper.FieldCategoryID, update.CategoryID)
	p.setString(mapper.FieldSubcategoryID, update.SubcategoryID)
	p.setString(mapper.FieldTopic, update.Topic)
	p.setString(mapper.FieldProblemURL, update.ProblemURL)
	p.setString(mapper.FieldSolutionURL, update.SolutionURL)
	if len(p) == 0 {
		return nil
	}
	if err := r.store.Update(ctx, repositories.CollectionChallenges, id, store.Patch(p)); err != nil {
		return fmt.Errorf("failed to update challenge %s: %w", id, err)
	}
	return nil
}

func (r *ChallengeRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, repositories.CollectionChallenges, id); err != nil {
		return fmt.Errorf("failed to delete challenge %s: %w", id, err)
	}
	return nil
}

func (r *ChallengeRepository) Watch(ctx context.Context, filters repositories.ChallengeFilters) (<-chan repositories.Snapshot[models.Challenge], error) {
	return r.challenges.watch(ctx, repositories.CollectionChallenges, challengeQuery(filters))
}

func challengeQuery(filters repositories.ChallengeFilters) store.Query {
	var q store.Query
	if filters.UploaderID != "" {
		q = q.And(mapper.FieldUploaderID, filters.UploaderID)
	}
	if filters.CategoryID != "" {
		q = q.And(mapper.FieldCategoryID, filters.CategoryID)
	}
	return listQuery(q, filters.ListOptions)
}

type EventRepository struct {
	store  store.DocumentStore
	events collection[models.Event]
}

func NewEventRepository(s store.DocumentStore, logger *slog.Logger) *EventRepository {
	return &EventRepository{
		store:  s,
		events: newCollection(s, logger, "event", mapper.ToEvent),
	}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	id, err := r.store.Create(ctx, repositories.CollectionEvents, mapper.FromEvent(*event))
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	event.ID = id
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	return r.events.get(ctx, repositories.CollectionEvents, id)
}

func (r *EventRepository) List(ctx context.Context, filters repositories.EventFilters) ([]models.Event, error) {
	return r.events.list(ctx, repositories.CollectionEvents, eventQuery(filters))
}

func (r *EventRepository) Replace(ctx context.Context, event *models.Event) error {
	if err := r.store.Set(ctx, repositories.CollectionEvents, event.ID, mapper.FromEvent(*event)); err != nil {
		return fmt.Errorf("failed to update event %s: %w", event.ID, err)
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, repositories.CollectionEvents, id); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return nil
}

func (r *EventRepository) Watch(ctx context.Context, filters repositories.EventFilters) (<-chan repositories.Snapshot[models.Event], error) {
	return r.events.watch(ctx, repositories.CollectionEvents, eventQuery(filters))
}

func eventQuery(filters repositories.EventFilters) store.Query {
	var q store.Query
	if filters.OwnerID != "" {
		q = q.And(mapper.FieldOwnerID, filters.OwnerID)
	}
	if filters.Mode != "" {
		q = q.And(mapper.FieldMode, string(filters.Mode))
	}
	return listQuery(q, filters.ListOptions)
}

type CategoryRepository struct {
	store      store.DocumentStore
	categories collection[models.Category]
}

func NewCategoryRepository(s store.DocumentStore, logger *slog.Logger) *CategoryRepository {
	return &CategoryRepository{
		store:      s,
		categories: newCollection(s, logger, "category", mapper.ToCategory),
	}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	data := mapper.FromCategory(*category)
	if category.ID != "" {
		if err := r.store.Set(ctx, repositories.CollectionCategories, category.ID, data); err != nil {
			return fmt.Errorf("failed to create category %s: %w", category.ID, err)
		}
		return nil
	}
	id, err := r.store.Create(ctx, repositories.CollectionCategories, data)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	category.ID = id
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.categories.get(ctx, repositories.CollectionCategories, id)
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	return r.categories.list(ctx, repositories.CollectionCategories, store.Query{}.Order(mapper.FieldName, false))
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, repositories.CollectionCategories, id); err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return nil
}
