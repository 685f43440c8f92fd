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

// eventService validates dates and location before every write, so a
// stored event always closes registration before it starts
type eventService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewEventService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) EventService {
	return &eventService{repo: repo, logger: logger, validator: validator}
}

func (s *eventService) Create(ctx context.Context, actor Actor, req *EventRequest) (*models.Event, error) {
	s.logger.Info("Creating event", "owner_id", actor.ID, "title", req.Title)

	if !actor.CanAuthor() {
		return nil, NewPermissionError(actor.ID, "", "event", "create", "only teachers and admins organize events")
	}
	event, err := s.build(req)
	if err != nil {
		return nil, err
	}
	event.OwnerID = actor.ID

	if err := s.repo.Event().Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("Event created successfully", "event_id", event.ID)
	return s.GetByID(ctx, event.ID)
}

func (s *eventService) GetByID(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.Event().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrEventNotFound)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, filters repositories.EventFilters) ([]models.Event, error) {
	if filters.OrderBy == "" {
		filters.OrderBy = "event_date"
	}
	events, err := s.repo.Event().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Update replaces the whole event; both dates are checked together
func (s *eventService) Update(ctx context.Context, actor Actor, id string, req *EventRequest) (*models.Event, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(existing.OwnerID) {
		return nil, NewPermissionError(actor.ID, id, "event", "update", "not the organizer")
	}

	event, err := s.build(req)
	if err != nil {
		return nil, err
	}
	event.ID = id
	event.OwnerID = existing.OwnerID
	event.CreatedAt = existing.CreatedAt

	if err := s.repo.Event().Replace(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *eventService) Delete(ctx context.Context, actor Actor, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Owns(existing.OwnerID) {
		return NewPermissionError(actor.ID, id, "event", "delete", "not the organizer")
	}
	if err := s.repo.Event().Delete(ctx, id); err != nil {
		return notFound(err, ErrEventNotFound)
	}
	s.logger.Info("Event deleted", "event_id", id, "actor_id", actor.ID)
	return nil
}

func (s *eventService) build(req *EventRequest) (*models.Event, error) {
	eventDate, closeDate, errors := s.validator.GetBusinessValidator().ValidateEventRequest(req)
	if len(errors) > 0 {
		return nil, errors
	}

	return &models.Event{
		Title:                 req.Title,
		Description:           req.Description,
		ThumbnailURL:          req.ThumbnailURL,
		EventDate:             eventDate,
		RegistrationCloseDate: closeDate,
		Mode:                  models.EventMode(req.Mode),
		Location:              strings.TrimSpace(req.Location),
		Organizer:             req.Organizer,
	}, nil
}
