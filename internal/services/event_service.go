package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventhub/internal/models"
	"eventhub/internal/repositories"
)

type EventService struct {
	Repo repositories.EventRepository
	now  func() time.Time
}

func NewEventService(repo repositories.EventRepository) *EventService {
	return &EventService{Repo: repo, now: time.Now}
}

func validateEvent(e *models.Event) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if e.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrInvalidArgument)
	}
	if e.EndDate.IsZero() {
		e.EndDate = e.StartDate
	}
	if e.EndDate.Before(e.StartDate) {
		return fmt.Errorf("%w: endDate %s is before startDate %s", ErrInvalidArgument, e.EndDate, e.StartDate)
	}
	return nil
}

func (s *EventService) Create(ctx context.Context, e *models.Event) error {
	if err := validateEvent(e); err != nil {
		return err
	}
	e.ID = uuid.NewString()
	now := s.now()
	e.CreatedAt = now
	e.UpdatedAt = now
	return s.Repo.Create(ctx, e)
}

func (s *EventService) GetByID(ctx context.Context, id string) (*models.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: event id %q is not a UUID", ErrInvalidArgument, id)
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: to is before from", ErrInvalidArgument)
	}
	return s.Repo.List(ctx, filter)
}

func (s *EventService) Update(ctx context.Context, e *models.Event) error {
	if err := validateEvent(e); err != nil {
		return err
	}
	e.UpdatedAt = s.now()
	return s.Repo.Update(ctx, e)
}

func (s *EventService) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *EventService) LinkDepartment(ctx context.Context, eventID string, departmentID int64) (*models.EventDepartment, error) {
	if departmentID <= 0 {
		return nil, fmt.Errorf("%w: departmentId is required", ErrInvalidArgument)
	}
	if _, err := s.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.Repo.EnsureDepartmentLink(ctx, eventID, departmentID)
}

func (s *EventService) ListDepartments(ctx context.Context, eventID string) ([]models.EventDepartment, error) {
	return s.Repo.ListDepartmentLinks(ctx, eventID)
}
