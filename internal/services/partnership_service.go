package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/models"
	"eventhub/internal/repositories"
)

var activityTypes = map[string]bool{
	"meeting": true, "call": true, "email": true, "event": true, "agreement": true, "other": true,
}

type PartnershipService struct {
	Repo repositories.PartnershipRepository
	now  func() time.Time
}

func NewPartnershipService(repo repositories.PartnershipRepository) *PartnershipService {
	return &PartnershipService{Repo: repo, now: time.Now}
}

func validatePartnership(p *models.Partnership) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if _, err := ThresholdDays(p.InactivityThresholdMonths); err != nil {
		return err
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidArgument)
	}
	return nil
}

func (s *PartnershipService) Create(ctx context.Context, p *models.Partnership) error {
	if p.InactivityThresholdMonths == 0 {
		p.InactivityThresholdMonths = models.DefaultInactivityThresholdMonths
	}
	if p.Status == "" {
		p.Status = models.PartnershipActive
	}
	if err := validatePartnership(p); err != nil {
		return err
	}
	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.Repo.Create(ctx, p)
}

func (s *PartnershipService) Update(ctx context.Context, p *models.Partnership) error {
	if err := validatePartnership(p); err != nil {
		return err
	}
	p.UpdatedAt = s.now()
	return s.Repo.Update(ctx, p)
}

func (s *PartnershipService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

func (s *PartnershipService) GetByID(ctx context.Context, id int64) (*models.PartnershipWithStatus, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withStatus(*p)
}

func (s *PartnershipService) List(ctx context.Context, limit, offset int) ([]models.PartnershipWithStatus, error) {
	list, err := s.Repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]models.PartnershipWithStatus, 0, len(list))
	for _, p := range list {
		ws, err := s.withStatus(p)
		if err != nil {
			return nil, fmt.Errorf("partnership %d: %w", p.ID, err)
		}
		out = append(out, *ws)
	}
	return out, nil
}

// Inactivity evaluates the partnership at the current time.
func (s *PartnershipService) Inactivity(ctx context.Context, id int64) (*models.InactivityStatus, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	st, err := EvaluateInactivity(*p, s.now())
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *PartnershipService) UpdateInactivitySettings(ctx context.Context, id int64, thresholdMonths int, notify bool) (*models.InactivityStatus, error) {
	if _, err := ThresholdDays(thresholdMonths); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateInactivitySettings(ctx, id, thresholdMonths, notify); err != nil {
		return nil, err
	}
	return s.Inactivity(ctx, id)
}

func (s *PartnershipService) AddActivity(ctx context.Context, a *models.PartnershipActivity) error {
	a.ActivityType = strings.ToLower(strings.TrimSpace(a.ActivityType))
	if a.ActivityType == "" {
		a.ActivityType = "other"
	}
	if !activityTypes[a.ActivityType] {
		return fmt.Errorf("%w: unknown activity type %q", ErrInvalidArgument, a.ActivityType)
	}
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = s.now()
	}
	return s.Repo.AddActivity(ctx, a)
}

func (s *PartnershipService) ListActivities(ctx context.Context, partnershipID int64) ([]models.PartnershipActivity, error) {
	return s.Repo.ListActivities(ctx, partnershipID)
}

func (s *PartnershipService) withStatus(p models.Partnership) (*models.PartnershipWithStatus, error) {
	st, err := EvaluateInactivity(p, s.now())
	if err != nil {
		return nil, err
	}
	return &models.PartnershipWithStatus{Partnership: p, Inactivity: st}, nil
}
