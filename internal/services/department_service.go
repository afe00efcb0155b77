package services

import (
	"context"
	"fmt"
	"strings"

	"eventhub/internal/models"
)

type DepartmentStore interface {
	DepartmentLister
	Create(ctx context.Context, d *models.Department) error
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	Update(ctx context.Context, d *models.Department) error
	Delete(ctx context.Context, id int64) error
}

type DepartmentService struct {
	Repo DepartmentStore
}

func NewDepartmentService(repo DepartmentStore) *DepartmentService {
	return &DepartmentService{Repo: repo}
}

func (s *DepartmentService) Create(ctx context.Context, d *models.Department) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	return s.Repo.Create(ctx, d)
}

func (s *DepartmentService) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	return s.Repo.List(ctx)
}

func (s *DepartmentService) Update(ctx context.Context, d *models.Department) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	return s.Repo.Update(ctx, d)
}

func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
