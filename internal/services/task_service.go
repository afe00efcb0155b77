// internal/services/task_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"eventhub/internal/models"
	"eventhub/internal/repositories"
)

// TaskService defines the interface for task-related business logic.
type TaskService interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, id int64, updateData *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) (*models.Task, error)

	// PendingRange loads open tasks and groups them by department and event.
	PendingRange(ctx context.Context, ref models.Date, rng models.PendingRange) (*models.PendingTasksResult, error)
}

// DepartmentLister is the read side of the department store.
type DepartmentLister interface {
	List(ctx context.Context) ([]models.Department, error)
}

type taskService struct {
	repo        repositories.TaskRepository
	events      repositories.EventRepository
	departments DepartmentLister
	now         func() time.Time
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo repositories.TaskRepository, events repositories.EventRepository, departments DepartmentLister) TaskService {
	return &taskService{repo: repo, events: events, departments: departments, now: time.Now}
}

func validateTask(t *models.Task) error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if t.DepartmentID <= 0 {
		return fmt.Errorf("%w: departmentId is required", ErrInvalidArgument)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, t.Status)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidArgument, t.Priority)
	}
	return nil
}

// linkEvent resolves EventID into the event_departments row for the task's department.
func (s *taskService) linkEvent(ctx context.Context, t *models.Task) error {
	if t.EventID == nil || *t.EventID == "" {
		t.EventID = nil
		t.EventDepartmentID = nil
		return nil
	}
	link, err := s.events.EnsureDepartmentLink(ctx, *t.EventID, t.DepartmentID)
	if err != nil {
		return err
	}
	t.EventDepartmentID = &link.ID
	return nil
}

func (s *taskService) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.Status == "" {
		task.Status = models.TaskPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if err := validateTask(task); err != nil {
		return nil, err
	}
	if err := s.linkEvent(ctx, task); err != nil {
		return nil, err
	}
	now := s.now()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == models.TaskCompleted {
		task.CompletedAt = &now
	}

	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *taskService) Update(ctx context.Context, id int64, updateData *models.Task) (*models.Task, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransitionTask(existing.Status, updateData.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, updateData.Status)
	}

	eventChanged := !sameEvent(existing.EventID, updateData.EventID) || existing.DepartmentID != updateData.DepartmentID

	existing.Title = updateData.Title
	existing.TitleAr = updateData.TitleAr
	existing.Description = updateData.Description
	existing.DescriptionAr = updateData.DescriptionAr
	existing.DueDate = updateData.DueDate
	existing.Priority = updateData.Priority
	existing.DepartmentID = updateData.DepartmentID
	existing.EventID = updateData.EventID
	if existing.Status != updateData.Status {
		existing.CompletedAt = nil
		if updateData.Status == models.TaskCompleted {
			now := s.now()
			existing.CompletedAt = &now
		}
	}
	existing.Status = updateData.Status

	if err := validateTask(existing); err != nil {
		return nil, err
	}
	if eventChanged {
		if err := s.linkEvent(ctx, existing); err != nil {
			return nil, err
		}
	}
	existing.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func sameEvent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *taskService) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) (*models.Task, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransitionTask(current.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
	}
	if current.Status == to {
		// keeps completedAt and updatedAt as they were
		return current, nil
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) PendingRange(ctx context.Context, ref models.Date, rng models.PendingRange) (*models.PendingTasksResult, error) {
	// reject a bad range before touching the database
	if _, _, err := PendingWindow(ref, rng); err != nil {
		return nil, err
	}

	tasks, err := s.repo.FindAll(ctx, models.TaskFilter{OpenOnly: true})
	if err != nil {
		return nil, fmt.Errorf("load open tasks: %w", err)
	}

	idSet := map[string]struct{}{}
	for _, t := range tasks {
		if t.EventID != nil {
			idSet[*t.EventID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	evList, err := s.events.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	events := make(map[string]models.Event, len(evList))
	for _, e := range evList {
		events[e.ID] = e
	}

	deptList, err := s.departments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load departments: %w", err)
	}
	departments := make(map[int64]models.Department, len(deptList))
	for _, d := range deptList {
		departments[d.ID] = d
	}

	res, err := AggregatePendingTasks(tasks, events, departments, ref, rng)
	if err != nil {
		return nil, err
	}
	log.Printf("[task][pending] ref=%s range=%s open=%d departments=%d", ref, rng, len(tasks), len(res.Departments))
	return res, nil
}
