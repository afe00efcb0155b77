package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventhub/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskSelect = `
SELECT t.id, t.title, t.title_ar, t.description, t.description_ar, t.status, t.priority,
       t.due_date, t.department_id, t.event_department_id, ed.event_id,
       t.created_at, t.updated_at, t.completed_at
FROM tasks t
LEFT JOIN event_departments ed ON ed.id = t.event_department_id`

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.TitleAr, &t.Description, &t.DescriptionAr, &t.Status, &t.Priority,
		&t.DueDate, &t.DepartmentID, &t.EventDepartmentID, &t.EventID,
		&t.CreatedAt, &t.UpdatedAt, &t.CompletedAt,
	)
	return t, err
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			title, title_ar, description, description_ar, status, priority,
			due_date, department_id, event_department_id, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.TitleAr, task.Description, task.DescriptionAr, task.Status, task.Priority,
		task.DueDate, task.DepartmentID, task.EventDepartmentID, task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	return translateErr(err)
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, taskSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &t, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	query := taskSelect

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("t.department_id = $%d", argID))
		args = append(args, *filter.DepartmentID)
		argID++
	}
	if filter.EventID != nil {
		conditions = append(conditions, fmt.Sprintf("ed.event_id = $%d", argID))
		args = append(args, *filter.EventID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.OpenOnly {
		conditions = append(conditions, fmt.Sprintf("t.status = ANY($%d)", argID))
		args = append(args, pq.Array([]string{
			string(models.TaskPending), string(models.TaskInProgress), string(models.TaskWaiting),
		}))
		argID++
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			title=$1, title_ar=$2, description=$3, description_ar=$4, status=$5, priority=$6,
			due_date=$7, department_id=$8, event_department_id=$9, completed_at=$10, updated_at=$11
		WHERE id=$12`
	res, err := r.db.ExecContext(ctx, query,
		task.Title, task.TitleAr, task.Description, task.DescriptionAr, task.Status, task.Priority,
		task.DueDate, task.DepartmentID, task.EventDepartmentID, task.CompletedAt, task.UpdatedAt, task.ID,
	)
	if err != nil {
		return translateErr(err)
	}
	return expectAffected(res, "task", task.ID)
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res, "task", id)
}

// UpdateStatus also maintains completed_at.
func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET status=$1,
			completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE NULL END,
			updated_at=NOW()
		WHERE id=$2`, to, id)
	if err != nil {
		return err
	}
	return expectAffected(res, "task", id)
}

func expectAffected(res sql.Result, entity string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %v: %w", entity, id, ErrNotFound)
	}
	return nil
}
