package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/models"
)

var taskCols = []string{
	"id", "title", "title_ar", "description", "description_ar", "status", "priority",
	"due_date", "department_id", "event_department_id", "event_id",
	"created_at", "updated_at", "completed_at",
}

func TestTaskRepository_FindAll_OpenOnlyScansJoin(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(taskCols).
		AddRow(1, "Book venue", "", "", "", "pending", "high", due, 3, nil, nil, now, now, nil).
		AddRow(2, "Print badges", "طباعة", "", "", "waiting", "medium", nil, 3, 9, "E1", now, now, nil)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN event_departments ed ON ed.id = t.event_department_id WHERE t.department_id = $1 AND t.status = ANY($2)")).
		WithArgs(int64(3), sqlmock.AnyArg()).
		WillReturnRows(rows)

	dept := int64(3)
	tasks, err := NewTaskRepository(db).FindAll(context.Background(), models.TaskFilter{DepartmentID: &dept, OpenOnly: true})
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, "2024-03-04", tasks[0].DueDate.String())
	assert.Nil(t, tasks[0].EventID)

	assert.Nil(t, tasks[1].DueDate)
	require.NotNil(t, tasks[1].EventID)
	assert.Equal(t, "E1", *tasks[1].EventID)
	require.NotNil(t, tasks[1].EventDepartmentID)
	assert.Equal(t, int64(9), *tasks[1].EventDepartmentID)
	assert.Equal(t, models.TaskWaiting, tasks[1].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_FindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(taskCols))

	_, err = NewTaskRepository(db).FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Store(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	due := models.NewDate(2024, 3, 4)
	task := &models.Task{
		Title: "Book venue", Status: models.TaskPending, Priority: models.PriorityMedium,
		DueDate: &due, DepartmentID: 1, CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks")).
		WithArgs("Book venue", "", "", "", models.TaskPending, models.PriorityMedium,
			due.Time(), int64(1), nil, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))

	require.NoError(t, NewTaskRepository(db).Store(context.Background(), task))
	assert.Equal(t, int64(5), task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_UpdateStatus_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks SET status=$1")).
		WithArgs(models.TaskCompleted, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewTaskRepository(db).UpdateStatus(context.Background(), 7, models.TaskCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
