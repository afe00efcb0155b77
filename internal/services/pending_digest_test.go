package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/models"
)

type rangerFunc func(ctx context.Context, ref models.Date, rng models.PendingRange) (*models.PendingTasksResult, error)

func (f rangerFunc) PendingRange(ctx context.Context, ref models.Date, rng models.PendingRange) (*models.PendingTasksResult, error) {
	return f(ctx, ref, rng)
}

func TestPendingDigest_SendsPerDepartment(t *testing.T) {
	dubai := time.FixedZone("GST", 4*3600)
	// 22:30 UTC on the 14th is already the 15th in Dubai.
	now := time.Date(2024, 6, 14, 22, 30, 0, 0, time.UTC)

	var gotRef models.Date
	var gotRange models.PendingRange
	ranger := rangerFunc(func(_ context.Context, ref models.Date, rng models.PendingRange) (*models.PendingTasksResult, error) {
		gotRef, gotRange = ref, rng
		tasks := []models.Task{
			{ID: 1, Title: "Book venue", Status: models.TaskPending, DueDate: &ref, DepartmentID: 1},
			{ID: 2, Title: "Print badges", Status: models.TaskInProgress, DueDate: &ref, DepartmentID: 2},
			{ID: 3, Title: "Order catering", Status: models.TaskWaiting, DueDate: &ref, DepartmentID: 3},
		}
		depts := map[int64]models.Department{
			1: {ID: 1, Name: "Events", Email: "events@example.com"},
			2: {ID: 2, Name: "Logistics", Phone: "+97150"},
			3: {ID: 3, Name: "Finance"},
		}
		return AggregatePendingTasks(tasks, nil, depts, ref, rng)
	})

	notifier := &recordingNotifier{}
	d := NewPendingDigest(ranger, notifier, dubai, "en")
	d.now = fixedClock(now)

	sent, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, "2024-06-15", gotRef.String())
	assert.Equal(t, models.RangeDay, gotRange)

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "Events: 1 pending task(s)", notifier.sent[0].Subject)
	assert.Contains(t, notifier.sent[0].Text, "Book venue")
	assert.Contains(t, notifier.sent[0].Text, "Not linked to an event")
	assert.Equal(t, []string{"events@example.com"}, notifier.sent[0].Emails)
	assert.Contains(t, notifier.sent[1].Text, "Print badges")
	assert.NotContains(t, notifier.sent[1].Text, "Book venue")
}

func TestPendingDigest_ContinuesAfterFailedDepartment(t *testing.T) {
	ranger := rangerFunc(func(_ context.Context, ref models.Date, rng models.PendingRange) (*models.PendingTasksResult, error) {
		tasks := []models.Task{
			{ID: 1, Title: "a", Status: models.TaskPending, DueDate: &ref, DepartmentID: 1},
			{ID: 2, Title: "b", Status: models.TaskPending, DueDate: &ref, DepartmentID: 2},
		}
		depts := map[int64]models.Department{
			1: {ID: 1, Name: "A", Email: "a@example.com"},
			2: {ID: 2, Name: "B", Email: "b@example.com"},
		}
		return AggregatePendingTasks(tasks, nil, depts, ref, rng)
	})
	notifier := &recordingNotifier{fail: func(n Notification) bool { return n.Emails[0] == "a@example.com" }}
	d := NewPendingDigest(ranger, notifier, time.UTC, "en")

	sent, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}
