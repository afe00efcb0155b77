// internal/models/task.go
package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskWaiting    TaskStatus = "waiting"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskWaiting, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// IsOpen reports whether the task still needs work (pending, in progress or waiting).
func (s TaskStatus) IsOpen() bool {
	return s == TaskPending || s == TaskInProgress || s == TaskWaiting
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task is a unit of work owned by a department, optionally tied to an event
// through the event_departments join.
type Task struct {
	ID                int64        `json:"id"`
	Title             string       `json:"title"`
	TitleAr           string       `json:"titleAr,omitempty"`
	Description       string       `json:"description,omitempty"`
	DescriptionAr     string       `json:"descriptionAr,omitempty"`
	Status            TaskStatus   `json:"status"`
	Priority          TaskPriority `json:"priority"`
	DueDate           *Date        `json:"dueDate"`
	DepartmentID      int64        `json:"departmentId"`
	EventDepartmentID *int64       `json:"eventDepartmentId,omitempty"`
	EventID           *string      `json:"eventId,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
	CompletedAt       *time.Time   `json:"completedAt,omitempty"`
}

func (t Task) TitleText() Localized {
	return Localized{En: t.Title, Ar: t.TitleAr}
}

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	DepartmentID *int64
	EventID      *string
	Status       *TaskStatus
	OpenOnly     bool
}
