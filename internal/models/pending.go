package models

// PendingRange selects the window of a pending-tasks query.
type PendingRange string

const (
	RangeDay  PendingRange = "day"
	RangeWeek PendingRange = "week"
)

type PendingTask struct {
	Task
	EffectiveDate Date `json:"effectiveDate"`
}

// PendingEventGroup holds the tasks of one event; Event is nil for tasks
// that are not linked to any event.
type PendingEventGroup struct {
	Event *Event        `json:"event"`
	Tasks []PendingTask `json:"tasks"`
}

type PendingDepartmentGroup struct {
	Department Department          `json:"department"`
	Events     []PendingEventGroup `json:"events"`
}

type PendingTasksResult struct {
	Range         PendingRange             `json:"range"`
	ReferenceDate Date                     `json:"referenceDate"`
	RangeStart    Date                     `json:"rangeStart"`
	RangeEnd      Date                     `json:"rangeEnd"`
	Departments   []PendingDepartmentGroup `json:"departments"`
}
