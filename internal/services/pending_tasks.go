package services

import (
	"fmt"
	"sort"
	"time"

	"eventhub/internal/models"
)

// PendingWindow returns the inclusive [start, end] dates covered by rng.
// A week runs Monday through Sunday.
func PendingWindow(ref models.Date, rng models.PendingRange) (models.Date, models.Date, error) {
	switch rng {
	case models.RangeDay:
		return ref, ref, nil
	case models.RangeWeek:
		offset := (int(ref.Weekday()) + 6) % 7 // Monday = 0
		start := ref.AddDays(-offset)
		return start, start.AddDays(6), nil
	}
	return models.Date{}, models.Date{}, fmt.Errorf("%w: range must be %q or %q, got %q",
		ErrInvalidArgument, models.RangeDay, models.RangeWeek, rng)
}

// EffectiveDate is the due date, or the start of the linked event when the
// task has no due date. ok is false for tasks that cannot be scheduled.
func EffectiveDate(t models.Task, events map[string]models.Event) (date models.Date, fromEvent bool, ok bool) {
	if t.DueDate != nil && !t.DueDate.IsZero() {
		return *t.DueDate, false, true
	}
	if t.EventID == nil {
		return models.Date{}, false, false
	}
	ev, found := events[*t.EventID]
	if !found || ev.StartDate.IsZero() {
		return models.Date{}, false, false
	}
	return ev.StartDate, true, true
}

// AggregatePendingTasks groups open tasks by department and event for the
// window around ref. Departments missing from the lookup are reported by id
// only. The result does not depend on the order of the inputs.
func AggregatePendingTasks(
	tasks []models.Task,
	events map[string]models.Event,
	departments map[int64]models.Department,
	ref models.Date,
	rng models.PendingRange,
) (*models.PendingTasksResult, error) {
	from, to, err := PendingWindow(ref, rng)
	if err != nil {
		return nil, err
	}

	// department -> event id ("" for unlinked) -> tasks
	byDept := map[int64]map[string][]models.PendingTask{}

	for _, t := range tasks {
		if !t.Status.IsOpen() {
			continue
		}
		eff, fromEvent, ok := EffectiveDate(t, events)
		if !ok {
			continue
		}

		include := eff.Within(from, to)
		if !include && fromEvent {
			include = events[*t.EventID].Overlaps(from, to)
		}
		if !include {
			continue
		}

		groupID := ""
		if t.EventID != nil {
			if _, found := events[*t.EventID]; found {
				groupID = *t.EventID
			}
		}
		if byDept[t.DepartmentID] == nil {
			byDept[t.DepartmentID] = map[string][]models.PendingTask{}
		}
		byDept[t.DepartmentID][groupID] = append(byDept[t.DepartmentID][groupID],
			models.PendingTask{Task: t, EffectiveDate: eff})
	}

	out := make([]models.PendingDepartmentGroup, 0, len(byDept))
	for deptID, groups := range byDept {
		dept, found := departments[deptID]
		if !found {
			dept = models.Department{ID: deptID}
		}
		group := models.PendingDepartmentGroup{Department: dept}
		for eventID, items := range groups {
			sortPendingTasks(items)
			eg := models.PendingEventGroup{Tasks: items}
			if eventID != "" {
				ev := events[eventID]
				eg.Event = &ev
			}
			group.Events = append(group.Events, eg)
		}
		sortEventGroups(group.Events)
		out = append(out, group)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Department, out[j].Department
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	return &models.PendingTasksResult{
		Range:         rng,
		ReferenceDate: ref,
		RangeStart:    from,
		RangeEnd:      to,
		Departments:   out,
	}, nil
}

func sortPendingTasks(items []models.PendingTask) {
	sort.Slice(items, func(i, j int) bool {
		if c := items[i].EffectiveDate.Compare(items[j].EffectiveDate); c != 0 {
			return c < 0
		}
		return items[i].ID < items[j].ID
	})
}

// Unlinked tasks go last.
func sortEventGroups(groups []models.PendingEventGroup) {
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i].Event, groups[j].Event
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

// Today returns the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) models.Date {
	if loc == nil {
		loc = time.UTC
	}
	return models.DateOf(now.In(loc))
}
