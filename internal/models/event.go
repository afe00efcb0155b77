package models

import "time"

type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	NameAr      string    `json:"nameAr,omitempty"`
	StartDate   Date      `json:"startDate"`
	EndDate     Date      `json:"endDate"`
	Location    string    `json:"location,omitempty"`
	LocationAr  string    `json:"locationAr,omitempty"`
	Category    string    `json:"category,omitempty"`
	Organizer   string    `json:"organizer,omitempty"`
	URL         string    `json:"url,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (e Event) NameText() Localized {
	return Localized{En: e.Name, Ar: e.NameAr}
}

// Overlaps reports whether [StartDate, EndDate] intersects [from, to].
// An event without an end date is treated as a single-day event.
func (e Event) Overlaps(from, to Date) bool {
	end := e.EndDate
	if end.IsZero() || end.Before(e.StartDate) {
		end = e.StartDate
	}
	return !e.StartDate.After(to) && !end.Before(from)
}

// EventDepartment links a department to an event; tasks hang off this row.
type EventDepartment struct {
	ID           int64     `json:"id"`
	EventID      string    `json:"eventId"`
	DepartmentID int64     `json:"departmentId"`
	CreatedAt    time.Time `json:"createdAt"`
}

type EventImportResult struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Errors  []ImportRowError `json:"errors"`
}

type EventFilter struct {
	From     *Date
	To       *Date
	Category string
}
