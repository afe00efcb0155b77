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

type EventRepository interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Event, error)
	GetByURL(ctx context.Context, url string) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id string) error

	EnsureDepartmentLink(ctx context.Context, eventID string, departmentID int64) (*models.EventDepartment, error)
	ListDepartmentLinks(ctx context.Context, eventID string) ([]models.EventDepartment, error)
}

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, name, name_ar, start_date, end_date, location, location_ar,
       category, organizer, url, description, created_at, updated_at`

func scanEvent(row rowScanner) (models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Name, &e.NameAr, &e.StartDate, &e.EndDate, &e.Location, &e.LocationAr,
		&e.Category, &e.Organizer, &e.URL, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *eventRepository) Create(ctx context.Context, e *models.Event) error {
	const q = `
		INSERT INTO events (id, name, name_ar, start_date, end_date, location, location_ar,
			category, organizer, url, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	if _, err := r.db.ExecContext(ctx, q, e.ID, e.Name, e.NameAr, e.StartDate, e.EndDate, e.Location, e.LocationAr,
		e.Category, e.Organizer, e.URL, e.Description, e.CreatedAt, e.UpdatedAt); err != nil {
		return fmt.Errorf("create event: %w", translateErr(err))
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

func (r *eventRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Event, error) {
	if len(ids) == 0 {
		return []models.Event{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id::text = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	return collectEvents(rows)
}

// GetByURL returns nil, nil when no event carries the url.
func (r *eventRepository) GetByURL(ctx context.Context, url string) (*models.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE url=$1`, url))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event by url: %w", err)
	}
	return &e, nil
}

// List returns events whose window overlaps [From, To] when given.
func (r *eventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	conditions := []string{}
	args := []interface{}{}
	i := 1

	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("end_date >= $%d", i))
		args = append(args, *filter.From)
		i++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d", i))
		args = append(args, *filter.To)
		i++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", i))
		args = append(args, filter.Category)
		i++
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_date ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]models.Event, error) {
	defer rows.Close()
	out := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *models.Event) error {
	const q = `
		UPDATE events
		SET name=$1, name_ar=$2, start_date=$3, end_date=$4, location=$5, location_ar=$6,
		    category=$7, organizer=$8, url=$9, description=$10, updated_at=$11
		WHERE id=$12`
	res, err := r.db.ExecContext(ctx, q, e.Name, e.NameAr, e.StartDate, e.EndDate, e.Location, e.LocationAr,
		e.Category, e.Organizer, e.URL, e.Description, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", translateErr(err))
	}
	return expectAffected(res, "event", e.ID)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return expectAffected(res, "event", id)
}

// EnsureDepartmentLink returns the existing link or creates it.
func (r *eventRepository) EnsureDepartmentLink(ctx context.Context, eventID string, departmentID int64) (*models.EventDepartment, error) {
	const q = `
		INSERT INTO event_departments (event_id, department_id)
		VALUES ($1, $2)
		ON CONFLICT (event_id, department_id) DO UPDATE SET event_id = EXCLUDED.event_id
		RETURNING id, event_id, department_id, created_at`
	var link models.EventDepartment
	if err := r.db.QueryRowContext(ctx, q, eventID, departmentID).
		Scan(&link.ID, &link.EventID, &link.DepartmentID, &link.CreatedAt); err != nil {
		return nil, fmt.Errorf("link department %d to event %s: %w", departmentID, eventID, translateErr(err))
	}
	return &link, nil
}

func (r *eventRepository) ListDepartmentLinks(ctx context.Context, eventID string) ([]models.EventDepartment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, department_id, created_at
		FROM event_departments
		WHERE event_id = $1
		ORDER BY id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event departments: %w", err)
	}
	defer rows.Close()

	out := []models.EventDepartment{}
	for rows.Next() {
		var l models.EventDepartment
		if err := rows.Scan(&l.ID, &l.EventID, &l.DepartmentID, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
