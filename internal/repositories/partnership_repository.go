package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventhub/internal/models"
)

type PartnershipRepository interface {
	Create(ctx context.Context, p *models.Partnership) error
	GetByID(ctx context.Context, id int64) (*models.Partnership, error)
	List(ctx context.Context, limit, offset int) ([]models.Partnership, error)
	ListNotifiable(ctx context.Context) ([]models.Partnership, error)
	Update(ctx context.Context, p *models.Partnership) error
	Delete(ctx context.Context, id int64) error

	UpdateInactivitySettings(ctx context.Context, id int64, thresholdMonths int, notify bool) error
	MarkInactivityNotified(ctx context.Context, id int64, at time.Time) error

	AddActivity(ctx context.Context, a *models.PartnershipActivity) error
	ListActivities(ctx context.Context, partnershipID int64) ([]models.PartnershipActivity, error)
}

type partnershipRepository struct {
	db *sql.DB
}

func NewPartnershipRepository(db *sql.DB) PartnershipRepository {
	return &partnershipRepository{db: db}
}

const partnershipColumns = `id, name, name_ar, status, partnership_type, start_date, end_date,
       last_activity_date, inactivity_threshold_months, notify_on_inactivity,
       last_inactivity_notification_sent, created_at, updated_at`

func scanPartnership(row rowScanner) (models.Partnership, error) {
	var p models.Partnership
	err := row.Scan(&p.ID, &p.Name, &p.NameAr, &p.Status, &p.PartnershipType, &p.StartDate, &p.EndDate,
		&p.LastActivityDate, &p.InactivityThresholdMonths, &p.NotifyOnInactivity,
		&p.LastInactivityNotificationSent, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *partnershipRepository) Create(ctx context.Context, p *models.Partnership) error {
	const q = `
		INSERT INTO partnerships (name, name_ar, status, partnership_type, start_date, end_date,
			last_activity_date, inactivity_threshold_months, notify_on_inactivity, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, q, p.Name, p.NameAr, p.Status, p.PartnershipType, p.StartDate, p.EndDate,
		p.LastActivityDate, p.InactivityThresholdMonths, p.NotifyOnInactivity, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID); err != nil {
		return fmt.Errorf("create partnership: %w", err)
	}
	return nil
}

func (r *partnershipRepository) GetByID(ctx context.Context, id int64) (*models.Partnership, error) {
	p, err := scanPartnership(r.db.QueryRowContext(ctx, `SELECT `+partnershipColumns+` FROM partnerships WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("partnership %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get partnership: %w", err)
	}
	return &p, nil
}

func (r *partnershipRepository) List(ctx context.Context, limit, offset int) ([]models.Partnership, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+partnershipColumns+` FROM partnerships
		ORDER BY name ASC, id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list partnerships: %w", err)
	}
	return collectPartnerships(rows)
}

// ListNotifiable returns partnerships that opted in to inactivity notifications.
func (r *partnershipRepository) ListNotifiable(ctx context.Context) ([]models.Partnership, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+partnershipColumns+` FROM partnerships
		WHERE notify_on_inactivity = TRUE ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list notifiable partnerships: %w", err)
	}
	return collectPartnerships(rows)
}

func collectPartnerships(rows *sql.Rows) ([]models.Partnership, error) {
	defer rows.Close()
	out := []models.Partnership{}
	for rows.Next() {
		p, err := scanPartnership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *partnershipRepository) Update(ctx context.Context, p *models.Partnership) error {
	const q = `
		UPDATE partnerships
		SET name=$1, name_ar=$2, status=$3, partnership_type=$4, start_date=$5, end_date=$6,
		    inactivity_threshold_months=$7, notify_on_inactivity=$8, updated_at=$9
		WHERE id=$10`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.NameAr, p.Status, p.PartnershipType, p.StartDate, p.EndDate,
		p.InactivityThresholdMonths, p.NotifyOnInactivity, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update partnership: %w", err)
	}
	return expectAffected(res, "partnership", p.ID)
}

func (r *partnershipRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM partnerships WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete partnership: %w", err)
	}
	return expectAffected(res, "partnership", id)
}

func (r *partnershipRepository) UpdateInactivitySettings(ctx context.Context, id int64, thresholdMonths int, notify bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE partnerships
		SET inactivity_threshold_months=$1, notify_on_inactivity=$2, updated_at=NOW()
		WHERE id=$3`, thresholdMonths, notify, id)
	if err != nil {
		return fmt.Errorf("update inactivity settings: %w", err)
	}
	return expectAffected(res, "partnership", id)
}

func (r *partnershipRepository) MarkInactivityNotified(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE partnerships SET last_inactivity_notification_sent=$1 WHERE id=$2`, at, id)
	if err != nil {
		return fmt.Errorf("mark inactivity notified: %w", err)
	}
	return expectAffected(res, "partnership", id)
}

// AddActivity stores the activity and moves last_activity_date forward
// (never backwards) in one transaction.
func (r *partnershipRepository) AddActivity(ctx context.Context, a *models.PartnershipActivity) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	const ins = `
		INSERT INTO partnership_activities (partnership_id, activity_type, title, description, occurred_at, created_by)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`
	if err := tx.QueryRowContext(ctx, ins, a.PartnershipID, a.ActivityType, a.Title, a.Description, a.OccurredAt, a.CreatedBy).
		Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE partnerships
		SET last_activity_date = GREATEST(COALESCE(last_activity_date, $1), $1), updated_at = NOW()
		WHERE id = $2`, a.OccurredAt, a.PartnershipID)
	if err != nil {
		return fmt.Errorf("touch last activity: %w", err)
	}
	if err := expectAffected(res, "partnership", a.PartnershipID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *partnershipRepository) ListActivities(ctx context.Context, partnershipID int64) ([]models.PartnershipActivity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, partnership_id, activity_type, title, description, occurred_at, created_by, created_at
		FROM partnership_activities
		WHERE partnership_id = $1
		ORDER BY occurred_at DESC, id DESC`, partnershipID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	out := []models.PartnershipActivity{}
	for rows.Next() {
		var a models.PartnershipActivity
		if err := rows.Scan(&a.ID, &a.PartnershipID, &a.ActivityType, &a.Title, &a.Description,
			&a.OccurredAt, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
