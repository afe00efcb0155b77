package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventhub/internal/models"
)

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `id, name_en, name_ar, title, title_ar, organization, email, phone,
       partnership_id, notes, created_at, updated_at`

func scanContact(row rowScanner) (models.Contact, error) {
	var c models.Contact
	err := row.Scan(&c.ID, &c.NameEn, &c.NameAr, &c.Title, &c.TitleAr, &c.Organization, &c.Email, &c.Phone,
		&c.PartnershipID, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *ContactRepository) Create(ctx context.Context, c *models.Contact) error {
	const q = `
		INSERT INTO contacts (name_en, name_ar, title, title_ar, organization, email, phone,
			partnership_id, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, q, c.NameEn, c.NameAr, c.Title, c.TitleAr, c.Organization, c.Email, c.Phone,
		c.PartnershipID, c.Notes, c.CreatedAt, c.UpdatedAt).Scan(&c.ID); err != nil {
		return fmt.Errorf("create contact: %w", translateErr(err))
	}
	return nil
}

func (r *ContactRepository) Update(ctx context.Context, c *models.Contact) error {
	const q = `
		UPDATE contacts
		SET name_en=$1, name_ar=$2, title=$3, title_ar=$4, organization=$5, email=$6, phone=$7,
		    partnership_id=$8, notes=$9, updated_at=$10
		WHERE id=$11`
	res, err := r.db.ExecContext(ctx, q, c.NameEn, c.NameAr, c.Title, c.TitleAr, c.Organization, c.Email, c.Phone,
		c.PartnershipID, c.Notes, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update contact: %w", translateErr(err))
	}
	return expectAffected(res, "contact", c.ID)
}

func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("contact %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

// GetByEmail matches case-insensitively; returns nil, nil when absent.
func (r *ContactRepository) GetByEmail(ctx context.Context, email string) (*models.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE LOWER(email) = LOWER($1)`, strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact by email: %w", err)
	}
	return &c, nil
}

// List filters by a case-insensitive substring of name, organization or email.
func (r *ContactRepository) List(ctx context.Context, search string, limit, offset int) ([]models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts`
	args := []interface{}{}
	if s := strings.TrimSpace(search); s != "" {
		query += ` WHERE LOWER(name_en) LIKE $1 OR name_ar LIKE $2 OR LOWER(organization) LIKE $1 OR LOWER(email) LIKE $1`
		args = append(args, "%"+strings.ToLower(s)+"%", "%"+s+"%")
	}
	query += fmt.Sprintf(" ORDER BY name_en ASC, id ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := []models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContactRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return expectAffected(res, "contact", id)
}
