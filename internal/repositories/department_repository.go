package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventhub/internal/models"
)

type DepartmentRepository struct {
	db *sql.DB
}

func NewDepartmentRepository(db *sql.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, d *models.Department) error {
	const q = `
		INSERT INTO departments (name, name_ar, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	if err := r.db.QueryRowContext(ctx, q, d.Name, d.NameAr, d.Email, d.Phone).Scan(&d.ID, &d.CreatedAt); err != nil {
		return fmt.Errorf("create department: %w", translateErr(err))
	}
	return nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	const q = `SELECT id, name, name_ar, email, phone, created_at FROM departments WHERE id=$1`
	var d models.Department
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.Name, &d.NameAr, &d.Email, &d.Phone, &d.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("department %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &d, nil
}

func (r *DepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	const q = `SELECT id, name, name_ar, email, phone, created_at FROM departments ORDER BY name ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	out := []models.Department{}
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.NameAr, &d.Email, &d.Phone, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DepartmentRepository) Update(ctx context.Context, d *models.Department) error {
	const q = `UPDATE departments SET name=$1, name_ar=$2, email=$3, phone=$4 WHERE id=$5`
	res, err := r.db.ExecContext(ctx, q, d.Name, d.NameAr, d.Email, d.Phone, d.ID)
	if err != nil {
		return fmt.Errorf("update department: %w", translateErr(err))
	}
	return expectAffected(res, "department", d.ID)
}

func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", translateErr(err))
	}
	return expectAffected(res, "department", id)
}
