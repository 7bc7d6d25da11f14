package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/phishsim/internal/domain"
)

// StaffRepository handles persistence for staff records.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) error
	Update(ctx context.Context, staff *domain.Staff) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
	List(ctx context.Context, filter StaffFilter) ([]domain.Staff, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]domain.Staff, error)
	ListAll(ctx context.Context) ([]domain.Staff, error)
}

// StaffFilter defines query params for staff listing.
type StaffFilter struct {
	DepartmentID *string
	Name         *string
	Limit        int
	Offset       int
}

const staffColumns = `id, department_id, name, email, delivered, clicked, submitted,
        risk_score, latest_risk, direction, last_sent, created_at, updated_at`

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	const query = `
        INSERT INTO staff (department_id, name, email, delivered, clicked, submitted, risk_score, latest_risk, direction, last_sent)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		staff.DepartmentID,
		staff.Name,
		staff.Email,
		staff.Delivered,
		staff.Clicked,
		staff.Submitted,
		staff.RiskScore,
		staff.LatestRisk,
		staff.Direction,
		staff.LastSent,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.Staff) error {
	const query = `
        UPDATE staff
        SET department_id=$1, name=$2, email=$3, delivered=$4, clicked=$5, submitted=$6,
            risk_score=$7, latest_risk=$8, direction=$9, last_sent=$10, updated_at=NOW()
        WHERE id=$11`

	cmd, err := r.pool.Exec(ctx, query,
		staff.DepartmentID,
		staff.Name,
		staff.Email,
		staff.Delivered,
		staff.Clicked,
		staff.Submitted,
		staff.RiskScore,
		staff.LatestRisk,
		staff.Direction,
		staff.LastSent,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE email=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff`
	args := []any{}
	clauses := []string{}

	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.Name != nil {
		args = append(args, *filter.Name)
		clauses = append(clauses, fmt.Sprintf("LOWER(name)=LOWER($%d)", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY risk_score DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	return r.scanMany(ctx, query, args...)
}

func (r *staffRepository) ListByDepartment(ctx context.Context, departmentID string) ([]domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE department_id=$1`
	return r.scanMany(ctx, query, departmentID)
}

func (r *staffRepository) ListAll(ctx context.Context) ([]domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff ORDER BY created_at`
	return r.scanMany(ctx, query)
}

func (r *staffRepository) scanOne(row pgx.Row) (*domain.Staff, error) {
	var staff domain.Staff
	if err := row.Scan(
		&staff.ID,
		&staff.DepartmentID,
		&staff.Name,
		&staff.Email,
		&staff.Delivered,
		&staff.Clicked,
		&staff.Submitted,
		&staff.RiskScore,
		&staff.LatestRisk,
		&staff.Direction,
		&staff.LastSent,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) scanMany(ctx context.Context, query string, args ...any) ([]domain.Staff, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Staff
	for rows.Next() {
		var staff domain.Staff
		if err := rows.Scan(
			&staff.ID,
			&staff.DepartmentID,
			&staff.Name,
			&staff.Email,
			&staff.Delivered,
			&staff.Clicked,
			&staff.Submitted,
			&staff.RiskScore,
			&staff.LatestRisk,
			&staff.Direction,
			&staff.LastSent,
			&staff.CreatedAt,
			&staff.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}
