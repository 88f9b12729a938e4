package employees

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adts-project/adts/internal/shared"
)

// Repository reads employee records from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID fetches a single employee.
func (r *Repository) GetByID(ctx context.Context, id int64) (Employee, error) {
	if r == nil {
		return Employee{}, errors.New("employees repository not initialised")
	}
	var emp Employee
	err := r.pool.QueryRow(ctx, `SELECT id, id_number, firstname, COALESCE(middlename, ''), lastname, COALESCE(suffix, ''), current_dpt_id
FROM employee WHERE id = $1`, id).
		Scan(&emp.ID, &emp.IDNumber, &emp.FirstName, &emp.MiddleName, &emp.LastName, &emp.Suffix, &emp.CurrentDptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, shared.ErrNotFound
		}
		return Employee{}, err
	}
	return emp, nil
}

// Search lists department members excluding one employee, optionally filtered
// by name or ID number.
func (r *Repository) Search(ctx context.Context, filter SearchFilter) ([]Employee, error) {
	if r == nil {
		return nil, errors.New("employees repository not initialised")
	}
	query := `SELECT id, id_number, firstname, COALESCE(middlename, ''), lastname, COALESCE(suffix, ''), current_dpt_id
FROM employee
WHERE current_dpt_id = $1 AND id <> $2`
	args := []any{filter.DepartmentID, filter.ExcludeEmpID}

	if filter.Query != "" {
		if filter.SearchType == SearchTypeIDNumber {
			query += ` AND id_number ILIKE '%' || $3 || '%'`
		} else {
			query += ` AND (firstname || ' ' || lastname) ILIKE '%' || $3 || '%'`
		}
		args = append(args, filter.Query)
	}
	query += ` ORDER BY lastname, firstname`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.IDNumber, &emp.FirstName, &emp.MiddleName, &emp.LastName, &emp.Suffix, &emp.CurrentDptID); err != nil {
			return nil, err
		}
		result = append(result, emp)
	}
	return result, rows.Err()
}
