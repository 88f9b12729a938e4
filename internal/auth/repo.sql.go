package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists auth data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindEmployeeByIDNumber resolves an employee by their ID number.
func (r *Repository) FindEmployeeByIDNumber(ctx context.Context, idNumber string) (EmployeeRef, error) {
	var ref EmployeeRef
	err := r.pool.QueryRow(ctx, `SELECT id, COALESCE(firstname, ''), COALESCE(current_dpt_id, 0)
FROM employee WHERE id_number = $1`, idNumber).
		Scan(&ref.EmpID, &ref.FirstName, &ref.CurrentDptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EmployeeRef{}, ErrEmployeeNotFound
		}
		return EmployeeRef{}, err
	}
	return ref, nil
}

// EmployeeExists reports whether the employee id exists.
func (r *Repository) EmployeeExists(ctx context.Context, empID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employee WHERE id = $1)`, empID).Scan(&exists)
	return exists, err
}

// FindUserByEmpID loads the account row for an employee.
func (r *Repository) FindUserByEmpID(ctx context.Context, empID int64) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `SELECT id, emp_id, email, password, role FROM users WHERE emp_id = $1`, empID).
		Scan(&u.ID, &u.EmpID, &u.Email, &u.PasswordHash, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

// FindUserByEmail loads the account row by email.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `SELECT id, emp_id, email, password, role FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.EmpID, &u.Email, &u.PasswordHash, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrEmailNotFound
		}
		return User{}, err
	}
	return u, nil
}

// UpsertUser creates or replaces the account row for an employee.
func (r *Repository) UpsertUser(ctx context.Context, empID int64, email, passwordHash string, role int) (created bool, err error) {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET email = $1, password = $2, role = $3 WHERE emp_id = $4`,
		email, passwordHash, role, empID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO users (emp_id, email, password, role) VALUES ($1, $2, $3, $4)`,
		empID, email, passwordHash, role)
	return true, err
}

// UpdatePasswordByEmpID replaces the stored password hash.
func (r *Repository) UpdatePasswordByEmpID(ctx context.Context, empID int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password = $1 WHERE emp_id = $2`, passwordHash, empID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePasswordByEmail replaces the stored password hash, keyed by email.
func (r *Repository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password = $1 WHERE email = $2`, passwordHash, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmailNotFound
	}
	return nil
}

// UpdateEmail replaces the account email.
func (r *Repository) UpdateEmail(ctx context.Context, empID int64, email string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET email = $1 WHERE emp_id = $2`, email, empID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// InsertOTP stores a recovery code with its expiry.
func (r *Repository) InsertOTP(ctx context.Context, empID int64, code string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO user_otps (emp_id, otp, expires_at) VALUES ($1, $2, $3)`, empID, code, expiresAt)
	return err
}

// ConsumeOTP verifies the newest unexpired code for the employee and, on a
// match, deletes every code the employee holds.
func (r *Repository) ConsumeOTP(ctx context.Context, empID int64, code string) error {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM user_otps
WHERE emp_id = $1 AND otp = $2 AND expires_at > NOW()
ORDER BY id DESC LIMIT 1`, empID, code).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOTPInvalid
		}
		return err
	}
	_, err = r.pool.Exec(ctx, `DELETE FROM user_otps WHERE emp_id = $1`, empID)
	return err
}

// PurgeExpiredOTPs deletes codes past their expiry. Called from the worker.
func (r *Repository) PurgeExpiredOTPs(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_otps WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
