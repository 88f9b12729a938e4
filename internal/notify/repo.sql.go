package notify

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adts-project/adts/internal/shared"
)

// Repository persists notifications in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores one notification row.
func (r *Repository) Insert(ctx context.Context, n Notification) (Notification, error) {
	if r == nil {
		return Notification{}, errors.New("notify repository not initialised")
	}
	err := r.pool.QueryRow(ctx, `INSERT INTO notification_tbl (recipient_emp_id, transaction_id, kind, item_id, quantity, request_status, message, read, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NOW(), NOW())
RETURNING id, created_at, updated_at`,
		n.RecipientEmpID, n.TransactionID, int(n.Kind), n.ItemID, n.Quantity, n.RequestStatus, n.Message).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return Notification{}, err
	}
	return n, nil
}

// ListForEmployee lists notifications addressed to an employee, unread first,
// newest first.
func (r *Repository) ListForEmployee(ctx context.Context, empID int64) ([]Notification, error) {
	if r == nil {
		return nil, errors.New("notify repository not initialised")
	}
	rows, err := r.pool.Query(ctx, `SELECT id, recipient_emp_id, transaction_id, kind, item_id, quantity, request_status, message, read, created_at, updated_at
FROM notification_tbl
WHERE recipient_emp_id = $1
ORDER BY read ASC, created_at DESC`, empID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RecipientEmpID, &n.TransactionID, &n.Kind, &n.ItemID, &n.Quantity, &n.RequestStatus, &n.Message, &n.Read, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkAsRead flags one notification as read. Repeating the call is harmless.
func (r *Repository) MarkAsRead(ctx context.Context, id int64) error {
	if r == nil {
		return errors.New("notify repository not initialised")
	}
	tag, err := r.pool.Exec(ctx, `UPDATE notification_tbl SET read = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
