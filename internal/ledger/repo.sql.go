package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adts-project/adts/internal/notify"
	"github.com/adts-project/adts/internal/platform/db"
)

// Repository persists ledger data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes transactional operations used by the service. Every
// check-then-act sequence runs through it so validation and writes share one
// database transaction.
type TxRepository interface {
	GetHoldingForUpdate(ctx context.Context, distributedItemID int64) (Holding, error)
	GetItemDetailByItem(ctx context.Context, itemID int64) (ItemDetail, error)
	InsertTransaction(ctx context.Context, t Transaction) (int64, error)
	GetActiveBorrowForUpdate(ctx context.Context, distributedItemID, borrowerEmpID int64) (Transaction, error)
	SetPendingReturn(ctx context.Context, id int64) error
	InsertNotification(ctx context.Context, n notify.Notification) (notify.Notification, error)
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("ledger repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

func (r *txRepository) GetHoldingForUpdate(ctx context.Context, distributedItemID int64) (Holding, error) {
	var h Holding
	err := r.tx.QueryRow(ctx, `SELECT di.id, di.item_id, di.accountable_emp, di.quantity, i.item_name
FROM distributed_items di
JOIN items i ON di.item_id = i.id
WHERE di.id = $1 AND di.deleted = FALSE
FOR UPDATE OF di`, distributedItemID).
		Scan(&h.ID, &h.ItemID, &h.OwnerEmpID, &h.Quantity, &h.ItemName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Holding{}, ErrItemNotFound
		}
		return Holding{}, err
	}
	return h, nil
}

func (r *txRepository) GetItemDetailByItem(ctx context.Context, itemID int64) (ItemDetail, error) {
	var d ItemDetail
	err := r.tx.QueryRow(ctx, `SELECT di.id, di.item_id, di.accountable_emp, di.quantity, di.original_quantity,
	COALESCE(i.par_no, ''), COALESCE(i.mr_no, ''), COALESCE(i.pis_no, ''), COALESCE(i.prop_no, ''), COALESCE(i.serial_no, ''),
	COALESCE(i.unit_value, 0), COALESCE(i.total_value, 0), i.item_name, COALESCE(i.description, '')
FROM distributed_items di
JOIN items i ON di.item_id = i.id
WHERE di.item_id = $1 AND di.deleted = FALSE
LIMIT 1`, itemID).
		Scan(&d.DistributedItemID, &d.ItemID, &d.OwnerEmpID, &d.Quantity, &d.OriginalQuantity,
			&d.ParNo, &d.MrNo, &d.PisNo, &d.PropNo, &d.SerialNo, &d.UnitValue, &d.TotalValue, &d.ItemName, &d.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ItemDetail{}, ErrItemNotFound
		}
		return ItemDetail{}, err
	}
	return d, nil
}

func (r *txRepository) InsertTransaction(ctx context.Context, t Transaction) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO borrowing_transaction (distributed_item_id, item_id, borrower_emp_id, owner_emp_id, quantity, dpt_id, status, remarks, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()) RETURNING id`,
		t.DistributedItemID, t.ItemID, t.BorrowerEmpID, t.OwnerEmpID, t.Quantity, t.DptID, int(t.Status), int(t.Remarks)).Scan(&id)
	return id, err
}

func (r *txRepository) GetActiveBorrowForUpdate(ctx context.Context, distributedItemID, borrowerEmpID int64) (Transaction, error) {
	var t Transaction
	err := r.tx.QueryRow(ctx, `SELECT id, distributed_item_id, item_id, borrower_emp_id, owner_emp_id, quantity, dpt_id, status, remarks, created_at, updated_at
FROM borrowing_transaction
WHERE distributed_item_id = $1 AND borrower_emp_id = $2 AND status = $3
LIMIT 1
FOR UPDATE`, distributedItemID, borrowerEmpID, int(StatusActive)).
		Scan(&t.ID, &t.DistributedItemID, &t.ItemID, &t.BorrowerEmpID, &t.OwnerEmpID, &t.Quantity, &t.DptID, &t.Status, &t.Remarks, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrTransactionNotFound
		}
		return Transaction{}, err
	}
	return t, nil
}

func (r *txRepository) SetPendingReturn(ctx context.Context, id int64) error {
	_, err := r.tx.Exec(ctx, `UPDATE borrowing_transaction SET status = $1, remarks = $2, updated_at = NOW() WHERE id = $3`,
		int(StatusPending), int(RemarksPendingReturn), id)
	return err
}

func (r *txRepository) InsertNotification(ctx context.Context, n notify.Notification) (notify.Notification, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO notification_tbl (recipient_emp_id, transaction_id, kind, item_id, quantity, request_status, message, read, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NOW(), NOW())
RETURNING id, created_at, updated_at`,
		n.RecipientEmpID, n.TransactionID, int(n.Kind), n.ItemID, n.Quantity, n.RequestStatus, n.Message).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return notify.Notification{}, err
	}
	return n, nil
}
