package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adts-project/adts/internal/shared"
)

// Repository reads catalog data from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListDepartmentItems lists non-deleted holdings in a department excluding one
// employee's own, sorted by quantity descending.
func (r *Repository) ListDepartmentItems(ctx context.Context, dptID, excludeEmpID int64) ([]DepartmentItem, error) {
	if r == nil {
		return nil, errors.New("catalog repository not initialised")
	}
	rows, err := r.pool.Query(ctx, `SELECT di.id, di.item_id, di.accountable_emp, di.current_dpt_id, di.quantity, di.original_quantity,
	COALESCE(i.item_name, ''), COALESCE(i.description, ''), COALESCE(i.par_no, ''), COALESCE(i.pis_no, ''),
	COALESCE(i.prop_no, ''), COALESCE(i.serial_no, ''), COALESCE(i.mr_no, ''),
	COALESCE(e.firstname, ''), COALESCE(e.middlename, ''), COALESCE(e.lastname, ''), COALESCE(e.suffix, '')
FROM distributed_items di
LEFT JOIN employee e ON di.accountable_emp = e.id
LEFT JOIN items i ON di.item_id = i.id
WHERE di.current_dpt_id = $1 AND di.deleted = FALSE AND di.accountable_emp <> $2
ORDER BY di.quantity DESC`, dptID, excludeEmpID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []DepartmentItem{}
	for rows.Next() {
		var it DepartmentItem
		var first, middle, last, suffix string
		if err := rows.Scan(&it.DistributedItemID, &it.ItemID, &it.AccountableEmp, &it.CurrentDptID, &it.Quantity, &it.OriginalQuantity,
			&it.ItemName, &it.Description, &it.ParNo, &it.PisNo, &it.PropNo, &it.SerialNo, &it.MrNo,
			&first, &middle, &last, &suffix); err != nil {
			return nil, err
		}
		it.AccountableName = joinNameParts(first, middle, last, suffix)
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetItem fetches a single catalog entry.
func (r *Repository) GetItem(ctx context.Context, itemID int64) (Item, error) {
	if r == nil {
		return Item{}, errors.New("catalog repository not initialised")
	}
	var it Item
	err := r.pool.QueryRow(ctx, `SELECT id, item_name, COALESCE(description, ''), COALESCE(par_no, ''), COALESCE(pis_no, ''),
	COALESCE(prop_no, ''), COALESCE(serial_no, ''), COALESCE(mr_no, ''), COALESCE(unit_value, 0), COALESCE(total_value, 0)
FROM items WHERE id = $1`, itemID).
		Scan(&it.ID, &it.ItemName, &it.Description, &it.ParNo, &it.PisNo, &it.PropNo, &it.SerialNo, &it.MrNo, &it.UnitValue, &it.TotalValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, shared.ErrNotFound
		}
		return Item{}, err
	}
	return it, nil
}

// ListOwnedItems lists the holdings an employee is accountable for.
func (r *Repository) ListOwnedItems(ctx context.Context, empID int64) ([]OwnedItem, error) {
	if r == nil {
		return nil, errors.New("catalog repository not initialised")
	}
	rows, err := r.pool.Query(ctx, `SELECT di.id, di.item_id, di.accountable_emp, di.quantity, di.original_quantity, COALESCE(di.remarks, ''),
	COALESCE(i.par_no, ''), COALESCE(i.mr_no, ''), COALESCE(i.pis_no, ''), COALESCE(i.prop_no, ''), COALESCE(i.serial_no, ''),
	COALESCE(i.unit_value, 0), COALESCE(i.total_value, 0), i.item_name, COALESCE(i.description, '')
FROM distributed_items di
JOIN items i ON di.item_id = i.id
WHERE di.accountable_emp = $1 AND di.deleted = FALSE
ORDER BY di.quantity DESC`, empID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []OwnedItem{}
	for rows.Next() {
		var it OwnedItem
		if err := rows.Scan(&it.DistributedItemID, &it.ItemID, &it.OwnerEmpID, &it.Quantity, &it.OriginalQuantity, &it.Remarks,
			&it.ParNo, &it.MrNo, &it.PisNo, &it.PropNo, &it.SerialNo, &it.UnitValue, &it.TotalValue, &it.ItemName, &it.Description); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListBorrowedItems lists active and pending-return borrowings of an employee
// with item detail and owner names.
func (r *Repository) ListBorrowedItems(ctx context.Context, borrowerEmpID int64) ([]BorrowedItem, error) {
	if r == nil {
		return nil, errors.New("catalog repository not initialised")
	}
	rows, err := r.pool.Query(ctx, `SELECT bt.id, bt.distributed_item_id, bt.owner_emp_id, bt.created_at, bt.quantity, bt.status, bt.remarks,
	i.id, COALESCE(i.par_no, ''), COALESCE(i.mr_no, ''), COALESCE(i.pis_no, ''), COALESCE(i.prop_no, ''), COALESCE(i.serial_no, ''),
	COALESCE(i.unit_value, 0), COALESCE(i.total_value, 0), i.item_name, COALESCE(i.description, ''),
	COALESCE(e.firstname, ''), COALESCE(e.middlename, ''), COALESCE(e.lastname, ''), COALESCE(e.suffix, '')
FROM borrowing_transaction bt
JOIN items i ON bt.item_id = i.id
LEFT JOIN employee e ON bt.owner_emp_id = e.id
WHERE bt.borrower_emp_id = $1
AND ((bt.status = 1 AND bt.remarks = 1) OR (bt.status = 2 AND bt.remarks = 5))
ORDER BY bt.quantity DESC`, borrowerEmpID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []BorrowedItem{}
	for rows.Next() {
		var it BorrowedItem
		var first, middle, last, suffix string
		if err := rows.Scan(&it.TransactionID, &it.DistributedItemID, &it.OwnerEmpID, &it.CreatedAt, &it.Quantity, &it.Status, &it.Remarks,
			&it.ItemID, &it.ParNo, &it.MrNo, &it.PisNo, &it.PropNo, &it.SerialNo, &it.UnitValue, &it.TotalValue, &it.ItemName, &it.Description,
			&first, &middle, &last, &suffix); err != nil {
			return nil, err
		}
		it.OwnerName = joinNameParts(first, middle, last, suffix)
		if it.OwnerName == "" {
			it.OwnerName = "Unknown Owner"
		}
		it.AlreadyRequestedReturn = it.Status == 2 && it.Remarks == 5
		items = append(items, it)
	}
	return items, rows.Err()
}

func joinNameParts(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, " ")
}
