// Package catalog provides read-only queries over the item catalog and the
// per-employee custodial holdings (distributed items).
package catalog

import "time"

// Item is a static catalog entry.
type Item struct {
	ID          int64   `json:"item_id"`
	ItemName    string  `json:"item_name"`
	Description string  `json:"description"`
	ParNo       string  `json:"par_no"`
	PisNo       string  `json:"pis_no"`
	PropNo      string  `json:"prop_no"`
	SerialNo    string  `json:"serial_no"`
	MrNo        string  `json:"mr_no"`
	UnitValue   float64 `json:"unit_value"`
	TotalValue  float64 `json:"total_value"`
}

// DepartmentItem is a holding listed for the borrow picker, joined with item
// metadata and the accountable employee's name.
type DepartmentItem struct {
	DistributedItemID int64  `json:"distributed_item_id"`
	ItemID            int64  `json:"item_id"`
	AccountableEmp    int64  `json:"accountable_emp"`
	CurrentDptID      int64  `json:"current_dpt_id"`
	Quantity          int64  `json:"quantity"`
	OriginalQuantity  int64  `json:"original_quantity"`
	ItemName          string `json:"item_name"`
	Description       string `json:"description"`
	ParNo             string `json:"par_no"`
	PisNo             string `json:"pis_no"`
	PropNo            string `json:"prop_no"`
	SerialNo          string `json:"serial_no"`
	MrNo              string `json:"mr_no"`
	AccountableName   string `json:"accountable_name"`
}

// OwnedItem is a holding of the accountable employee, with full item detail.
type OwnedItem struct {
	DistributedItemID int64   `json:"distributed_item_id"`
	ItemID            int64   `json:"item_id"`
	OwnerEmpID        int64   `json:"owner_emp_id"`
	Quantity          int64   `json:"quantity"`
	OriginalQuantity  int64   `json:"original_quantity"`
	Remarks           string  `json:"remarks"`
	ParNo             string  `json:"par_no"`
	MrNo              string  `json:"mr_no"`
	PisNo             string  `json:"pis_no"`
	PropNo            string  `json:"prop_no"`
	SerialNo          string  `json:"serial_no"`
	UnitValue         float64 `json:"unit_value"`
	TotalValue        float64 `json:"total_value"`
	ItemName          string  `json:"item_name"`
	Description       string  `json:"description"`
}

// BorrowedItem is one active or pending-return borrowing of an employee.
type BorrowedItem struct {
	TransactionID          int64     `json:"transactionId"`
	DistributedItemID      int64     `json:"distributed_item_id"`
	ItemID                 int64     `json:"item_id"`
	CreatedAt              time.Time `json:"createdAt"`
	Quantity               int64     `json:"quantity"`
	OwnerName              string    `json:"owner_name"`
	OwnerEmpID             int64     `json:"owner_emp_id"`
	ItemName               string    `json:"item_name"`
	Description            string    `json:"description"`
	ParNo                  string    `json:"par_no"`
	MrNo                   string    `json:"mr_no"`
	PisNo                  string    `json:"pis_no"`
	PropNo                 string    `json:"prop_no"`
	SerialNo               string    `json:"serial_no"`
	UnitValue              float64   `json:"unit_value"`
	TotalValue             float64   `json:"total_value"`
	Status                 int       `json:"status"`
	Remarks                int       `json:"remarks"`
	AlreadyRequestedReturn bool      `json:"already_requested_return"`
}

// BorrowedSummary aggregates an employee's borrowed holdings.
type BorrowedSummary struct {
	Items             []BorrowedItem `json:"borrowed_items"`
	TotalQuantity     int64          `json:"total_borrowed_quantity"`
	TotalTransactions int            `json:"total_borrowed_transactions"`
}
