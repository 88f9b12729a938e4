// Package ledger records borrow, lend, transfer, and return events against
// distributed items and fans out the resulting notifications.
package ledger

import (
	"errors"
	"time"
)

// Status encodes transaction lifecycle state. Only the observed values exist;
// approval and completion transitions belong to an external component.
type Status int

const (
	// StatusActive marks an approved, in-effect transaction.
	StatusActive Status = 1
	// StatusPending marks a transaction awaiting review.
	StatusPending Status = 2
)

// Remarks disambiguates the action kind behind a pending transaction.
type Remarks int

const (
	// RemarksBorrow tags a borrow request.
	RemarksBorrow Remarks = 1
	// RemarksLend tags a lend request.
	RemarksLend Remarks = 2
	// RemarksTransfer tags a transfer request.
	RemarksTransfer Remarks = 4
	// RemarksPendingReturn tags a return awaiting settlement.
	RemarksPendingReturn Remarks = 5
)

// Transaction is one ledger row.
type Transaction struct {
	ID                int64     `json:"id"`
	DistributedItemID int64     `json:"distributed_item_id"`
	ItemID            int64     `json:"item_id"`
	BorrowerEmpID     int64     `json:"borrower_emp_id"`
	OwnerEmpID        int64     `json:"owner_emp_id"`
	Quantity          int64     `json:"quantity"`
	DptID             int64     `json:"dpt_id"`
	Status            Status    `json:"status"`
	Remarks           Remarks   `json:"remarks"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Holding is the row-locked view of a distributed item used while validating
// a borrow request.
type Holding struct {
	ID         int64
	ItemID     int64
	OwnerEmpID int64
	Quantity   int64
	ItemName   string
}

// ItemDetail is the holding joined with catalog metadata, used to render
// notification text for lend and transfer requests.
type ItemDetail struct {
	DistributedItemID int64
	ItemID            int64
	OwnerEmpID        int64
	Quantity          int64
	OriginalQuantity  int64
	ParNo             string
	MrNo              string
	PisNo             string
	PropNo            string
	SerialNo          string
	UnitValue         float64
	TotalValue        float64
	ItemName          string
	Description       string
}

// ErrItemNotFound indicates the referenced distributed item is absent or deleted.
var ErrItemNotFound = errors.New("ledger: item not found")

// ErrTransactionNotFound indicates no matching active transaction exists.
var ErrTransactionNotFound = errors.New("ledger: borrowing transaction not found")

// ErrInvalidOwner indicates the supplied owner does not match the record.
var ErrInvalidOwner = errors.New("ledger: invalid owner for this item")

// ErrInsufficientStock indicates the requested quantity exceeds the holding.
var ErrInsufficientStock = errors.New("ledger: not enough stock available")

// ErrExceedsBorrowed indicates a return larger than the borrowed quantity.
var ErrExceedsBorrowed = errors.New("ledger: returned quantity exceeds borrowed amount")
