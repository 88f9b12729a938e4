// Package notify persists notification records and optionally pushes them to
// subscribed clients in real time.
package notify

import "time"

// Kind tags a notification with the transaction kind that produced it. Values
// mirror the ledger remarks codes.
type Kind int

const (
	// KindBorrow marks a borrow request notification.
	KindBorrow Kind = 1
	// KindLend marks a lend request notification.
	KindLend Kind = 2
	// KindTransfer marks a transfer request notification.
	KindTransfer Kind = 4
	// KindReturn marks a pending-return notification.
	KindReturn Kind = 5
)

// Notification is one persisted notification row, addressed to a single
// employee. Structured fields and the rendered message live on the same row.
type Notification struct {
	ID             int64     `json:"id"`
	RecipientEmpID int64     `json:"recipient_emp_id"`
	TransactionID  int64     `json:"transaction_id"`
	Kind           Kind      `json:"kind"`
	ItemID         int64     `json:"item_id"`
	Quantity       int64     `json:"quantity"`
	RequestStatus  int       `json:"request_status"`
	Message        string    `json:"message"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
