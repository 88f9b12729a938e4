package ledger

// BorrowRequest is the POST /borrow body. Field names follow the frontend
// contract.
type BorrowRequest struct {
	BorrowerEmpID     int64 `json:"borrower_emp_id" validate:"required,gt=0"`
	OwnerEmpID        int64 `json:"owner_emp_id" validate:"required,gt=0"`
	ItemID            int64 `json:"itemId" validate:"required,gt=0"`
	Quantity          int64 `json:"quantity" validate:"required,gt=0"`
	DptID             int64 `json:"DPT_ID" validate:"required,gt=0"`
	DistributedItemID int64 `json:"distributed_item_id" validate:"required,gt=0"`

	IdempotencyKey string `json:"-"`
}

// LendRequest is the POST /lend_transaction body. The distributed item id is
// optional; when absent it is resolved from the catalog join.
type LendRequest struct {
	EmpID             int64 `json:"emp_id" validate:"required,gt=0"`
	ItemID            int64 `json:"itemId" validate:"required,gt=0"`
	Quantity          int64 `json:"quantity" validate:"required,gt=0"`
	BorrowerID        int64 `json:"borrowerId" validate:"required,gt=0"`
	CurrentDptID      int64 `json:"currentDptId" validate:"required,gt=0"`
	DistributedItemID int64 `json:"distributedItemId"`

	IdempotencyKey string `json:"-"`
}

// TransferRequest is the POST /transfer_Transaction body.
type TransferRequest struct {
	EmpID             int64 `json:"emp_id" validate:"required,gt=0"`
	ItemID            int64 `json:"itemId" validate:"required,gt=0"`
	Quantity          int64 `json:"quantity" validate:"required,gt=0"`
	ReceiverID        int64 `json:"receiverId" validate:"required,gt=0"`
	CurrentDptID      int64 `json:"currentDptId" validate:"required,gt=0"`
	DistributedItemID int64 `json:"distributedItemId" validate:"required,gt=0"`

	IdempotencyKey string `json:"-"`
}

// ReturnRequest is the POST /return body. The owner id is optional; when
// supplied it must match the matched transaction's recorded owner.
type ReturnRequest struct {
	BorrowerEmpID     int64 `json:"borrower_emp_id" validate:"required,gt=0"`
	OwnerEmpID        int64 `json:"owner_emp_id"`
	ItemID            int64 `json:"item_id" validate:"required,gt=0"`
	Quantity          int64 `json:"quantity" validate:"required,gt=0"`
	CurrentDptID      int64 `json:"current_dpt_id" validate:"required,gt=0"`
	DistributedItemID int64 `json:"distributed_item_id" validate:"required,gt=0"`

	IdempotencyKey string `json:"-"`
}
