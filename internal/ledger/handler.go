package ledger

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/adts-project/adts/internal/platform/httpx"
	"github.com/adts-project/adts/internal/shared"
)

// Handler wires the transaction workflow endpoints. Response bodies match the
// frontend contract verbatim, including the exact message strings.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// Borrow handles POST /borrow.
func (h *Handler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req BorrowRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	req.IdempotencyKey = r.Header.Get("Idempotency-Key")

	if err := h.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				if fe.Field() == "Quantity" && fe.Tag() == "gt" {
					httpx.Error(w, http.StatusBadRequest, "Invalid quantity provided")
					return
				}
			}
		}
		httpx.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	transactionID, err := h.service.Borrow(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrItemNotFound):
			httpx.Error(w, http.StatusNotFound, "Item not found")
		case errors.Is(err, ErrInvalidOwner):
			httpx.Error(w, http.StatusBadRequest, "Invalid owner for this item")
		case errors.Is(err, ErrInsufficientStock):
			httpx.Error(w, http.StatusBadRequest, "Not enough stock available")
		case errors.Is(err, shared.ErrIdempotencyConflict):
			httpx.Error(w, http.StatusConflict, "Duplicate request")
		default:
			h.logger.Error("borrow transaction", slog.Int64("borrower_emp_id", req.BorrowerEmpID), slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":       "Borrow transaction recorded and notification saved!",
		"transactionId": transactionID,
	})
}

// Lend handles POST /lend_transaction.
func (h *Handler) Lend(w http.ResponseWriter, r *http.Request) {
	var req LendRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"message": "Missing required fields."})
		return
	}
	req.IdempotencyKey = r.Header.Get("Idempotency-Key")

	if err := h.validate.Struct(req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"message": "Missing required fields."})
		return
	}

	transactionID, err := h.service.Lend(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrItemNotFound):
			httpx.JSON(w, http.StatusNotFound, map[string]string{"message": "Item details not found."})
		case errors.Is(err, shared.ErrIdempotencyConflict):
			httpx.JSON(w, http.StatusConflict, map[string]string{"message": "Duplicate request"})
		default:
			h.logger.Error("lend transaction", slog.Int64("emp_id", req.EmpID), slog.Any("error", err))
			httpx.JSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error."})
		}
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":       "Request submitted successfully!",
		"transactionId": transactionID,
	})
}

// Transfer handles POST /transfer_Transaction.
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"message": "Missing required fields."})
		return
	}
	req.IdempotencyKey = r.Header.Get("Idempotency-Key")

	if err := h.validate.Struct(req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"message": "Missing required fields."})
		return
	}

	transactionID, err := h.service.Transfer(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrItemNotFound):
			httpx.JSON(w, http.StatusNotFound, map[string]string{"message": "Item details not found."})
		case errors.Is(err, shared.ErrIdempotencyConflict):
			httpx.JSON(w, http.StatusConflict, map[string]string{"message": "Duplicate request"})
		default:
			h.logger.Error("transfer transaction", slog.Int64("emp_id", req.EmpID), slog.Any("error", err))
			httpx.JSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error."})
		}
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":       "Transfer request submitted successfully!",
		"transactionId": transactionID,
	})
}

// Return handles POST /return. Missing fields are reported individually so
// the frontend can highlight them.
func (h *Handler) Return(w http.ResponseWriter, r *http.Request) {
	var req ReturnRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]any{
			"error":         "Missing required fields",
			"missingFields": []string{"borrower_emp_id", "item_id", "quantity", "current_dpt_id", "distributed_item_id"},
		})
		return
	}
	req.IdempotencyKey = r.Header.Get("Idempotency-Key")

	if missing := missingReturnFields(req); len(missing) > 0 {
		httpx.JSON(w, http.StatusBadRequest, map[string]any{
			"error":         "Missing required fields",
			"missingFields": missing,
		})
		return
	}

	transactionID, err := h.service.Return(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrItemNotFound):
			httpx.Error(w, http.StatusNotFound, "Item not found")
		case errors.Is(err, ErrTransactionNotFound):
			httpx.Error(w, http.StatusNotFound, "Borrowing transaction not found")
		case errors.Is(err, ErrInvalidOwner):
			httpx.Error(w, http.StatusBadRequest, "Invalid owner for this item")
		case errors.Is(err, ErrExceedsBorrowed):
			httpx.Error(w, http.StatusBadRequest, "Returned quantity exceeds borrowed amount")
		case errors.Is(err, shared.ErrIdempotencyConflict):
			httpx.Error(w, http.StatusConflict, "Duplicate request")
		default:
			h.logger.Error("return transaction", slog.Int64("borrower_emp_id", req.BorrowerEmpID), slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":       "Return request submitted successfully!",
		"transactionId": transactionID,
	})
}

func missingReturnFields(req ReturnRequest) []string {
	var missing []string
	if req.BorrowerEmpID <= 0 {
		missing = append(missing, "borrower_emp_id")
	}
	if req.ItemID <= 0 {
		missing = append(missing, "item_id")
	}
	if req.Quantity <= 0 {
		missing = append(missing, "quantity")
	}
	if req.CurrentDptID <= 0 {
		missing = append(missing, "current_dpt_id")
	}
	if req.DistributedItemID <= 0 {
		missing = append(missing, "distributed_item_id")
	}
	return missing
}
