package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adts-project/adts/internal/platform/httpx"
	"github.com/adts-project/adts/internal/shared"
)

// Handler wires catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountItemRoutes registers item lookup routes on the provided router.
func (h *Handler) MountItemRoutes(r chi.Router) {
	r.Get("/item-details/{item_id}", h.GetItemDetails)
	r.Get("/borrowed/{borrower_emp_id}", h.ListBorrowedItems)
	r.Get("/{emp_id}", h.ListOwnedItems)
}

// ListDepartmentItems lists holdings in a department excluding one employee.
func (h *Handler) ListDepartmentItems(w http.ResponseWriter, r *http.Request) {
	dptID, err := strconv.ParseInt(chi.URLParam(r, "currentDptId"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid currentDptId parameter.")
		return
	}
	empID, err := strconv.ParseInt(chi.URLParam(r, "empId"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid empId parameter.")
		return
	}

	items, err := h.service.ListDepartmentItems(r.Context(), dptID, empID)
	if err != nil {
		h.logger.Error("list department items", slog.Int64("dpt_id", dptID), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

// GetItemDetails returns descriptive metadata for one catalog item.
func (h *Handler) GetItemDetails(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid item_id parameter.")
		return
	}

	item, err := h.service.GetItem(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Item not found.")
			return
		}
		h.logger.Error("fetch item details", slog.Int64("item_id", itemID), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"item_details": item})
}

// ListOwnedItems lists the holdings an employee is accountable for.
func (h *Handler) ListOwnedItems(w http.ResponseWriter, r *http.Request) {
	empID, err := strconv.ParseInt(chi.URLParam(r, "emp_id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid emp_id parameter.")
		return
	}

	items, err := h.service.ListOwnedItems(r.Context(), empID)
	if err != nil {
		h.logger.Error("list owned items", slog.Int64("emp_id", empID), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"owned_items": items})
}

// ListBorrowedItems lists an employee's borrowed holdings with totals.
func (h *Handler) ListBorrowedItems(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := strconv.ParseInt(chi.URLParam(r, "borrower_emp_id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid borrower_emp_id parameter.")
		return
	}

	summary, err := h.service.ListBorrowedItems(r.Context(), borrowerID)
	if err != nil {
		h.logger.Error("list borrowed items", slog.Int64("borrower_emp_id", borrowerID), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
