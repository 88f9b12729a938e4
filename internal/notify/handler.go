package notify

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adts-project/adts/internal/platform/httpx"
	"github.com/adts-project/adts/internal/shared"
)

// Handler wires notification endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers notification routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{empId}", h.List)
	r.Put("/mark_as_read/{notifId}", h.MarkAsRead)
	r.Post("/", h.Create)
}

// List returns notifications addressed to an employee.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	empID, err := strconv.ParseInt(chi.URLParam(r, "empId"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid employee ID")
		return
	}

	notifications, err := h.service.List(r.Context(), empID)
	if err != nil {
		h.logger.Error("list notifications", slog.Int64("emp_id", empID), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.JSON(w, http.StatusOK, notifications)
}

// MarkAsRead flags one notification as read.
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	notifID, err := strconv.ParseInt(chi.URLParam(r, "notifId"), 10, 64)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"message": "Missing notification ID"})
		return
	}

	if err := h.service.MarkRead(r.Context(), notifID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.JSON(w, http.StatusNotFound, map[string]string{"message": "Notification not found"})
			return
		}
		h.logger.Error("mark notification read", slog.Int64("notif_id", notifID), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

type createRequest struct {
	Message       string `json:"message"`
	ForEmp        int64  `json:"for_emp"`
	TransactionID int64  `json:"transaction_id"`
}

// Create persists a free-form notification and pushes it.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ForEmp == 0 || req.Message == "" {
		httpx.Error(w, http.StatusBadRequest, "message and for_emp are required")
		return
	}

	created, err := h.service.Create(r.Context(), Notification{
		RecipientEmpID: req.ForEmp,
		TransactionID:  req.TransactionID,
		Message:        req.Message,
	})
	if err != nil {
		h.logger.Error("create notification", slog.Int64("for_emp", req.ForEmp), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}
