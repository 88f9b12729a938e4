package employees

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adts-project/adts/internal/platform/httpx"
	"github.com/adts-project/adts/internal/shared"
)

// Handler wires identity lookup endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// GetDisplayName resolves an employee's full display name.
func (h *Handler) GetDisplayName(w http.ResponseWriter, r *http.Request) {
	empID, err := strconv.ParseInt(chi.URLParam(r, "empId"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid empId parameter.")
		return
	}

	emp, err := h.service.Get(r.Context(), empID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("fetch employee", slog.Int64("emp_id", empID), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"userName": emp.DisplayName()})
}

type directoryEntry struct {
	BorrowerID int64  `json:"borrowerId,omitempty"`
	ReceiverID int64  `json:"receiverId,omitempty"`
	IDNumber   string `json:"id_number"`
	FirstName  string `json:"firstname"`
	MiddleName string `json:"middlename"`
	LastName   string `json:"lastname"`
	Suffix     string `json:"suffix"`
}

// ListBorrowers lists department members available as borrowers.
func (h *Handler) ListBorrowers(w http.ResponseWriter, r *http.Request) {
	h.listDirectory(w, r, "borrower")
}

// ListReceivers lists department members available as transfer receivers.
func (h *Handler) ListReceivers(w http.ResponseWriter, r *http.Request) {
	h.listDirectory(w, r, "receiver")
}

func (h *Handler) listDirectory(w http.ResponseWriter, r *http.Request, role string) {
	q := r.URL.Query()
	dptID, err1 := strconv.ParseInt(q.Get("current_dpt_id"), 10, 64)
	empID, err2 := strconv.ParseInt(q.Get("emp_id"), 10, 64)
	if err1 != nil || err2 != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"message": "Missing required parameters"})
		return
	}

	matches, err := h.service.Search(r.Context(), SearchFilter{
		DepartmentID: dptID,
		ExcludeEmpID: empID,
		Query:        q.Get("query"),
		SearchType:   q.Get("search_type"),
	})
	if err != nil {
		h.logger.Error("search employees", slog.String("role", role), slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		return
	}
	if len(matches) == 0 {
		httpx.JSON(w, http.StatusNotFound, map[string]string{"message": "No " + role + "s found"})
		return
	}

	entries := make([]directoryEntry, 0, len(matches))
	for _, emp := range matches {
		entry := directoryEntry{
			IDNumber:   emp.IDNumber,
			FirstName:  emp.FirstName,
			MiddleName: emp.MiddleName,
			LastName:   emp.LastName,
			Suffix:     emp.Suffix,
		}
		if role == "receiver" {
			entry.ReceiverID = emp.ID
		} else {
			entry.BorrowerID = emp.ID
		}
		entries = append(entries, entry)
	}
	httpx.JSON(w, http.StatusOK, entries)
}
