package ledger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *memoryRepo) chi.Router {
	svc, _, _ := newTestService(repo)
	h := NewHandler(slog.Default(), svc)
	r := chi.NewRouter()
	h.MountBorrowRoutes(r)
	h.MountLendRoutes(r)
	h.MountTransferRoutes(r)
	h.MountReturnRoutes(r)
	return r
}

func postJSON(t *testing.T, r chi.Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestBorrowHandlerHappyPath(t *testing.T) {
	repo := newMemoryRepo()
	seedHolding(repo)
	r := newTestRouter(repo)

	rec := postJSON(t, r, "/borrow", map[string]any{
		"borrower_emp_id": 3, "owner_emp_id": 5, "itemId": 7,
		"quantity": 2, "DPT_ID": 1, "distributed_item_id": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Borrow transaction recorded and notification saved!", resp["message"])
	require.NotZero(t, resp["transactionId"])
}

func TestBorrowHandlerValidation(t *testing.T) {
	repo := newMemoryRepo()
	seedHolding(repo)
	r := newTestRouter(repo)

	rec := postJSON(t, r, "/borrow", map[string]any{
		"borrower_emp_id": 3, "owner_emp_id": 5, "itemId": 7,
		"quantity": -1, "DPT_ID": 1, "distributed_item_id": 10,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid quantity provided")

	rec = postJSON(t, r, "/borrow", map[string]any{"borrower_emp_id": 3})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Missing required fields")
}

func TestBorrowHandlerStockAndOwnerErrors(t *testing.T) {
	repo := newMemoryRepo()
	seedHolding(repo)
	r := newTestRouter(repo)

	rec := postJSON(t, r, "/borrow", map[string]any{
		"borrower_emp_id": 3, "owner_emp_id": 5, "itemId": 7,
		"quantity": 99, "DPT_ID": 1, "distributed_item_id": 10,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Not enough stock available")

	rec = postJSON(t, r, "/borrow", map[string]any{
		"borrower_emp_id": 3, "owner_emp_id": 8, "itemId": 7,
		"quantity": 1, "DPT_ID": 1, "distributed_item_id": 10,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid owner for this item")

	rec = postJSON(t, r, "/borrow", map[string]any{
		"borrower_emp_id": 3, "owner_emp_id": 5, "itemId": 7,
		"quantity": 1, "DPT_ID": 1, "distributed_item_id": 404,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Item not found")
}

func TestLendHandlerUnknownItem(t *testing.T) {
	repo := newMemoryRepo()
	r := newTestRouter(repo)

	rec := postJSON(t, r, "/lend_transaction", map[string]any{
		"emp_id": 5, "itemId": 7, "quantity": 1, "borrowerId": 3, "currentDptId": 1,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Item details not found.")
}

func TestReturnHandlerMissingFields(t *testing.T) {
	repo := newMemoryRepo()
	r := newTestRouter(repo)

	rec := postJSON(t, r, "/return", map[string]any{"borrower_emp_id": 3, "item_id": 7})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error         string   `json:"error"`
		MissingFields []string `json:"missingFields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Missing required fields", resp.Error)
	require.ElementsMatch(t, []string{"quantity", "current_dpt_id", "distributed_item_id"}, resp.MissingFields)
}

func TestReturnHandlerNoActiveTransaction(t *testing.T) {
	repo := newMemoryRepo()
	seedHolding(repo)
	r := newTestRouter(repo)

	rec := postJSON(t, r, "/return", map[string]any{
		"borrower_emp_id": 3, "item_id": 7, "quantity": 1,
		"current_dpt_id": 1, "distributed_item_id": 10,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Borrowing transaction not found")
}
