package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/adts-project/adts/internal/shared"
)

type memoryRepo struct {
	rows   map[int64]Notification
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int64]Notification{}, nextID: 1}
}

func (m *memoryRepo) Insert(_ context.Context, n Notification) (Notification, error) {
	n.ID = m.nextID
	m.nextID++
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	m.rows[n.ID] = n
	return n, nil
}

func (m *memoryRepo) ListForEmployee(_ context.Context, empID int64) ([]Notification, error) {
	var out []Notification
	for _, n := range m.rows {
		if n.RecipientEmpID == empID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Read != out[j].Read {
			return !out[i].Read
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memoryRepo) MarkAsRead(_ context.Context, id int64) error {
	n, ok := m.rows[id]
	if !ok {
		return shared.ErrNotFound
	}
	n.Read = true
	m.rows[id] = n
	return nil
}

type recordingPublisher struct {
	published []Notification
}

func (p *recordingPublisher) Publish(_ context.Context, n Notification) error {
	p.published = append(p.published, n)
	return nil
}

func newTestHandler(repo *memoryRepo) (*Handler, *recordingPublisher) {
	publisher := &recordingPublisher{}
	svc := NewService(repo, publisher, slog.Default())
	return NewHandler(slog.Default(), svc), publisher
}

func TestListReturnsUnreadFirst(t *testing.T) {
	repo := newMemoryRepo()
	h, _ := newTestHandler(repo)

	older, _ := repo.Insert(context.Background(), Notification{RecipientEmpID: 7, Message: "older"})
	newer, _ := repo.Insert(context.Background(), Notification{RecipientEmpID: 7, Message: "newer"})
	require.NoError(t, repo.MarkAsRead(context.Background(), newer.ID))
	_, _ = repo.Insert(context.Background(), Notification{RecipientEmpID: 8, Message: "someone else"})

	r := chi.NewRouter()
	h.MountRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/7", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, older.ID, got[0].ID, "unread sorts before read")
	require.Equal(t, newer.ID, got[1].ID)
}

func TestMarkAsRead(t *testing.T) {
	repo := newMemoryRepo()
	h, _ := newTestHandler(repo)
	created, _ := repo.Insert(context.Background(), Notification{RecipientEmpID: 7, Message: "hello"})

	r := chi.NewRouter()
	h.MountRoutes(r)

	req := httptest.NewRequest(http.MethodPut, "/mark_as_read/1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, repo.rows[created.ID].Read)

	// Marking again succeeds; the operation is idempotent.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/mark_as_read/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMarkAsReadMissingNotification(t *testing.T) {
	repo := newMemoryRepo()
	h, _ := newTestHandler(repo)

	r := chi.NewRouter()
	h.MountRoutes(r)

	req := httptest.NewRequest(http.MethodPut, "/mark_as_read/999", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Notification not found")
}

func TestCreatePersistsAndPushes(t *testing.T) {
	repo := newMemoryRepo()
	h, publisher := newTestHandler(repo)

	r := chi.NewRouter()
	h.MountRoutes(r)

	body, _ := json.Marshal(map[string]any{
		"message":        "Manual notice",
		"for_emp":        7,
		"transaction_id": 55,
	})
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, repo.rows, 1)
	require.Len(t, publisher.published, 1)
	require.Equal(t, int64(7), publisher.published[0].RecipientEmpID)
	require.Equal(t, "Manual notice", publisher.published[0].Message)
}

func TestCreateRequiresMessageAndRecipient(t *testing.T) {
	repo := newMemoryRepo()
	h, _ := newTestHandler(repo)

	r := chi.NewRouter()
	h.MountRoutes(r)

	body, _ := json.Marshal(map[string]any{"message": ""})
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, repo.rows)
}
