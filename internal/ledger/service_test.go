package ledger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adts-project/adts/internal/notify"
	"github.com/adts-project/adts/internal/shared"
	_ "github.com/adts-project/adts/internal/testing/guard"
)

type memoryRepo struct {
	holdings      map[int64]Holding
	details       map[int64]ItemDetail
	transactions  []Transaction
	notifications []notify.Notification
	nextID        int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		holdings: map[int64]Holding{},
		details:  map[int64]ItemDetail{},
		nextID:   1,
	}
}

// WithTx snapshots state and restores it when the callback fails, mirroring a
// database rollback.
func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	transactions := append([]Transaction(nil), m.transactions...)
	notifications := append([]notify.Notification(nil), m.notifications...)
	nextID := m.nextID
	if err := fn(ctx, m); err != nil {
		m.transactions = transactions
		m.notifications = notifications
		m.nextID = nextID
		return err
	}
	return nil
}

func (m *memoryRepo) GetHoldingForUpdate(_ context.Context, distributedItemID int64) (Holding, error) {
	h, ok := m.holdings[distributedItemID]
	if !ok {
		return Holding{}, ErrItemNotFound
	}
	return h, nil
}

func (m *memoryRepo) GetItemDetailByItem(_ context.Context, itemID int64) (ItemDetail, error) {
	d, ok := m.details[itemID]
	if !ok {
		return ItemDetail{}, ErrItemNotFound
	}
	return d, nil
}

func (m *memoryRepo) InsertTransaction(_ context.Context, t Transaction) (int64, error) {
	t.ID = m.nextID
	m.nextID++
	m.transactions = append(m.transactions, t)
	return t.ID, nil
}

func (m *memoryRepo) GetActiveBorrowForUpdate(_ context.Context, distributedItemID, borrowerEmpID int64) (Transaction, error) {
	for _, t := range m.transactions {
		if t.DistributedItemID == distributedItemID && t.BorrowerEmpID == borrowerEmpID && t.Status == StatusActive {
			return t, nil
		}
	}
	return Transaction{}, ErrTransactionNotFound
}

func (m *memoryRepo) SetPendingReturn(_ context.Context, id int64) error {
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			m.transactions[i].Status = StatusPending
			m.transactions[i].Remarks = RemarksPendingReturn
			return nil
		}
	}
	return ErrTransactionNotFound
}

func (m *memoryRepo) InsertNotification(_ context.Context, n notify.Notification) (notify.Notification, error) {
	n.ID = m.nextID
	m.nextID++
	m.notifications = append(m.notifications, n)
	return n, nil
}

type stubDirectory struct{}

func (stubDirectory) ShortNameOrFallback(_ context.Context, id int64, role string) string {
	return fmt.Sprintf("%s %d", role, id)
}

type recordingNotifier struct {
	pushed []notify.Notification
}

func (r *recordingNotifier) Push(_ context.Context, notifications ...notify.Notification) {
	r.pushed = append(r.pushed, notifications...)
}

type recordingAudit struct {
	logs []shared.AuditLog
}

func (r *recordingAudit) Record(_ context.Context, log shared.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func newTestService(repo *memoryRepo) (*Service, *recordingNotifier, *recordingAudit) {
	notifier := &recordingNotifier{}
	audit := &recordingAudit{}
	svc := NewService(repo, stubDirectory{}, notifier, audit, nil, ServiceConfig{AdminEmpID: 1})
	return svc, notifier, audit
}

func seedHolding(repo *memoryRepo) {
	repo.holdings[10] = Holding{ID: 10, ItemID: 7, OwnerEmpID: 5, Quantity: 4, ItemName: "Projector"}
	repo.details[7] = ItemDetail{
		DistributedItemID: 10, ItemID: 7, OwnerEmpID: 5, Quantity: 4,
		ItemName: "Projector", Description: "Ceiling mount projector",
		ParNo: "PAR-1", SerialNo: "SN-99", UnitValue: 1500, TotalValue: 6000,
	}
}

func TestBorrowRecordsTransactionAndNotifications(t *testing.T) {
	repo := newMemoryRepo()
	seedHolding(repo)
	svc, notifier, audit := newTestService(repo)

	id, err := svc.Borrow(context.Background(), BorrowRequest{
		BorrowerEmpID: 3, OwnerEmpID: 5, ItemID: 7, Quantity: 2, DptID: 1, DistributedItemID: 10,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	require.Len(t, repo.transactions, 1)
	tx := repo.transactions[0]
	require.Equal(t, StatusPending, tx.Status)
	require.Equal(t, RemarksBorrow, tx.Remarks)
	require.Equal(t, int64(2), tx.Quantity)

	require.Len(t, repo.notifications, 3)
	recipients := map[int64]bool{}
	for _, n := range repo.notifications {
		recipients[n.RecipientEmpID] = true
		require.Equal(t, id, n.TransactionID)
		require.Equal(t, notify.KindBorrow, n.Kind)
		require.Contains(t, n.Message, "Projector")
	}
	require.True(t, recipients[1], "admin copy")
	require.True(t, recipients[5], "owner copy")
	require.True(t, recipients[3], "borrower copy")

	require.Len(t, notifier.pushed, 3)
	require.Len(t, audit.logs, 1)
	require.Equal(t, "ledger.borrow", audit.logs[0].Action)
}

func TestBorrowInsufficientStockWritesNothing(t *testing.T) {
	repo := newMemoryRepo()
	seedHolding(repo)
	svc, notifier, _ := newTestService(repo)

	_, err := svc.Borrow(context.Background(), BorrowRequest{
		BorrowerEmpID: 3, OwnerEmpID: 5, ItemID: 7, Quantity: 99, DptID: 1, DistributedItemID: 10,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Empty(t, repo.transactions)
	require.Empty(t, repo.notifications)
	require.Empty(t, notifier.pushed)
}

func TestBorrowOwnerMismatch(t *testing.T) {
	repo := newMemoryRepo()
	seedHolding(repo)
	svc, _, _ := newTestService(repo)

	_, err := svc.Borrow(context.Background(), BorrowRequest{
		BorrowerEmpID: 3, OwnerEmpID: 8, ItemID: 7, Quantity: 1, DptID: 1, DistributedItemID: 10,
	})
	require.ErrorIs(t, err, ErrInvalidOwner)
	require.Empty(t, repo.transactions)
}

func TestBorrowUnknownItem(t *testing.T) {
	repo := newMemoryRepo()
	svc, _, _ := newTestService(repo)

	_, err := svc.Borrow(context.Background(), BorrowRequest{
		BorrowerEmpID: 3, OwnerEmpID: 5, ItemID: 7, Quantity: 1, DptID: 1, DistributedItemID: 404,
	})
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestLendSkipsStockValidation(t *testing.T) {
	repo := newMemoryRepo()
	seedHolding(repo)
	svc, notifier, _ := newTestService(repo)

	id, err := svc.Lend(context.Background(), LendRequest{
		EmpID: 5, ItemID: 7, Quantity: 50, BorrowerID: 3, CurrentDptID: 1,
	})
	require.NoError(t, err, "lend does not validate stock")
	require.Len(t, repo.transactions, 1)
	tx := repo.transactions[0]
	require.Equal(t, RemarksLend, tx.Remarks)
	require.Equal(t, int64(10), tx.DistributedItemID, "resolved from catalog join")
	require.Equal(t, id, tx.ID)

	require.Len(t, repo.notifications, 3)
	require.Contains(t, repo.notifications[0].Message, "Item Name: Projector")
	require.Contains(t, repo.notifications[0].Message, "Serial No.: SN-99")
	require.Len(t, notifier.pushed, 3)
}

func TestLendUnknownItemWritesNothing(t *testing.T) {
	repo := newMemoryRepo()
	svc, _, _ := newTestService(repo)

	_, err := svc.Lend(context.Background(), LendRequest{
		EmpID: 5, ItemID: 7, Quantity: 1, BorrowerID: 3, CurrentDptID: 1,
	})
	require.ErrorIs(t, err, ErrItemNotFound)
	require.Empty(t, repo.transactions)
	require.Empty(t, repo.notifications)
}

func TestTransferRecordsTransaction(t *testing.T) {
	repo := newMemoryRepo()
	seedHolding(repo)
	svc, _, audit := newTestService(repo)

	_, err := svc.Transfer(context.Background(), TransferRequest{
		EmpID: 5, ItemID: 7, Quantity: 2, ReceiverID: 9, CurrentDptID: 1, DistributedItemID: 10,
	})
	require.NoError(t, err)
	require.Len(t, repo.transactions, 1)
	tx := repo.transactions[0]
	require.Equal(t, RemarksTransfer, tx.Remarks)
	require.Equal(t, int64(9), tx.BorrowerEmpID)
	require.Equal(t, "ledger.transfer", audit.logs[0].Action)
}

func TestReturnFlipsActiveTransaction(t *testing.T) {
	repo := newMemoryRepo()
	seedHolding(repo)
	repo.transactions = append(repo.transactions, Transaction{
		ID: 100, DistributedItemID: 10, ItemID: 7, BorrowerEmpID: 3, OwnerEmpID: 5,
		Quantity: 2, DptID: 1, Status: StatusActive, Remarks: RemarksBorrow,
	})
	repo.nextID = 101
	svc, notifier, _ := newTestService(repo)

	id, err := svc.Return(context.Background(), ReturnRequest{
		BorrowerEmpID: 3, ItemID: 7, Quantity: 2, CurrentDptID: 1, DistributedItemID: 10,
	})
	require.NoError(t, err)
	require.Equal(t, int64(100), id, "reuses the matched transaction id")

	tx := repo.transactions[0]
	require.Equal(t, StatusPending, tx.Status)
	require.Equal(t, RemarksPendingReturn, tx.Remarks)
	require.Len(t, repo.notifications, 3)
	require.Len(t, notifier.pushed, 3)
}

func TestReturnWithoutActiveTransaction(t *testing.T) {
	repo := newMemoryRepo()
	seedHolding(repo)
	svc, _, _ := newTestService(repo)

	_, err := svc.Return(context.Background(), ReturnRequest{
		BorrowerEmpID: 3, ItemID: 7, Quantity: 1, CurrentDptID: 1, DistributedItemID: 10,
	})
	require.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestReturnQuantityExceedsBorrowed(t *testing.T) {
	repo := newMemoryRepo()
	seedHolding(repo)
	repo.transactions = append(repo.transactions, Transaction{
		ID: 100, DistributedItemID: 10, ItemID: 7, BorrowerEmpID: 3, OwnerEmpID: 5,
		Quantity: 2, Status: StatusActive, Remarks: RemarksBorrow,
	})
	repo.nextID = 101
	svc, _, _ := newTestService(repo)

	_, err := svc.Return(context.Background(), ReturnRequest{
		BorrowerEmpID: 3, ItemID: 7, Quantity: 3, CurrentDptID: 1, DistributedItemID: 10,
	})
	require.ErrorIs(t, err, ErrExceedsBorrowed)

	tx := repo.transactions[0]
	require.Equal(t, StatusActive, tx.Status, "transaction untouched")
	require.Empty(t, repo.notifications)
}

func TestReturnOwnerMismatch(t *testing.T) {
	repo := newMemoryRepo()
	seedHolding(repo)
	repo.transactions = append(repo.transactions, Transaction{
		ID: 100, DistributedItemID: 10, ItemID: 7, BorrowerEmpID: 3, OwnerEmpID: 5,
		Quantity: 2, Status: StatusActive, Remarks: RemarksBorrow,
	})
	repo.nextID = 101
	svc, _, _ := newTestService(repo)

	_, err := svc.Return(context.Background(), ReturnRequest{
		BorrowerEmpID: 3, OwnerEmpID: 8, ItemID: 7, Quantity: 1, CurrentDptID: 1, DistributedItemID: 10,
	})
	require.ErrorIs(t, err, ErrInvalidOwner)
}
