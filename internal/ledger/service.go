package ledger

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/adts-project/adts/internal/notify"
	"github.com/adts-project/adts/internal/shared"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// Directory resolves employee names for notification text.
type Directory interface {
	ShortNameOrFallback(ctx context.Context, id int64, role string) string
}

// Notifier pushes persisted notifications to real-time subscribers.
type Notifier interface {
	Push(ctx context.Context, notifications ...notify.Notification)
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	AdminEmpID int64
}

// Service coordinates the transaction workflow. Each operation validates its
// input, runs the check-then-act sequence and the notification inserts inside
// one database transaction, and pushes notifications after commit.
type Service struct {
	repo        RepositoryPort
	directory   Directory
	notifier    Notifier
	audit       AuditPort
	idempotency *shared.IdempotencyStore
	adminEmpID  int64
}

// NewService builds Service.
func NewService(repo RepositoryPort, directory Directory, notifier Notifier, audit AuditPort, idem *shared.IdempotencyStore, cfg ServiceConfig) *Service {
	adminEmpID := cfg.AdminEmpID
	if adminEmpID == 0 {
		adminEmpID = 1
	}
	return &Service{repo: repo, directory: directory, notifier: notifier, audit: audit, idempotency: idem, adminEmpID: adminEmpID}
}

// Borrow records a borrow request against a distributed item. The holding row
// is locked while ownership and stock are validated.
func (s *Service) Borrow(ctx context.Context, req BorrowRequest) (int64, error) {
	if err := s.claimIdempotencyKey(ctx, req.IdempotencyKey); err != nil {
		return 0, err
	}

	borrowerName := s.directory.ShortNameOrFallback(ctx, req.BorrowerEmpID, "Borrower")
	ownerName := s.directory.ShortNameOrFallback(ctx, req.OwnerEmpID, "Employee")

	var transactionID int64
	var created []notify.Notification
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo TxRepository) error {
		holding, err := repo.GetHoldingForUpdate(ctx, req.DistributedItemID)
		if err != nil {
			return err
		}
		if holding.OwnerEmpID != req.OwnerEmpID {
			return ErrInvalidOwner
		}
		if req.Quantity > holding.Quantity {
			return ErrInsufficientStock
		}

		transactionID, err = repo.InsertTransaction(ctx, Transaction{
			DistributedItemID: req.DistributedItemID,
			ItemID:            req.ItemID,
			BorrowerEmpID:     req.BorrowerEmpID,
			OwnerEmpID:        req.OwnerEmpID,
			Quantity:          req.Quantity,
			DptID:             req.DptID,
			Status:            StatusPending,
			Remarks:           RemarksBorrow,
		})
		if err != nil {
			return fmt.Errorf("insert borrow transaction: %w", err)
		}

		messages := borrowMessages(s.adminEmpID, req, holding, borrowerName, ownerName)
		created, err = insertNotifications(ctx, repo, buildNotifications(transactionID, holding.ItemID, req.Quantity, notify.KindBorrow, messages))
		return err
	})
	if err != nil {
		s.releaseIdempotencyKey(ctx, req.IdempotencyKey)
		return 0, err
	}

	s.recordAudit(ctx, req.BorrowerEmpID, "ledger.borrow", transactionID, map[string]any{
		"distributed_item_id": req.DistributedItemID,
		"owner_emp_id":        req.OwnerEmpID,
		"quantity":            req.Quantity,
	})
	s.push(ctx, created)
	return transactionID, nil
}

// Lend records a lend request. No ownership or stock check is performed; the
// catalog join only has to resolve so notification text can be rendered.
func (s *Service) Lend(ctx context.Context, req LendRequest) (int64, error) {
	if err := s.claimIdempotencyKey(ctx, req.IdempotencyKey); err != nil {
		return 0, err
	}

	lenderName := s.directory.ShortNameOrFallback(ctx, req.EmpID, "Employee")
	borrowerName := s.directory.ShortNameOrFallback(ctx, req.BorrowerID, "Borrower")

	var transactionID int64
	var created []notify.Notification
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo TxRepository) error {
		detail, err := repo.GetItemDetailByItem(ctx, req.ItemID)
		if err != nil {
			return err
		}
		distributedItemID := req.DistributedItemID
		if distributedItemID == 0 {
			distributedItemID = detail.DistributedItemID
		}

		transactionID, err = repo.InsertTransaction(ctx, Transaction{
			DistributedItemID: distributedItemID,
			ItemID:            req.ItemID,
			BorrowerEmpID:     req.BorrowerID,
			OwnerEmpID:        req.EmpID,
			Quantity:          req.Quantity,
			DptID:             req.CurrentDptID,
			Status:            StatusPending,
			Remarks:           RemarksLend,
		})
		if err != nil {
			return fmt.Errorf("insert lend transaction: %w", err)
		}

		messages := lendMessages(s.adminEmpID, req, detail, lenderName, borrowerName)
		created, err = insertNotifications(ctx, repo, buildNotifications(transactionID, detail.ItemID, req.Quantity, notify.KindLend, messages))
		return err
	})
	if err != nil {
		s.releaseIdempotencyKey(ctx, req.IdempotencyKey)
		return 0, err
	}

	s.recordAudit(ctx, req.EmpID, "ledger.lend", transactionID, map[string]any{
		"borrower_emp_id": req.BorrowerID,
		"item_id":         req.ItemID,
		"quantity":        req.Quantity,
	})
	s.push(ctx, created)
	return transactionID, nil
}

// Transfer records a transfer request. Structurally identical to Lend.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (int64, error) {
	if err := s.claimIdempotencyKey(ctx, req.IdempotencyKey); err != nil {
		return 0, err
	}

	senderName := s.directory.ShortNameOrFallback(ctx, req.EmpID, "Employee")
	receiverName := s.directory.ShortNameOrFallback(ctx, req.ReceiverID, "Receiver")

	var transactionID int64
	var created []notify.Notification
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo TxRepository) error {
		detail, err := repo.GetItemDetailByItem(ctx, req.ItemID)
		if err != nil {
			return err
		}

		transactionID, err = repo.InsertTransaction(ctx, Transaction{
			DistributedItemID: req.DistributedItemID,
			ItemID:            req.ItemID,
			BorrowerEmpID:     req.ReceiverID,
			OwnerEmpID:        req.EmpID,
			Quantity:          req.Quantity,
			DptID:             req.CurrentDptID,
			Status:            StatusPending,
			Remarks:           RemarksTransfer,
		})
		if err != nil {
			return fmt.Errorf("insert transfer transaction: %w", err)
		}

		messages := transferMessages(s.adminEmpID, req, detail, senderName, receiverName)
		created, err = insertNotifications(ctx, repo, buildNotifications(transactionID, detail.ItemID, req.Quantity, notify.KindTransfer, messages))
		return err
	})
	if err != nil {
		s.releaseIdempotencyKey(ctx, req.IdempotencyKey)
		return 0, err
	}

	s.recordAudit(ctx, req.EmpID, "ledger.transfer", transactionID, map[string]any{
		"receiver_emp_id": req.ReceiverID,
		"item_id":         req.ItemID,
		"quantity":        req.Quantity,
	})
	s.push(ctx, created)
	return transactionID, nil
}

// Return flips the matched active transaction to pending-return. The matched
// ledger row is locked while the owner and quantity are validated. The return
// is not finalized here; settlement is an external step.
func (s *Service) Return(ctx context.Context, req ReturnRequest) (int64, error) {
	if err := s.claimIdempotencyKey(ctx, req.IdempotencyKey); err != nil {
		return 0, err
	}

	borrowerName := s.directory.ShortNameOrFallback(ctx, req.BorrowerEmpID, "Borrower")

	var transactionID int64
	var created []notify.Notification
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo TxRepository) error {
		detail, err := repo.GetItemDetailByItem(ctx, req.ItemID)
		if err != nil {
			return err
		}

		tx, err := repo.GetActiveBorrowForUpdate(ctx, req.DistributedItemID, req.BorrowerEmpID)
		if err != nil {
			return err
		}
		if req.OwnerEmpID != 0 && req.OwnerEmpID != tx.OwnerEmpID {
			return ErrInvalidOwner
		}
		if req.Quantity > tx.Quantity {
			return ErrExceedsBorrowed
		}

		if err := repo.SetPendingReturn(ctx, tx.ID); err != nil {
			return fmt.Errorf("set pending return: %w", err)
		}
		transactionID = tx.ID

		ownerName := s.directory.ShortNameOrFallback(ctx, tx.OwnerEmpID, "Employee")
		messages := returnMessages(s.adminEmpID, req, tx, detail.ItemName, borrowerName, ownerName)
		created, err = insertNotifications(ctx, repo, buildNotifications(tx.ID, detail.ItemID, req.Quantity, notify.KindReturn, messages))
		return err
	})
	if err != nil {
		s.releaseIdempotencyKey(ctx, req.IdempotencyKey)
		return 0, err
	}

	s.recordAudit(ctx, req.BorrowerEmpID, "ledger.return", transactionID, map[string]any{
		"distributed_item_id": req.DistributedItemID,
		"quantity":            req.Quantity,
	})
	s.push(ctx, created)
	return transactionID, nil
}

func insertNotifications(ctx context.Context, repo TxRepository, notifications []notify.Notification) ([]notify.Notification, error) {
	created := make([]notify.Notification, 0, len(notifications))
	for _, n := range notifications {
		inserted, err := repo.InsertNotification(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("insert notification: %w", err)
		}
		created = append(created, inserted)
	}
	return created, nil
}

func (s *Service) claimIdempotencyKey(ctx context.Context, key string) error {
	if key == "" || s.idempotency == nil {
		return nil
	}
	if _, err := uuid.Parse(key); err != nil {
		return fmt.Errorf("ledger: invalid idempotency key: %w", err)
	}
	return s.idempotency.CheckAndInsert(ctx, key, "ledger")
}

func (s *Service) releaseIdempotencyKey(ctx context.Context, key string) {
	if key == "" || s.idempotency == nil {
		return
	}
	_ = s.idempotency.Delete(ctx, key)
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, transactionID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "borrowing_transaction",
		EntityID: strconv.FormatInt(transactionID, 10),
		Meta:     meta,
	})
}

func (s *Service) push(ctx context.Context, notifications []notify.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Push(ctx, notifications...)
}
