package catalog

import "context"

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	ListDepartmentItems(ctx context.Context, dptID, excludeEmpID int64) ([]DepartmentItem, error)
	GetItem(ctx context.Context, itemID int64) (Item, error)
	ListOwnedItems(ctx context.Context, empID int64) ([]OwnedItem, error)
	ListBorrowedItems(ctx context.Context, borrowerEmpID int64) ([]BorrowedItem, error)
}

// Service coordinates catalog reads.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListDepartmentItems lists holdings available to borrow in a department.
func (s *Service) ListDepartmentItems(ctx context.Context, dptID, excludeEmpID int64) ([]DepartmentItem, error) {
	return s.repo.ListDepartmentItems(ctx, dptID, excludeEmpID)
}

// GetItem fetches a single catalog entry.
func (s *Service) GetItem(ctx context.Context, itemID int64) (Item, error) {
	return s.repo.GetItem(ctx, itemID)
}

// ListOwnedItems lists an employee's accountable holdings.
func (s *Service) ListOwnedItems(ctx context.Context, empID int64) ([]OwnedItem, error) {
	return s.repo.ListOwnedItems(ctx, empID)
}

// ListBorrowedItems aggregates an employee's borrowed holdings.
func (s *Service) ListBorrowedItems(ctx context.Context, borrowerEmpID int64) (BorrowedSummary, error) {
	items, err := s.repo.ListBorrowedItems(ctx, borrowerEmpID)
	if err != nil {
		return BorrowedSummary{}, err
	}
	summary := BorrowedSummary{Items: items, TotalTransactions: len(items)}
	for _, it := range items {
		summary.TotalQuantity += it.Quantity
	}
	return summary, nil
}
