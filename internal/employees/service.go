package employees

import (
	"context"
	"fmt"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	GetByID(ctx context.Context, id int64) (Employee, error)
	Search(ctx context.Context, filter SearchFilter) ([]Employee, error)
}

// Service coordinates identity lookups.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Get fetches a single employee.
func (s *Service) Get(ctx context.Context, id int64) (Employee, error) {
	return s.repo.GetByID(ctx, id)
}

// ShortNameOrFallback resolves the capitalized short name used in notification
// text, falling back to a placeholder when the employee is unknown.
func (s *Service) ShortNameOrFallback(ctx context.Context, id int64, role string) string {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Sprintf("%s %d", role, id)
	}
	return emp.ShortName()
}

// Search lists department members for the borrower/receiver pickers.
func (s *Service) Search(ctx context.Context, filter SearchFilter) ([]Employee, error) {
	return s.repo.Search(ctx, filter)
}
