package notify

import (
	"context"
	"log/slog"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	Insert(ctx context.Context, n Notification) (Notification, error)
	ListForEmployee(ctx context.Context, empID int64) ([]Notification, error)
	MarkAsRead(ctx context.Context, id int64) error
}

// Service coordinates notification persistence and real-time pushes.
type Service struct {
	repo      RepositoryPort
	publisher Publisher
	logger    *slog.Logger
}

// NewService builds Service. A nil publisher downgrades to NoopPublisher so
// the write path never depends on the real-time channel.
func NewService(repo RepositoryPort, publisher Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// List returns an employee's notifications, unread first, newest first.
func (s *Service) List(ctx context.Context, empID int64) ([]Notification, error) {
	return s.repo.ListForEmployee(ctx, empID)
}

// MarkRead flags a notification as read.
func (s *Service) MarkRead(ctx context.Context, id int64) error {
	return s.repo.MarkAsRead(ctx, id)
}

// Create persists a notification and pushes it.
func (s *Service) Create(ctx context.Context, n Notification) (Notification, error) {
	created, err := s.repo.Insert(ctx, n)
	if err != nil {
		return Notification{}, err
	}
	s.Push(ctx, created)
	return created, nil
}

// Push publishes notifications to their recipients' channels. Failures are
// logged and swallowed; the persisted rows stand regardless.
func (s *Service) Push(ctx context.Context, notifications ...Notification) {
	for _, n := range notifications {
		if err := s.publisher.Publish(ctx, n); err != nil {
			if s.logger != nil {
				s.logger.Warn("push notification",
					slog.Int64("notification_id", n.ID),
					slog.Int64("recipient_emp_id", n.RecipientEmpID),
					slog.Any("error", err))
			}
		}
	}
}
