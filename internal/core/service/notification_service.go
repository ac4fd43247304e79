package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
)

type NotificationService struct {
	repo     ports.NotificationRepository
	notifier ports.Notifier
	logger   zerolog.Logger
}

// NewNotificationService wires the store and an optional live notifier.
func NewNotificationService(repo ports.NotificationRepository, notifier ports.Notifier, logger zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, notifier: notifier, logger: logger}
}

func (s *NotificationService) Notify(ctx context.Context, in ports.NotificationInput) {
	n := &domain.Notification{
		UserID:     in.UserID,
		Message:    in.Message,
		ActionText: in.ActionText,
		ActionURL:  in.ActionURL,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn().Err(err).Str("user_id", in.UserID).Msg("failed to store notification")
		return
	}
	if s.notifier != nil {
		s.notifier.Push(n.UserID, n)
	}
}

// List returns the caller's notifications, newest first, and how many
// of them are unread.
func (s *NotificationService) List(ctx context.Context, caller domain.Identity) ([]*domain.Notification, int, error) {
	items, err := s.repo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	unread := 0
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
	}
	return items, unread, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, caller domain.Identity, id string) error {
	if err := s.repo.MarkRead(ctx, id, caller.UserID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, caller domain.Identity) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, caller.UserID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return n, nil
}
