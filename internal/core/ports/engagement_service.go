package ports

import (
	"context"

	"github.com/servicehub/marketplace/internal/core/domain"
)

type ApplicationService interface {
	Apply(ctx context.Context, caller domain.Identity, serviceID, message string) (*domain.Application, error)
	ListForService(ctx context.Context, caller domain.Identity, serviceID string) ([]*domain.Application, error)
	ListMine(ctx context.Context, caller domain.Identity) ([]*domain.Application, error)
	Decide(ctx context.Context, caller domain.Identity, id string, status string) (*domain.Application, error)
}

// NotificationInput describes a message addressed to one user.
type NotificationInput struct {
	UserID     string
	Message    string
	ActionText string
	ActionURL  string
}

// Notifier delivers notifications to connected clients in real time.
type Notifier interface {
	Push(userID string, n *domain.Notification)
}

type NotificationService interface {
	// Notify stores the notification and pushes it to live connections.
	// Failures are logged, never returned: notifications are best effort.
	Notify(ctx context.Context, in NotificationInput)
	List(ctx context.Context, caller domain.Identity) ([]*domain.Notification, int, error)
	MarkRead(ctx context.Context, caller domain.Identity, id string) error
	MarkAllRead(ctx context.Context, caller domain.Identity) (int64, error)
}

type ReportService interface {
	Create(ctx context.Context, caller domain.Identity, reportedUserID, reason string) (*domain.Report, error)
	List(ctx context.Context, status string) ([]*domain.Report, error)
	UpdateStatus(ctx context.Context, id string, status string) (*domain.Report, error)
}
