package ports

import (
	"context"

	"github.com/servicehub/marketplace/internal/core/domain"
)

type ApplicationRepository interface {
	// Create returns domain.ErrApplicationExists when the provider already
	// applied to the service.
	Create(ctx context.Context, a *domain.Application) error
	FindByID(ctx context.Context, id string) (*domain.Application, error)
	ListByService(ctx context.Context, serviceID string) ([]*domain.Application, error)
	ListByProvider(ctx context.Context, providerID string) ([]*domain.Application, error)
	// UpdateStatus moves the application from -> to atomically. A stale
	// from yields domain.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus) (*domain.Application, error)
	DeleteByService(ctx context.Context, serviceID string) (int64, error)
}
