package ports

import (
	"context"

	"github.com/servicehub/marketplace/internal/core/domain"
)

type ReviewRepository interface {
	// Create returns domain.ErrReviewExists when the author already
	// reviewed the service.
	Create(ctx context.Context, r *domain.Review) error
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	// ListByService returns reviews newest first with Author populated.
	ListByService(ctx context.Context, serviceID string) ([]*domain.Review, error)
	Delete(ctx context.Context, id string) error
	DeleteByService(ctx context.Context, serviceID string) (int64, error)
	// Summarize averages the ratings left on the given services.
	Summarize(ctx context.Context, serviceIDs []string) (avg float64, count int64, err error)
}
