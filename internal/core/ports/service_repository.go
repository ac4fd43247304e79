package ports

import (
	"context"

	"github.com/servicehub/marketplace/internal/core/domain"
)

// ServiceFilter carries the query parameters of the service listing.
// Zero values mean "no filter".
type ServiceFilter struct {
	Search   string // case-insensitive match on title or description
	Category string
	Location string // case-insensitive partial match
	Status   domain.ServiceStatus
	OwnerID  string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
	Offset   int
}

// ServicePatch is a partial update. Nil fields are left untouched.
// When ExpectStatus is set the update only applies if the stored status
// still equals it, otherwise domain.ErrInvalidTransition is returned.
type ServicePatch struct {
	Title        *string
	Description  *string
	Category     *string
	Price        *float64
	Location     *string
	Status       *domain.ServiceStatus
	ExpectStatus domain.ServiceStatus
}

// ServiceRepository defines persistence operations for services.
// Reads return records with Owner populated.
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) error
	FindByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, filter ServiceFilter) ([]*domain.Service, int64, error)
	ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	Update(ctx context.Context, id string, patch ServicePatch) (*domain.Service, error)
	Delete(ctx context.Context, id string) error
}
