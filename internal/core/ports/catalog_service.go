package ports

import (
	"context"

	"github.com/servicehub/marketplace/internal/core/domain"
)

// CreateServiceInput carries the fields of a new service posting.
type CreateServiceInput struct {
	Title       string
	Description string
	Category    string
	Price       float64
	Location    string
}

// UpdateServiceInput is a partial update; nil fields are left untouched.
type UpdateServiceInput struct {
	Title       *string
	Description *string
	Category    *string
	Price       *float64
	Location    *string
	Status      *string
}

// ListServicesResult is one page of services plus the total match count.
type ListServicesResult struct {
	Items  []*domain.Service
	Total  int64
	Limit  int
	Offset int
}

// CatalogService defines use-case operations for posted services.
type CatalogService interface {
	Create(ctx context.Context, caller domain.Identity, in CreateServiceInput) (*domain.Service, error)
	Get(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, filter ServiceFilter) (*ListServicesResult, error)
	Update(ctx context.Context, caller domain.Identity, id string, in UpdateServiceInput) (*domain.Service, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
}

type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, name, description string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	// SeedDefaults inserts domain.DefaultCategories into an empty catalogue.
	SeedDefaults(ctx context.Context) (int, error)
}

type CreateReviewInput struct {
	ServiceID string
	Rating    int
	Comment   string
}

type ReviewService interface {
	Create(ctx context.Context, caller domain.Identity, in CreateReviewInput) (*domain.Review, error)
	ListForService(ctx context.Context, serviceID string) ([]*domain.Review, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
	RatingForUser(ctx context.Context, userID string) (*domain.RatingSummary, error)
}

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, caller domain.Identity, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
}
