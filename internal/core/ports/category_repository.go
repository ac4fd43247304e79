package ports

import (
	"context"

	"github.com/servicehub/marketplace/internal/core/domain"
)

type CategoryRepository interface {
	// Create returns domain.ErrCategoryExists on a duplicate name.
	Create(ctx context.Context, c *domain.Category) error
	List(ctx context.Context) ([]*domain.Category, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
