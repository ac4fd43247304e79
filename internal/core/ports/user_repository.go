package ports

import (
	"context"

	"github.com/servicehub/marketplace/internal/core/domain"
)

// UserPatch carries the admin-editable fields of a user. Nil means unchanged.
type UserPatch struct {
	Role     *string
	Disabled *bool
}

// UserRepository is the credential store.
type UserRepository interface {
	// Create persists user and returns it with its ID assigned.
	// A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
