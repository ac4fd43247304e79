package ports

import (
	"context"
	"time"

	"github.com/servicehub/marketplace/internal/core/domain"
)

// PasswordHasher hashes and verifies passwords off the request goroutine's
// critical path. Compare returns nil on a match.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash, password string) error
}

// TokenIssuer signs bearer tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

// TokenRevoker records revoked token ids until they would expire anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, id domain.Identity) error
	Me(ctx context.Context, id domain.Identity) (*domain.User, error)
}
