package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/servicehub/marketplace/internal/api/metrics"
	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
)

// dummyPassword is hashed once and compared against when the email is
// unknown, so both login failures cost one bcrypt comparison.
const dummyPassword = "marketplace-dummy-password"

// AuthService implements registration, login and logout.
type AuthService struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenIssuer
	revoker ports.TokenRevoker
	log     zerolog.Logger

	dummyMu   sync.Mutex
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	revoker ports.TokenRevoker,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, revoker: revoker, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with the default role. No token is issued.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
			return nil, domain.ErrUserExists
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login verifies credentials and returns a signed token. Unknown email,
// wrong password and disabled accounts all yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_credentials").Inc()
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
			return "", fmt.Errorf("login: %w", err)
		}
		s.burnComparison(ctx, password)
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_credentials").Inc()
		return "", domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(ctx, user.PasswordHash, password); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("login: %w", ctx.Err())
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_credentials").Inc()
		return "", domain.ErrInvalidCredentials
	}
	if user.Disabled {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_credentials").Inc()
		s.log.Info().Str("user_id", user.ID).Msg("login refused for disabled account")
		return "", domain.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return "", fmt.Errorf("login: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return signed, nil
}

// burnComparison spends the same bcrypt work as a real password check.
func (s *AuthService) burnComparison(ctx context.Context, password string) {
	if h := s.dummy(); h != "" {
		_ = s.hasher.Compare(ctx, h, password)
	}
}

// dummy returns the hash compared against for unknown emails. It is built
// outside the request context and retried until a build succeeds, so one
// cancelled request cannot leave it empty.
func (s *AuthService) dummy() string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()
	if s.dummyHash == "" {
		h, err := s.hasher.Hash(context.Background(), dummyPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare dummy hash")
			return ""
		}
		s.dummyHash = h
	}
	return s.dummyHash
}

// Logout revokes the caller's token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, id domain.Identity) error {
	if s.revoker == nil || id.TokenID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, id.TokenID, id.ExpiresAt); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("logout", "error").Inc()
		return fmt.Errorf("logout: %w", err)
	}
	metrics.AuthAttemptsTotal.WithLabelValues("logout", "success").Inc()
	return nil
}

// Me returns the caller's own account.
func (s *AuthService) Me(ctx context.Context, id domain.Identity) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return user, nil
}
