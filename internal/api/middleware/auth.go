package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
	"github.com/servicehub/marketplace/internal/pkg/token"
	"github.com/servicehub/marketplace/pkg/logger"
)

// IdentityKey is the echo context key holding the caller's domain.Identity.
const IdentityKey = "identity"

// TokenVerifier parses and verifies a bearer token.
type TokenVerifier interface {
	Parse(raw string) (*token.Claims, error)
}

// AuthOption tweaks the Auth middleware.
type AuthOption func(*authConfig)

type authConfig struct {
	revoker    ports.TokenRevoker
	queryParam string
}

// WithRevoker rejects tokens whose id has been revoked.
func WithRevoker(r ports.TokenRevoker) AuthOption {
	return func(c *authConfig) { c.revoker = r }
}

// WithQueryToken also accepts the token from the named query parameter.
// Browsers cannot set headers on websocket upgrade requests.
func WithQueryToken(name string) AuthOption {
	return func(c *authConfig) { c.queryParam = name }
}

// Auth verifies the bearer token and stores the caller's identity in the
// context. Every failure yields the same 401 so callers cannot tell an
// expired token from a forged one.
func Auth(verifier TokenVerifier, opts ...AuthOption) echo.MiddlewareFunc {
	cfg := &authConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok && cfg.queryParam != "" {
				raw = c.QueryParam(cfg.queryParam)
				ok = raw != ""
			}
			if !ok {
				return domain.ErrUnauthorized
			}

			claims, err := verifier.Parse(raw)
			if err != nil {
				return domain.ErrUnauthorized
			}

			if cfg.revoker != nil {
				revoked, err := cfg.revoker.IsRevoked(c.Request().Context(), claims.ID)
				if err != nil {
					// fail closed: a token we cannot check is not trusted
					log := logger.FromContext(c.Request().Context())
					log.Warn().Err(err).Msg("token revocation check failed")
					return domain.ErrUnauthorized
				}
				if revoked {
					return domain.ErrUnauthorized
				}
			}

			c.Set(IdentityKey, claims.Identity())
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(IdentityKey).(domain.Identity)
	return id, ok && id.UserID != ""
}
