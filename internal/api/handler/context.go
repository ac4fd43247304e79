package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace/internal/api/middleware"
	"github.com/servicehub/marketplace/internal/core/domain"
)

// identity extracts the caller injected by the Auth middleware and fails
// fast before any service call when it is missing.
func identity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return id, nil
}
