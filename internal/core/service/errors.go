package service

import (
	"fmt"

	"github.com/servicehub/marketplace/internal/core/domain"
)

// invalidf wraps domain.ErrInvalidInput with a user-safe explanation.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}
