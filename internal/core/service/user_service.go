package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
)

type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Update changes role or disabled flag. Admins cannot lock themselves out.
func (s *UserService) Update(ctx context.Context, caller domain.Identity, id string, patch ports.UserPatch) (*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if patch.Role != nil && !domain.ValidRole(*patch.Role) {
		return nil, invalidf("role must be one of: user admin")
	}
	if caller.UserID == id {
		if (patch.Role != nil && *patch.Role != domain.RoleAdmin) || (patch.Disabled != nil && *patch.Disabled) {
			return nil, invalidf("admins cannot demote or disable themselves")
		}
	}

	u, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.logger.Info().Str("user_id", id).Str("by", caller.UserID).Msg("user updated")
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if caller.UserID == id {
		return invalidf("admins cannot delete themselves")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.Info().Str("user_id", id).Str("by", caller.UserID).Msg("user deleted")
	return nil
}
