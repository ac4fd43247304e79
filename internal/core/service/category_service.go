package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
)

type CategoryService struct {
	repo   ports.CategoryRepository
	logger zerolog.Logger
}

func NewCategoryService(repo ports.CategoryRepository, logger zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *CategoryService) Create(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("name is required")
	}
	c := &domain.Category{Name: name, Description: strings.TrimSpace(description)}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrCategoryExists) {
			return nil, domain.ErrCategoryExists
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// SeedDefaults fills an empty catalogue and returns how many were added.
func (s *CategoryService) SeedDefaults(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	added := 0
	for _, name := range domain.DefaultCategories {
		err := s.repo.Create(ctx, &domain.Category{Name: name})
		switch {
		case err == nil:
			added++
		case errors.Is(err, domain.ErrCategoryExists):
			// another replica seeded concurrently
		default:
			return added, fmt.Errorf("seed categories: %w", err)
		}
	}
	s.logger.Info().Int("count", added).Msg("default categories seeded")
	return added, nil
}
