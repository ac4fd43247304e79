package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/servicehub/marketplace/internal/api/metrics"
	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// CatalogService implements the posted-service use cases.
type CatalogService struct {
	services     ports.ServiceRepository
	reviews      ports.ReviewRepository
	applications ports.ApplicationRepository
	logger       zerolog.Logger
}

func NewCatalogService(
	services ports.ServiceRepository,
	reviews ports.ReviewRepository,
	applications ports.ApplicationRepository,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{services: services, reviews: reviews, applications: applications, logger: logger}
}

// Create posts a new open service owned by the caller and returns it as
// a subsequent Get would.
func (s *CatalogService) Create(ctx context.Context, caller domain.Identity, in ports.CreateServiceInput) (*domain.Service, error) {
	if caller.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Location = strings.TrimSpace(in.Location)
	if in.Title == "" || in.Description == "" || in.Category == "" || in.Location == "" {
		return nil, invalidf("title, description, category and location are required")
	}
	if in.Price < 0 {
		return nil, invalidf("price must be zero or greater")
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	svc := &domain.Service{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Location:    in.Location,
		Status:      domain.ServiceOpen,
		OwnerID:     caller.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	metrics.ServicesCreatedTotal.WithLabelValues(svc.Category).Inc()
	s.logger.Info().Str("service_id", svc.ID).Str("owner_id", svc.OwnerID).Msg("service created")

	created, err := s.services.FindByID(ctx, svc.ID)
	if err != nil {
		return nil, fmt.Errorf("create service: reload: %w", err)
	}
	return created, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Service, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	return svc, nil
}

// List returns one page of services, newest first.
func (s *CatalogService) List(ctx context.Context, f ports.ServiceFilter) (*ports.ListServicesResult, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalidf("unknown status %q", f.Status)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, invalidf("minPrice must not exceed maxPrice")
	}
	f.Search = strings.TrimSpace(f.Search)
	f.Location = strings.TrimSpace(f.Location)
	f.Limit = clampLimit(f.Limit)
	if f.Offset < 0 {
		f.Offset = 0
	}

	items, total, err := s.services.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	if items == nil {
		items = []*domain.Service{}
	}
	return &ports.ListServicesResult{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

// Update applies a partial merge. Only the owner or an admin may update,
// and status changes must follow the service lifecycle.
func (s *CatalogService) Update(ctx context.Context, caller domain.Identity, id string, in ports.UpdateServiceInput) (*domain.Service, error) {
	current, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	if !caller.CanModify(current.OwnerID) {
		return nil, domain.ErrForbidden
	}

	patch := ports.ServicePatch{
		Title:       trimmedPtr(in.Title),
		Description: trimmedPtr(in.Description),
		Category:    trimmedPtr(in.Category),
		Location:    trimmedPtr(in.Location),
		Price:       in.Price,
	}
	for _, p := range []*string{patch.Title, patch.Description, patch.Category, patch.Location} {
		if p != nil && *p == "" {
			return nil, invalidf("fields cannot be set to an empty value")
		}
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, invalidf("price must be zero or greater")
	}

	if in.Status != nil {
		next := domain.ServiceStatus(*in.Status)
		if !next.Valid() {
			return nil, invalidf("unknown status %q", *in.Status)
		}
		if next != current.Status {
			if !current.Status.CanTransitionTo(next) {
				return nil, fmt.Errorf("update service: %w (from %s to %s)", domain.ErrInvalidTransition, current.Status, next)
			}
			patch.Status = &next
			patch.ExpectStatus = current.Status
		}
	}

	updated, err := s.services.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	if patch.Status != nil {
		metrics.StatusTransitionsTotal.WithLabelValues("service", string(current.Status), string(*patch.Status)).Inc()
		s.logger.Info().Str("service_id", id).Str("from", string(current.Status)).Str("to", string(*patch.Status)).Msg("service status changed")
	}
	return updated, nil
}

// Delete removes a service and everything attached to it.
func (s *CatalogService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	current, err := s.services.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if !caller.CanModify(current.OwnerID) {
		return domain.ErrForbidden
	}
	if err := s.services.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}

	// Dangling children are harmless to readers, so cascade failures only warn.
	if n, err := s.applications.DeleteByService(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("service_id", id).Msg("failed to delete applications of service")
	} else if n > 0 {
		s.logger.Debug().Int64("count", n).Str("service_id", id).Msg("applications removed")
	}
	if _, err := s.reviews.DeleteByService(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("service_id", id).Msg("failed to delete reviews of service")
	}

	s.logger.Info().Str("service_id", id).Str("by", caller.UserID).Msg("service deleted")
	return nil
}

func trimmedPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

