package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/servicehub/marketplace/internal/api/metrics"
	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
)

// ApplicationService lets providers bid on open services and owners
// accept or reject those bids.
type ApplicationService struct {
	applications ports.ApplicationRepository
	services     ports.ServiceRepository
	notify       ports.NotificationService
	logger       zerolog.Logger
}

func NewApplicationService(
	applications ports.ApplicationRepository,
	services ports.ServiceRepository,
	notify ports.NotificationService,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{applications: applications, services: services, notify: notify, logger: logger}
}

func (s *ApplicationService) Apply(ctx context.Context, caller domain.Identity, serviceID, message string) (*domain.Application, error) {
	if caller.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	svc, err := s.services.FindByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}
	if svc.OwnerID == caller.UserID {
		return nil, domain.ErrForbidden
	}
	if svc.Status != domain.ServiceOpen {
		return nil, domain.ErrServiceNotOpen
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	app := &domain.Application{
		ServiceID:  svc.ID,
		ProviderID: caller.UserID,
		Message:    strings.TrimSpace(message),
		Status:     domain.ApplicationPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrApplicationExists) {
			return nil, domain.ErrApplicationExists
		}
		return nil, fmt.Errorf("apply: %w", err)
	}

	s.notify.Notify(ctx, ports.NotificationInput{
		UserID:     svc.OwnerID,
		Message:    fmt.Sprintf("New application for %q", svc.Title),
		ActionText: "View applications",
		ActionURL:  "/services/" + svc.ID + "/applications",
	})
	return app, nil
}

// ListForService is visible to the service owner and admins only.
func (s *ApplicationService) ListForService(ctx context.Context, caller domain.Identity, serviceID string) ([]*domain.Application, error) {
	svc, err := s.services.FindByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if !caller.CanModify(svc.OwnerID) {
		return nil, domain.ErrForbidden
	}
	apps, err := s.applications.ListByService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func (s *ApplicationService) ListMine(ctx context.Context, caller domain.Identity) ([]*domain.Application, error) {
	apps, err := s.applications.ListByProvider(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// Decide accepts or rejects a pending application. Accepting moves an
// open service to in_progress, so a service has at most one accepted
// provider.
func (s *ApplicationService) Decide(ctx context.Context, caller domain.Identity, id string, status string) (*domain.Application, error) {
	next := domain.ApplicationStatus(status)
	if next != domain.ApplicationAccepted && next != domain.ApplicationRejected {
		return nil, invalidf("status must be one of: accepted rejected")
	}

	app, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("decide application: %w", err)
	}
	svc, err := s.services.FindByID(ctx, app.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("decide application: %w", err)
	}
	if !caller.CanModify(svc.OwnerID) {
		return nil, domain.ErrForbidden
	}
	if !app.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("decide application: %w (from %s to %s)", domain.ErrInvalidTransition, app.Status, next)
	}

	accepting := next == domain.ApplicationAccepted
	if accepting {
		if err := s.setServiceStatus(ctx, svc.ID, domain.ServiceOpen, domain.ServiceInProgress); err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				return nil, domain.ErrServiceNotOpen
			}
			return nil, fmt.Errorf("decide application: %w", err)
		}
	}

	updated, err := s.applications.UpdateStatus(ctx, id, app.Status, next)
	if err != nil {
		if accepting {
			if rerr := s.setServiceStatus(ctx, svc.ID, domain.ServiceInProgress, domain.ServiceOpen); rerr != nil {
				s.logger.Error().Err(rerr).Str("service_id", svc.ID).Msg("failed to reopen service after failed acceptance")
			}
		}
		return nil, fmt.Errorf("decide application: %w", err)
	}
	metrics.StatusTransitionsTotal.WithLabelValues("application", string(app.Status), string(next)).Inc()
	if accepting {
		metrics.StatusTransitionsTotal.WithLabelValues("service", string(domain.ServiceOpen), string(domain.ServiceInProgress)).Inc()
	}

	s.notify.Notify(ctx, ports.NotificationInput{
		UserID:     app.ProviderID,
		Message:    fmt.Sprintf("Your application for %q was %s", svc.Title, next),
		ActionText: "View service",
		ActionURL:  "/services/" + svc.ID,
	})
	return updated, nil
}

// setServiceStatus is a compare-and-set on the service status. It fails
// with ErrInvalidTransition when the service is no longer in from.
func (s *ApplicationService) setServiceStatus(ctx context.Context, serviceID string, from, to domain.ServiceStatus) error {
	_, err := s.services.Update(ctx, serviceID, ports.ServicePatch{Status: &to, ExpectStatus: from})
	return err
}
