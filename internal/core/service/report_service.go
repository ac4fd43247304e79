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

type ReportService struct {
	reports ports.ReportRepository
	users   ports.UserRepository
	logger  zerolog.Logger
}

func NewReportService(reports ports.ReportRepository, users ports.UserRepository, logger zerolog.Logger) *ReportService {
	return &ReportService{reports: reports, users: users, logger: logger}
}

func (s *ReportService) Create(ctx context.Context, caller domain.Identity, reportedUserID, reason string) (*domain.Report, error) {
	if caller.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, invalidf("reason is required")
	}
	if reportedUserID == caller.UserID {
		return nil, invalidf("you cannot report yourself")
	}
	if _, err := s.users.FindByID(ctx, reportedUserID); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	r := &domain.Report{
		ReporterID:     caller.UserID,
		ReportedUserID: reportedUserID,
		Reason:         reason,
		Status:         domain.ReportPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	s.logger.Info().Str("report_id", r.ID).Str("reported_user_id", reportedUserID).Msg("user reported")
	return r, nil
}

// List returns reports, optionally restricted to one status.
func (s *ReportService) List(ctx context.Context, status string) ([]*domain.Report, error) {
	st := domain.ReportStatus(status)
	if st != "" && !st.Valid() {
		return nil, invalidf("unknown status %q", status)
	}
	reports, err := s.reports.List(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

func (s *ReportService) UpdateStatus(ctx context.Context, id string, status string) (*domain.Report, error) {
	next := domain.ReportStatus(status)
	if !next.Valid() {
		return nil, invalidf("unknown status %q", status)
	}
	current, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("update report: %w (from %s to %s)", domain.ErrInvalidTransition, current.Status, next)
	}
	updated, err := s.reports.UpdateStatus(ctx, id, current.Status, next)
	if err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}
	metrics.StatusTransitionsTotal.WithLabelValues("report", string(current.Status), string(next)).Inc()
	return updated, nil
}
