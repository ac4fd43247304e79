package ports

import (
	"context"

	"github.com/servicehub/marketplace/internal/core/domain"
)

type ReportRepository interface {
	Create(ctx context.Context, r *domain.Report) error
	FindByID(ctx context.Context, id string) (*domain.Report, error)
	List(ctx context.Context, status domain.ReportStatus) ([]*domain.Report, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.ReportStatus) (*domain.Report, error)
}
