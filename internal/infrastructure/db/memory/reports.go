package memory

import (
	"context"
	"sort"
	"time"

	"github.com/servicehub/marketplace/internal/core/domain"
)

type ReportRepository struct{ s *Store }

func NewReportRepository(s *Store) *ReportRepository { return &ReportRepository{s: s} }

func (r *ReportRepository) Create(_ context.Context, rp *domain.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rp.ID = newID()
	c := *rp
	r.s.reports[c.ID] = &c
	return nil
}

func (r *ReportRepository) FindByID(_ context.Context, id string) (*domain.Report, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rp, ok := r.s.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	c := *rp
	return &c, nil
}

func (r *ReportRepository) List(_ context.Context, status domain.ReportStatus) ([]*domain.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Report{}
	for _, rp := range r.s.reports {
		if status == "" || rp.Status == status {
			c := *rp
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ReportRepository) UpdateStatus(_ context.Context, id string, from, to domain.ReportStatus) (*domain.Report, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rp, ok := r.s.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	if rp.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	rp.Status = to
	rp.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	c := *rp
	return &c, nil
}
