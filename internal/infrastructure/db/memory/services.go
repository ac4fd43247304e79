package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
)

type ServiceRepository struct{ s *Store }

func NewServiceRepository(s *Store) *ServiceRepository { return &ServiceRepository{s: s} }

// withOwner must be called with the store lock held.
func (r *ServiceRepository) withOwner(svc *domain.Service) *domain.Service {
	c := *svc
	c.Owner = r.s.userRef(svc.OwnerID)
	return &c
}

func (r *ServiceRepository) Create(_ context.Context, svc *domain.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc.ID = newID()
	c := *svc
	c.Owner = nil
	r.s.services[c.ID] = &c
	return nil
}

func (r *ServiceRepository) FindByID(_ context.Context, id string) (*domain.Service, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return r.withOwner(svc), nil
}

func matchesService(svc *domain.Service, f ports.ServiceFilter) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(svc.Title), q) && !strings.Contains(strings.ToLower(svc.Description), q) {
			return false
		}
	}
	if f.Category != "" && svc.Category != f.Category {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(svc.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.Status != "" && svc.Status != f.Status {
		return false
	}
	if f.OwnerID != "" && svc.OwnerID != f.OwnerID {
		return false
	}
	if f.MinPrice != nil && svc.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && svc.Price > *f.MaxPrice {
		return false
	}
	return true
}

func (r *ServiceRepository) List(_ context.Context, f ports.ServiceFilter) ([]*domain.Service, int64, error) {
	if f.OwnerID != "" {
		if err := checkID(f.OwnerID); err != nil {
			return nil, 0, err
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []*domain.Service
	for _, svc := range r.s.services {
		if matchesService(svc, f) {
			matched = append(matched, svc)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []*domain.Service{}, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	out := make([]*domain.Service, 0, len(matched))
	for _, svc := range matched {
		out = append(out, r.withOwner(svc))
	}
	return out, total, nil
}

func (r *ServiceRepository) ListIDsByOwner(_ context.Context, ownerID string) ([]string, error) {
	if err := checkID(ownerID); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, svc := range r.s.services {
		if svc.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *ServiceRepository) Update(_ context.Context, id string, p ports.ServicePatch) (*domain.Service, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	if p.ExpectStatus != "" && svc.Status != p.ExpectStatus {
		return nil, domain.ErrInvalidTransition
	}
	if p.Title != nil {
		svc.Title = *p.Title
	}
	if p.Description != nil {
		svc.Description = *p.Description
	}
	if p.Category != nil {
		svc.Category = *p.Category
	}
	if p.Price != nil {
		svc.Price = *p.Price
	}
	if p.Location != nil {
		svc.Location = *p.Location
	}
	if p.Status != nil {
		svc.Status = *p.Status
	}
	svc.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	return r.withOwner(svc), nil
}

func (r *ServiceRepository) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[id]; !ok {
		return domain.ErrServiceNotFound
	}
	delete(r.s.services, id)
	return nil
}
