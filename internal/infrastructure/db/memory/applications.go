package memory

import (
	"context"
	"sort"
	"time"

	"github.com/servicehub/marketplace/internal/core/domain"
)

type ApplicationRepository struct{ s *Store }

func NewApplicationRepository(s *Store) *ApplicationRepository {
	return &ApplicationRepository{s: s}
}

func (r *ApplicationRepository) withProvider(a *domain.Application) *domain.Application {
	c := *a
	c.Provider = r.s.userRef(a.ProviderID)
	return &c
}

func (r *ApplicationRepository) Create(_ context.Context, a *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.applications {
		if existing.ServiceID == a.ServiceID && existing.ProviderID == a.ProviderID {
			return domain.ErrApplicationExists
		}
	}
	a.ID = newID()
	c := *a
	c.Provider = nil
	r.s.applications[c.ID] = &c
	return nil
}

func (r *ApplicationRepository) FindByID(_ context.Context, id string) (*domain.Application, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.applications[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	return r.withProvider(a), nil
}

func (r *ApplicationRepository) list(match func(*domain.Application) bool) []*domain.Application {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Application{}
	for _, a := range r.s.applications {
		if match(a) {
			out = append(out, r.withProvider(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *ApplicationRepository) ListByService(_ context.Context, serviceID string) ([]*domain.Application, error) {
	return r.list(func(a *domain.Application) bool { return a.ServiceID == serviceID }), nil
}

func (r *ApplicationRepository) ListByProvider(_ context.Context, providerID string) ([]*domain.Application, error) {
	return r.list(func(a *domain.Application) bool { return a.ProviderID == providerID }), nil
}

func (r *ApplicationRepository) UpdateStatus(_ context.Context, id string, from, to domain.ApplicationStatus) (*domain.Application, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	if a.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	a.Status = to
	a.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	return r.withProvider(a), nil
}

func (r *ApplicationRepository) DeleteByService(_ context.Context, serviceID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, a := range r.s.applications {
		if a.ServiceID == serviceID {
			delete(r.s.applications, id)
			n++
		}
	}
	return n, nil
}
