package memory

import (
	"context"
	"sort"

	"github.com/servicehub/marketplace/internal/core/domain"
)

type ReviewRepository struct{ s *Store }

func NewReviewRepository(s *Store) *ReviewRepository { return &ReviewRepository{s: s} }

func (r *ReviewRepository) withAuthor(rv *domain.Review) *domain.Review {
	c := *rv
	c.Author = r.s.userRef(rv.AuthorID)
	return &c
}

func (r *ReviewRepository) Create(_ context.Context, rv *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.reviews {
		if existing.ServiceID == rv.ServiceID && existing.AuthorID == rv.AuthorID {
			return domain.ErrReviewExists
		}
	}
	rv.ID = newID()
	c := *rv
	c.Author = nil
	r.s.reviews[c.ID] = &c
	return nil
}

func (r *ReviewRepository) FindByID(_ context.Context, id string) (*domain.Review, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	return r.withAuthor(rv), nil
}

func (r *ReviewRepository) ListByService(_ context.Context, serviceID string) ([]*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Review{}
	for _, rv := range r.s.reviews {
		if rv.ServiceID == serviceID {
			out = append(out, r.withAuthor(rv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ReviewRepository) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return domain.ErrReviewNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

func (r *ReviewRepository) DeleteByService(_ context.Context, serviceID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, rv := range r.s.reviews {
		if rv.ServiceID == serviceID {
			delete(r.s.reviews, id)
			n++
		}
	}
	return n, nil
}

func (r *ReviewRepository) Summarize(_ context.Context, serviceIDs []string) (float64, int64, error) {
	want := make(map[string]struct{}, len(serviceIDs))
	for _, id := range serviceIDs {
		want[id] = struct{}{}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var sum, n int64
	for _, rv := range r.s.reviews {
		if _, ok := want[rv.ServiceID]; ok {
			sum += int64(rv.Rating)
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}
