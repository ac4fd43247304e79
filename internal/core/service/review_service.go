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

type ReviewService struct {
	reviews  ports.ReviewRepository
	services ports.ServiceRepository
	logger   zerolog.Logger
}

func NewReviewService(reviews ports.ReviewRepository, services ports.ServiceRepository, logger zerolog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, services: services, logger: logger}
}

// Create records the caller's review of a service. Owners cannot review
// their own services and each author reviews a service at most once.
func (s *ReviewService) Create(ctx context.Context, caller domain.Identity, in ports.CreateReviewInput) (*domain.Review, error) {
	if caller.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, invalidf("rating must be between %d and %d", domain.MinRating, domain.MaxRating)
	}

	svc, err := s.services.FindByID(ctx, in.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	if svc.OwnerID == caller.UserID {
		return nil, domain.ErrForbidden
	}

	r := &domain.Review{
		ServiceID: svc.ID,
		AuthorID:  caller.UserID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		if errors.Is(err, domain.ErrReviewExists) {
			return nil, domain.ErrReviewExists
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	metrics.ReviewsCreatedTotal.Inc()
	return r, nil
}

func (s *ReviewService) ListForService(ctx context.Context, serviceID string) ([]*domain.Review, error) {
	reviews, err := s.reviews.ListByService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Delete removes a review written by the caller, or any review for admins.
func (s *ReviewService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if !caller.CanModify(r.AuthorID) {
		return domain.ErrForbidden
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// RatingForUser averages the reviews left on every service userID owns.
func (s *ReviewService) RatingForUser(ctx context.Context, userID string) (*domain.RatingSummary, error) {
	ids, err := s.services.ListIDsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("rating: %w", err)
	}
	summary := &domain.RatingSummary{UserID: userID}
	if len(ids) == 0 {
		return summary, nil
	}
	summary.Average, summary.Count, err = s.reviews.Summarize(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("rating: %w", err)
	}
	return summary, nil
}
