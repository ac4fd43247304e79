package domain

import (
	"errors"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review already exists")
)

type Review struct {
	ID        string
	ServiceID string
	AuthorID  string
	Author    *UserRef // populated on reads
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// RatingSummary aggregates the reviews left on a user's services.
type RatingSummary struct {
	UserID  string
	Average float64
	Count   int64
}
