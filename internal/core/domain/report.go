package domain

import (
	"errors"
	"time"
)

type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportReviewed ReportStatus = "reviewed"
	ReportResolved ReportStatus = "resolved"
)

var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportPending:  {ReportReviewed, ReportResolved},
	ReportReviewed: {ReportResolved},
}

var ErrReportNotFound = errors.New("report not found")

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportReviewed, ReportResolved:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from s to next is allowed.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	return canTransition(reportTransitions, s, next)
}

// Report is a moderation ticket raised by one user against another.
type Report struct {
	ID             string
	ReporterID     string
	ReportedUserID string
	Reason         string
	Status         ReportStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
