package domain

import (
	"errors"
	"time"
)

// ApplicationStatus tracks a provider's bid on a service.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// accepted and rejected are terminal.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending: {ApplicationAccepted, ApplicationRejected},
}

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("application already exists")
	ErrServiceNotOpen      = errors.New("service is not accepting applications")
)

// CanTransitionTo reports whether a transition from s to next is allowed.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	return canTransition(applicationTransitions, s, next)
}

type Application struct {
	ID         string
	ServiceID  string
	ProviderID string
	Provider   *UserRef // populated on reads
	Message    string
	Status     ApplicationStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
