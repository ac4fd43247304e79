package domain

import (
	"errors"
	"time"
)

// ServiceStatus represents the lifecycle state of a posted service.
type ServiceStatus string

const (
	ServiceOpen       ServiceStatus = "open"
	ServiceInProgress ServiceStatus = "in_progress"
	ServiceClosed     ServiceStatus = "closed"
)

// serviceTransitions is a straight line: open, in_progress, closed.
// There are no reverse edges and no skipping; closed is terminal.
var serviceTransitions = map[ServiceStatus][]ServiceStatus{
	ServiceOpen:       {ServiceInProgress},
	ServiceInProgress: {ServiceClosed},
}

var ErrServiceNotFound = errors.New("service not found")

// Valid reports whether s is a known status.
func (s ServiceStatus) Valid() bool {
	switch s {
	case ServiceOpen, ServiceInProgress, ServiceClosed:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from s to next is allowed.
func (s ServiceStatus) CanTransitionTo(next ServiceStatus) bool {
	return canTransition(serviceTransitions, s, next)
}

// Service is a job posted by a user looking for a provider.
type Service struct {
	ID          string
	Title       string
	Description string
	Category    string
	Price       float64
	Location    string
	Status      ServiceStatus
	OwnerID     string
	Owner       *UserRef // populated on reads
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
