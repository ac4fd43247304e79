// Package memory is a process-local implementation of the repository
// ports. It backs STORAGE_DRIVER=memory for local runs and the tests that
// exercise the use cases end to end.
package memory

import (
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/servicehub/marketplace/internal/core/domain"
)

// Store holds every collection behind one lock.
type Store struct {
	mu            sync.RWMutex
	users         map[string]*domain.User
	services      map[string]*domain.Service
	categories    map[string]*domain.Category
	reviews       map[string]*domain.Review
	applications  map[string]*domain.Application
	notifications map[string]*domain.Notification
	reports       map[string]*domain.Report
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]*domain.User),
		services:      make(map[string]*domain.Service),
		categories:    make(map[string]*domain.Category),
		reviews:       make(map[string]*domain.Review),
		applications:  make(map[string]*domain.Application),
		notifications: make(map[string]*domain.Notification),
		reports:       make(map[string]*domain.Report),
	}
}

// newID mints ids in the same format the mongo store uses.
func newID() string {
	return primitive.NewObjectID().Hex()
}

// checkID mirrors the mongo store, where a malformed id is a driver-level
// failure rather than a miss.
func checkID(id string) error {
	if !primitive.IsValidObjectID(id) {
		return fmt.Errorf("memory: invalid object id %q", id)
	}
	return nil
}

// userRef must be called with s.mu held.
func (s *Store) userRef(id string) *domain.UserRef {
	if u, ok := s.users[id]; ok {
		return u.Ref()
	}
	return nil
}
