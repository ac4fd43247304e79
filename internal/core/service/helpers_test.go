package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/infrastructure/db/memory"
)

// plainHasher is a reversible stand-in for bcrypt that counts comparisons.
// Like the real pool it refuses work for a done context.
type plainHasher struct {
	mu       sync.Mutex
	compares int
}

func (h *plainHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "hashed:" + password, nil
}

func (h *plainHasher) Compare(ctx context.Context, hash, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	h.compares++
	h.mu.Unlock()
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type stubRevoker struct {
	revoked map[string]time.Time
	err     error
}

func (r *stubRevoker) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if r.err != nil {
		return r.err
	}
	if r.revoked == nil {
		r.revoked = make(map[string]time.Time)
	}
	r.revoked[tokenID] = expiresAt
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := r.revoked[tokenID]
	return ok, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	pushed map[string][]*domain.Notification
}

func (n *recordingNotifier) Push(userID string, note *domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pushed == nil {
		n.pushed = make(map[string][]*domain.Notification)
	}
	n.pushed[userID] = append(n.pushed[userID], note)
}

// fixture wires every use case over one in-memory store.
type fixture struct {
	store    *memory.Store
	users    *memory.UserRepository
	services *memory.ServiceRepository
	notifier *recordingNotifier

	catalog       *CatalogService
	reviews       *ReviewService
	applications  *ApplicationService
	notifications *NotificationService
}

func newFixture() *fixture {
	store := memory.NewStore()
	log := zerolog.Nop()
	f := &fixture{
		store:    store,
		users:    memory.NewUserRepository(store),
		services: memory.NewServiceRepository(store),
		notifier: &recordingNotifier{},
	}
	reviewRepo := memory.NewReviewRepository(store)
	appRepo := memory.NewApplicationRepository(store)
	f.notifications = NewNotificationService(memory.NewNotificationRepository(store), f.notifier, log)
	f.catalog = NewCatalogService(f.services, reviewRepo, appRepo, log)
	f.reviews = NewReviewService(reviewRepo, f.services, log)
	f.applications = NewApplicationService(appRepo, f.services, f.notifications, log)
	return f
}

func (f *fixture) user(t *testing.T, name, role string) domain.Identity {
	t.Helper()
	u, err := f.users.Create(context.Background(), &domain.User{
		Username:  name,
		Email:     strings.ToLower(name) + "@example.com",
		Role:      role,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return domain.Identity{UserID: u.ID, Role: role}
}
