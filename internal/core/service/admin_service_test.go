package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
	"github.com/servicehub/marketplace/internal/infrastructure/db/memory"
)

func TestCategoryService(t *testing.T) {
	svc := NewCategoryService(memory.NewCategoryRepository(memory.NewStore()), zerolog.Nop())
	ctx := context.Background()

	added, err := svc.SeedDefaults(ctx)
	if err != nil || added != len(domain.DefaultCategories) {
		t.Fatalf("expected %d seeded, got %d (%v)", len(domain.DefaultCategories), added, err)
	}
	if again, _ := svc.SeedDefaults(ctx); again != 0 {
		t.Errorf("seeding must be a no-op on a populated catalogue, added %d", again)
	}

	if _, err := svc.Create(ctx, "Cleaning", ""); !errors.Is(err, domain.ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
	if _, err := svc.Create(ctx, "  ", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	c, err := svc.Create(ctx, "Gardening", "lawns and hedges")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, _ := svc.List(ctx)
	if len(list) != len(domain.DefaultCategories)+1 {
		t.Fatalf("unexpected category count %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Fatalf("categories not sorted by name: %q before %q", list[i-1].Name, list[i].Name)
		}
	}

	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, c.ID); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestUserService_Update(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.users, zerolog.Nop())
	ctx := context.Background()
	alice := f.user(t, "alice", domain.RoleUser)
	admin := f.user(t, "root", domain.RoleAdmin)

	role := domain.RoleAdmin
	if _, err := svc.Update(ctx, alice, alice.UserID, ports.UserPatch{Role: &role}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self-promotion, got %v", err)
	}

	disabled := true
	u, err := svc.Update(ctx, admin, alice.UserID, ports.UserPatch{Disabled: &disabled})
	if err != nil || !u.Disabled {
		t.Fatalf("disable: %+v %v", u, err)
	}

	bogus := "superuser"
	if _, err := svc.Update(ctx, admin, alice.UserID, ports.UserPatch{Role: &bogus}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	demote := domain.RoleUser
	if _, err := svc.Update(ctx, admin, admin.UserID, ports.UserPatch{Role: &demote}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("admins must not demote themselves, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.users, zerolog.Nop())
	ctx := context.Background()
	alice := f.user(t, "alice", domain.RoleUser)
	admin := f.user(t, "root", domain.RoleAdmin)

	if err := svc.Delete(ctx, admin, admin.UserID); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected self-delete to be refused, got %v", err)
	}
	if err := svc.Delete(ctx, admin, alice.UserID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, alice.UserID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestReportService(t *testing.T) {
	f := newFixture()
	svc := NewReportService(memory.NewReportRepository(f.store), f.users, zerolog.Nop())
	ctx := context.Background()
	alice := f.user(t, "alice", domain.RoleUser)
	bob := f.user(t, "bob", domain.RoleUser)

	if _, err := svc.Create(ctx, alice, alice.UserID, "spam"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected self-report refused, got %v", err)
	}
	if _, err := svc.Create(ctx, alice, "507f1f77bcf86cd799439011", "spam"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	r, err := svc.Create(ctx, alice, bob.UserID, "no-show")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.Status != domain.ReportPending {
		t.Errorf("expected pending, got %s", r.Status)
	}

	if pending, _ := svc.List(ctx, "pending"); len(pending) != 1 {
		t.Errorf("expected one pending report, got %d", len(pending))
	}
	if _, err := svc.List(ctx, "lost"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown filter, got %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, r.ID, "reviewed"); err != nil {
		t.Fatalf("pending -> reviewed: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, r.ID, "pending"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if got, err := svc.UpdateStatus(ctx, r.ID, "resolved"); err != nil || got.Status != domain.ReportResolved {
		t.Fatalf("reviewed -> resolved: %v", err)
	}
}
