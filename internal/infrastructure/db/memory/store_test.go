package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
)

func seedServices(t *testing.T, repo *ServiceRepository, ownerID string) {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []domain.Service{
		{Title: "Fix leaking sink", Description: "kitchen", Category: "Home Repair", Price: 40, Location: "Austin, TX"},
		{Title: "Move a sofa", Description: "two floors down", Category: "Moving", Price: 80, Location: "Dallas, TX"},
		{Title: "Algebra tutoring", Description: "weekly SINK or swim", Category: "Tutoring", Price: 25, Location: "austin"},
	}
	for i := range fixtures {
		svc := fixtures[i]
		svc.Status = domain.ServiceOpen
		svc.OwnerID = ownerID
		svc.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := repo.Create(context.Background(), &svc); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestServiceRepository_ListFilters(t *testing.T) {
	store := NewStore()
	users := NewUserRepository(store)
	owner, err := users.Create(context.Background(), &domain.User{Username: "alice", Email: "a@example.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	repo := NewServiceRepository(store)
	seedServices(t, repo, owner.ID)

	minPrice := 30.0
	cases := []struct {
		name   string
		filter ports.ServiceFilter
		want   int
	}{
		{"all", ports.ServiceFilter{}, 3},
		{"search title or description", ports.ServiceFilter{Search: "sink"}, 2},
		{"category", ports.ServiceFilter{Category: "Moving"}, 1},
		{"location partial", ports.ServiceFilter{Location: "AUSTIN"}, 2},
		{"min price", ports.ServiceFilter{MinPrice: &minPrice}, 2},
		{"owner", ports.ServiceFilter{OwnerID: "507f1f77bcf86cd799439011"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, total, err := repo.List(context.Background(), tc.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if int(total) != tc.want || len(items) != tc.want {
				t.Fatalf("expected %d results, got total=%d len=%d", tc.want, total, len(items))
			}
		})
	}

	items, total, _ := repo.List(context.Background(), ports.ServiceFilter{Limit: 1, Offset: 1})
	if total != 3 || len(items) != 1 {
		t.Fatalf("unexpected page: total=%d len=%d", total, len(items))
	}
	if items[0].Title != "Move a sofa" {
		t.Errorf("expected newest-first ordering, got %q", items[0].Title)
	}
	if items[0].Owner == nil || items[0].Owner.Username != "alice" {
		t.Errorf("expected owner to be joined, got %+v", items[0].Owner)
	}
}

func TestServiceRepository_UpdateExpectStatus(t *testing.T) {
	repo := NewServiceRepository(NewStore())
	svc := &domain.Service{Title: "t", Status: domain.ServiceOpen}
	_ = repo.Create(context.Background(), svc)

	closed := domain.ServiceClosed
	if _, err := repo.Update(context.Background(), svc.ID, ports.ServicePatch{Status: &closed, ExpectStatus: domain.ServiceInProgress}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for stale status, got %v", err)
	}
	got, err := repo.Update(context.Background(), svc.ID, ports.ServicePatch{Status: &closed, ExpectStatus: domain.ServiceOpen})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != domain.ServiceClosed {
		t.Errorf("expected closed, got %s", got.Status)
	}
}

func TestMalformedIDIsNotAMiss(t *testing.T) {
	repo := NewServiceRepository(NewStore())
	_, err := repo.FindByID(context.Background(), "not-an-id")
	if err == nil || errors.Is(err, domain.ErrServiceNotFound) {
		t.Fatalf("expected an unclassified error, got %v", err)
	}
	_, err = repo.FindByID(context.Background(), "507f1f77bcf86cd799439011")
	if !errors.Is(err, domain.ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
	if _, _, err := repo.List(context.Background(), ports.ServiceFilter{OwnerID: "not-an-id"}); err == nil {
		t.Fatal("expected malformed owner filter to fail")
	}
	if _, err := repo.ListIDsByOwner(context.Background(), "not-an-id"); err == nil {
		t.Fatal("expected malformed owner id to fail")
	}
}

func TestReviewRepository_UniquePerAuthorAndSummary(t *testing.T) {
	repo := NewReviewRepository(NewStore())
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.Review{ServiceID: "s1", AuthorID: "u1", Rating: 5}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &domain.Review{ServiceID: "s1", AuthorID: "u1", Rating: 1}); !errors.Is(err, domain.ErrReviewExists) {
		t.Fatalf("expected ErrReviewExists, got %v", err)
	}
	_ = repo.Create(ctx, &domain.Review{ServiceID: "s2", AuthorID: "u1", Rating: 2})
	_ = repo.Create(ctx, &domain.Review{ServiceID: "s3", AuthorID: "u1", Rating: 1})

	avg, n, err := repo.Summarize(ctx, []string{"s1", "s2"})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if n != 2 || avg != 3.5 {
		t.Errorf("expected avg 3.5 over 2, got %v over %d", avg, n)
	}
}

func TestNotificationRepository_MarkReadScopedToOwner(t *testing.T) {
	repo := NewNotificationRepository(NewStore())
	ctx := context.Background()
	n := &domain.Notification{UserID: "u1", Message: "hi"}
	_ = repo.Create(ctx, n)

	if err := repo.MarkRead(ctx, n.ID, "u2"); !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound for another user, got %v", err)
	}
	if err := repo.MarkRead(ctx, n.ID, "u1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if count, _ := repo.MarkAllRead(ctx, "u1"); count != 0 {
		t.Errorf("expected nothing left unread, got %d", count)
	}
}
