package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
)

func duplicateKey() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error",
	})
}

func matched(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewUserRepository(mt.DB)

		u, err := repo.Create(context.Background(), &domain.User{Username: "alice", Email: "a@example.com", Role: domain.RoleUser})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !primitive.IsValidObjectID(u.ID) {
			t.Errorf("expected object id, got %q", u.ID)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(duplicateKey())
		repo := NewUserRepository(mt.DB)

		_, err := repo.Create(context.Background(), &domain.User{Username: "alice", Email: "a@example.com"})
		if !errors.Is(err, domain.ErrUserExists) {
			t.Fatalf("expected ErrUserExists, got %v", err)
		}
	})

	mt.Run("find by email", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "marketplace.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "username", Value: "alice"},
			{Key: "email", Value: "a@example.com"},
			{Key: "password_hash", Value: "$2a$10$hash"},
			{Key: "role", Value: "admin"},
			{Key: "disabled", Value: true},
			{Key: "created_at", Value: created},
		}))
		repo := NewUserRepository(mt.DB)

		u, err := repo.FindByEmail(context.Background(), "a@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.ID != id.Hex() || u.Role != domain.RoleAdmin || !u.Disabled || !u.CreatedAt.Equal(created) {
			t.Errorf("unexpected user: %+v", u)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "marketplace.users", mtest.FirstBatch))
		repo := NewUserRepository(mt.DB)

		if _, err := repo.FindByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("malformed id is not a miss", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)

		_, err := repo.FindByID(context.Background(), "not-an-object-id")
		if err == nil || errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected an unclassified error, got %v", err)
		}
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(matched(0))
		repo := NewUserRepository(mt.DB)

		if err := repo.Delete(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestServiceRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find joins owner", func(mt *mtest.T) {
		id, owner := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "marketplace.services", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "title", Value: "Paint fence"},
			{Key: "price", Value: 120.5},
			{Key: "status", Value: "open"},
			{Key: "owner_id", Value: owner},
			{Key: "owner", Value: bson.D{{Key: "_id", Value: owner}, {Key: "username", Value: "alice"}}},
		}))
		repo := NewServiceRepository(mt.DB)

		svc, err := repo.FindByID(context.Background(), id.Hex())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc.Owner == nil || svc.Owner.Username != "alice" || svc.OwnerID != owner.Hex() {
			t.Errorf("owner not joined: %+v", svc)
		}
		if svc.Status != domain.ServiceOpen || svc.Price != 120.5 {
			t.Errorf("unexpected service: %+v", svc)
		}
	})

	mt.Run("find missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "marketplace.services", mtest.FirstBatch))
		repo := NewServiceRepository(mt.DB)

		if _, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, domain.ErrServiceNotFound) {
			t.Fatalf("expected ErrServiceNotFound, got %v", err)
		}
	})

	mt.Run("stale status", func(mt *mtest.T) {
		mt.AddMockResponses(
			matched(0),
			mtest.CreateCursorResponse(0, "marketplace.services", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)
		repo := NewServiceRepository(mt.DB)

		closed := domain.ServiceClosed
		_, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), ports.ServicePatch{
			Status:       &closed,
			ExpectStatus: domain.ServiceOpen,
		})
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	mt.Run("update missing", func(mt *mtest.T) {
		mt.AddMockResponses(matched(0))
		repo := NewServiceRepository(mt.DB)

		title := "x"
		_, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), ports.ServicePatch{Title: &title})
		if !errors.Is(err, domain.ErrServiceNotFound) {
			t.Fatalf("expected ErrServiceNotFound, got %v", err)
		}
	})
}

func TestServiceFilter(t *testing.T) {
	lo, hi := 10.0, 50.0
	filter, err := serviceFilter(ports.ServiceFilter{
		Search:   "a.b",
		Category: "Moving",
		Status:   domain.ServiceOpen,
		MinPrice: &lo,
		MaxPrice: &hi,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	or, ok := filter["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("expected title/description $or, got %#v", filter["$or"])
	}
	rx := or[0].(bson.M)["title"].(primitive.Regex)
	if rx.Pattern != `a\.b` || rx.Options != "i" {
		t.Errorf("search must be escaped and case-insensitive, got %+v", rx)
	}
	price := filter["price"].(bson.M)
	if price["$gte"] != 10.0 || price["$lte"] != 50.0 {
		t.Errorf("unexpected price range: %v", price)
	}

	if _, err := serviceFilter(ports.ServiceFilter{OwnerID: "bogus"}); err == nil {
		t.Error("expected malformed owner id to fail")
	}
}

func TestReviewRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("one review per author", func(mt *mtest.T) {
		mt.AddMockResponses(duplicateKey())
		repo := NewReviewRepository(mt.DB)

		err := repo.Create(context.Background(), &domain.Review{
			ServiceID: primitive.NewObjectID().Hex(),
			AuthorID:  primitive.NewObjectID().Hex(),
			Rating:    5,
		})
		if !errors.Is(err, domain.ErrReviewExists) {
			t.Fatalf("expected ErrReviewExists, got %v", err)
		}
	})

	mt.Run("summarize", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "marketplace.reviews", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: 4.5},
			{Key: "count", Value: int32(2)},
		}))
		repo := NewReviewRepository(mt.DB)

		avg, n, err := repo.Summarize(context.Background(), []string{primitive.NewObjectID().Hex()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if avg != 4.5 || n != 2 {
			t.Errorf("expected 4.5 over 2, got %v over %d", avg, n)
		}
	})
}

func TestCategoryRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate name", func(mt *mtest.T) {
		mt.AddMockResponses(duplicateKey())
		repo := NewCategoryRepository(mt.DB)

		if err := repo.Create(context.Background(), &domain.Category{Name: "Cleaning"}); !errors.Is(err, domain.ErrCategoryExists) {
			t.Fatalf("expected ErrCategoryExists, got %v", err)
		}
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(matched(0))
		repo := NewCategoryRepository(mt.DB)

		if err := repo.Delete(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, domain.ErrCategoryNotFound) {
			t.Fatalf("expected ErrCategoryNotFound, got %v", err)
		}
	})
}

func TestApplicationRepository_StaleDecision(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("already decided", func(mt *mtest.T) {
		mt.AddMockResponses(
			matched(0),
			mtest.CreateCursorResponse(0, "marketplace.applications", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)
		repo := NewApplicationRepository(mt.DB)

		_, err := repo.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), domain.ApplicationPending, domain.ApplicationAccepted)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	mt.Run("duplicate application", func(mt *mtest.T) {
		mt.AddMockResponses(duplicateKey())
		repo := NewApplicationRepository(mt.DB)

		err := repo.Create(context.Background(), &domain.Application{
			ServiceID:  primitive.NewObjectID().Hex(),
			ProviderID: primitive.NewObjectID().Hex(),
			Status:     domain.ApplicationPending,
		})
		if !errors.Is(err, domain.ErrApplicationExists) {
			t.Fatalf("expected ErrApplicationExists, got %v", err)
		}
	})
}

func TestNotificationRepository_MarkReadOtherUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no match", func(mt *mtest.T) {
		mt.AddMockResponses(matched(0))
		repo := NewNotificationRepository(mt.DB)

		err := repo.MarkRead(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
		if !errors.Is(err, domain.ErrNotificationNotFound) {
			t.Fatalf("expected ErrNotificationNotFound, got %v", err)
		}
	})
}
