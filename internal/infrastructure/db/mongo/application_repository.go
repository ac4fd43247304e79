package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/servicehub/marketplace/internal/core/domain"
)

const collectionApplications = "applications"

type ApplicationRepository struct {
	col *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{col: db.Collection(collectionApplications)}
}

type applicationDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ServiceID  primitive.ObjectID `bson:"service_id"`
	ProviderID primitive.ObjectID `bson:"provider_id"`
	Provider   *userRefDoc        `bson:"provider,omitempty"`
	Message    string             `bson:"message"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (d *applicationDoc) toDomain() *domain.Application {
	a := &domain.Application{
		ID:         d.ID.Hex(),
		ServiceID:  d.ServiceID.Hex(),
		ProviderID: d.ProviderID.Hex(),
		Message:    d.Message,
		Status:     domain.ApplicationStatus(d.Status),
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
	if d.Provider != nil {
		a.Provider = &domain.UserRef{ID: d.Provider.ID.Hex(), Username: d.Provider.Username}
	}
	return a
}

func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	serviceID, err := objectID(a.ServiceID)
	if err != nil {
		return err
	}
	providerID, err := objectID(a.ProviderID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := applicationDoc{
		ID:         primitive.NewObjectID(),
		ServiceID:  serviceID,
		ProviderID: providerID,
		Message:    a.Message,
		Status:     string(a.Status),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrApplicationExists
		}
		return fmt.Errorf("insert application: %w", err)
	}
	a.ID = doc.ID.Hex()
	return nil
}

func (r *ApplicationRepository) aggregate(ctx context.Context, match bson.M) ([]*domain.Application, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	pipeline = append(pipeline, lookupUser("provider_id", "provider")...)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var docs []applicationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Application, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	items, err := r.aggregate(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrApplicationNotFound
	}
	return items[0], nil
}

func (r *ApplicationRepository) listBy(ctx context.Context, field, id string) ([]*domain.Application, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	items, err := r.aggregate(ctx, bson.M{field: oid})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return items, nil
}

func (r *ApplicationRepository) ListByService(ctx context.Context, serviceID string) ([]*domain.Application, error) {
	return r.listBy(ctx, "service_id", serviceID)
}

func (r *ApplicationRepository) ListByProvider(ctx context.Context, providerID string) ([]*domain.Application, error) {
	return r.listBy(ctx, "provider_id", providerID)
}

// UpdateStatus is a compare-and-set on the status field.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus) (*domain.Application, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(opCtx,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updated_at": time.Now().UTC().Truncate(time.Millisecond)}},
	)
	if err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(opCtx, bson.M{"_id": oid})
		if err != nil {
			return nil, fmt.Errorf("update application: %w", err)
		}
		if n > 0 {
			return nil, domain.ErrInvalidTransition
		}
		return nil, domain.ErrApplicationNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *ApplicationRepository) DeleteByService(ctx context.Context, serviceID string) (int64, error) {
	oid, err := objectID(serviceID)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"service_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete applications: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes enforces one application per provider and service.
func (r *ApplicationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "service_id", Value: 1}, {Key: "provider_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}
