package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
)

const collectionServices = "services"

type ServiceRepository struct {
	col *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) *ServiceRepository {
	return &ServiceRepository{col: db.Collection(collectionServices)}
}

type serviceDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	Price       float64            `bson:"price"`
	Location    string             `bson:"location"`
	Status      string             `bson:"status"`
	OwnerID     primitive.ObjectID `bson:"owner_id"`
	Owner       *userRefDoc        `bson:"owner,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *serviceDoc) toDomain() *domain.Service {
	s := &domain.Service{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Price:       d.Price,
		Location:    d.Location,
		Status:      domain.ServiceStatus(d.Status),
		OwnerID:     d.OwnerID.Hex(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.Owner != nil {
		s.Owner = &domain.UserRef{ID: d.Owner.ID.Hex(), Username: d.Owner.Username}
	}
	return s
}

// Create inserts a new service document and assigns its ID.
func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	owner, err := objectID(s.OwnerID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := serviceDoc{
		ID:          primitive.NewObjectID(),
		Title:       s.Title,
		Description: s.Description,
		Category:    s.Category,
		Price:       s.Price,
		Location:    s.Location,
		Status:      string(s.Status),
		OwnerID:     owner,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	s.ID = doc.ID.Hex()
	return nil
}

func (r *ServiceRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*domain.Service, error) {
	pipeline = append(pipeline, lookupUser("owner_id", "owner")...)
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var docs []serviceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Service, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// FindByID returns the service with its owner joined.
func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	items, err := r.aggregate(ctx, mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": oid}}}})
	if err != nil {
		return nil, fmt.Errorf("find service: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrServiceNotFound
	}
	return items[0], nil
}

func serviceFilter(f ports.ServiceFilter) (bson.M, error) {
	filter := bson.M{}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{bson.M{"title": rx}, bson.M{"description": rx}}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Location != "" {
		filter["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.OwnerID != "" {
		oid, err := objectID(f.OwnerID)
		if err != nil {
			return nil, err
		}
		filter["owner_id"] = oid
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	return filter, nil
}

// List returns one page of matching services, newest first, and the
// total number of matches.
func (r *ServiceRepository) List(ctx context.Context, f ports.ServiceFilter) ([]*domain.Service, int64, error) {
	filter, err := serviceFilter(f)
	if err != nil {
		return nil, 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$skip", Value: int64(f.Offset)}},
	}
	if f.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(f.Limit)}})
	}
	items, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}
	return items, total, nil
}

func (r *ServiceRepository) ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	oid, err := objectID(ownerID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"owner_id": oid}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list service ids: %w", err)
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list service ids: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID.Hex())
	}
	return ids, nil
}

// Update applies patch. With ExpectStatus set the write is conditional on
// the stored status, which keeps concurrent transitions from both winning.
func (r *ServiceRepository) Update(ctx context.Context, id string, p ports.ServicePatch) (*domain.Service, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}

	filter := bson.M{"_id": oid}
	if p.ExpectStatus != "" {
		filter["status"] = string(p.ExpectStatus)
	}

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(opCtx, filter, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	if res.MatchedCount == 0 {
		if p.ExpectStatus != "" {
			n, err := r.col.CountDocuments(opCtx, bson.M{"_id": oid})
			if err != nil {
				return nil, fmt.Errorf("update service: %w", err)
			}
			if n > 0 {
				return nil, domain.ErrInvalidTransition
			}
		}
		return nil, domain.ErrServiceNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing the listing filters.
func (r *ServiceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}}},
	})
	return err
}

var _ ports.ServiceRepository = (*ServiceRepository)(nil)

