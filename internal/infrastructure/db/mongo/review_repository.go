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

const collectionReviews = "reviews"

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews)}
}

type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ServiceID primitive.ObjectID `bson:"service_id"`
	AuthorID  primitive.ObjectID `bson:"author_id"`
	Author    *userRefDoc        `bson:"author,omitempty"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *reviewDoc) toDomain() *domain.Review {
	r := &domain.Review{
		ID:        d.ID.Hex(),
		ServiceID: d.ServiceID.Hex(),
		AuthorID:  d.AuthorID.Hex(),
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt.UTC(),
	}
	if d.Author != nil {
		r.Author = &domain.UserRef{ID: d.Author.ID.Hex(), Username: d.Author.Username}
	}
	return r
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	serviceID, err := objectID(rv.ServiceID)
	if err != nil {
		return err
	}
	authorID, err := objectID(rv.AuthorID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := reviewDoc{
		ID:        primitive.NewObjectID(),
		ServiceID: serviceID,
		AuthorID:  authorID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrReviewExists
		}
		return fmt.Errorf("insert review: %w", err)
	}
	rv.ID = doc.ID.Hex()
	return nil
}

func (r *ReviewRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*domain.Review, error) {
	pipeline = append(pipeline, lookupUser("author_id", "author")...)
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Review, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	items, err := r.aggregate(ctx, mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": oid}}}})
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrReviewNotFound
	}
	return items[0], nil
}

func (r *ReviewRepository) ListByService(ctx context.Context, serviceID string) ([]*domain.Review, error) {
	oid, err := objectID(serviceID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	items, err := r.aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"service_id": oid}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return items, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) DeleteByService(ctx context.Context, serviceID string) (int64, error) {
	oid, err := objectID(serviceID)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"service_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete reviews: %w", err)
	}
	return res.DeletedCount, nil
}

// Summarize averages ratings across serviceIDs in one aggregation.
func (r *ReviewRepository) Summarize(ctx context.Context, serviceIDs []string) (float64, int64, error) {
	oids, err := objectIDs(serviceIDs)
	if err != nil {
		return 0, 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"service_id": bson.M{"$in": oids}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.M{"$avg": "$rating"}},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
	})
	if err != nil {
		return 0, 0, fmt.Errorf("summarize reviews: %w", err)
	}
	var rows []struct {
		Average float64 `bson:"average"`
		Count   int64   `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("summarize reviews: %w", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Average, rows[0].Count, nil
}

// EnsureIndexes enforces one review per author and service.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "service_id", Value: 1}, {Key: "author_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "service_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}
