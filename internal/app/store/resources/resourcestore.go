// internal/app/store/resources/resourcestore.go
package resourcestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ailibrary/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding directory resources.
const CollectionName = "resources"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// newestFirst is the listing order: submitted_at desc, ties broken by _id desc.
var newestFirst = bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}}

// Create inserts a new Resource, assigning its ID and filling CategoryCI,
// Status and SubmittedAt when the caller left them empty.
func (s *Store) Create(ctx context.Context, r models.Resource) (models.Resource, error) {
	r.ID = primitive.NewObjectID()
	if r.CategoryCI == "" {
		r.CategoryCI = text.Fold(r.Category)
	}
	if r.Status == "" {
		r.Status = models.StatusPending
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}
	// Mongo stores millisecond precision. Round up so the returned value
	// matches a later read and never precedes the call.
	r.SubmittedAt = ceilTime(r.SubmittedAt, time.Millisecond)

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Resource{}, err
	}
	return r, nil
}

// SetStatus atomically replaces the status of one resource and returns the
// updated document.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st models.Status) (models.Resource, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var r models.Resource
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": st, "updated_at": now}},
		opts,
	).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Resource{}, models.ErrResourceNotFound
		}
		return models.Resource{}, err
	}
	return r, nil
}

// GetByID returns a resource by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	var r models.Resource
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Resource{}, models.ErrResourceNotFound
		}
		return models.Resource{}, err
	}
	return r, nil
}

// ListByStatus returns resources in the given status, newest first. A
// non-empty categoryCI narrows the result to that folded category.
func (s *Store) ListByStatus(ctx context.Context, st models.Status, categoryCI string) ([]models.Resource, error) {
	filter := bson.M{"status": st}
	if categoryCI != "" {
		filter["category_ci"] = categoryCI
	}
	return s.find(ctx, filter)
}

// ListAll returns every resource, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Resource, error) {
	return s.find(ctx, bson.M{})
}

// CountByStatus groups resources by status and returns the counts.
func (s *Store) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status models.Status `bson:"_id"`
		N      int64         `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[models.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Resource, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Resource{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ceilTime rounds t up to a multiple of d.
func ceilTime(t time.Time, d time.Duration) time.Time {
	tr := t.Truncate(d)
	if tr.Before(t) {
		tr = tr.Add(d)
	}
	return tr
}
