package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/ailibrary/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateResource inserts a resource directly, bypassing validation.
// submittedAt lets tests control listing order.
func (f *Fixtures) CreateResource(ctx context.Context, name, category string, status models.Status, submittedAt time.Time) models.Resource {
	f.t.Helper()

	r := models.Resource{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: "Fixture resource " + name,
		URL:         "https://example.com/" + primitive.NewObjectID().Hex(),
		Category:    category,
		CategoryCI:  text.Fold(category),
		Status:      status,
		SubmittedBy: models.Submitter{Name: "Fixture", Email: "fixture@test.com"},
		SubmittedAt: submittedAt.UTC().Truncate(time.Millisecond),
	}
	if _, err := f.db.Collection("resources").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create resource: %v", err)
	}
	return r
}

// CreatePending inserts a pending resource submitted now.
func (f *Fixtures) CreatePending(ctx context.Context, name, category string) models.Resource {
	f.t.Helper()
	return f.CreateResource(ctx, name, category, models.StatusPending, time.Now())
}

// CreateApproved inserts an approved resource submitted now.
func (f *Fixtures) CreateApproved(ctx context.Context, name, category string) models.Resource {
	f.t.Helper()
	return f.CreateResource(ctx, name, category, models.StatusApproved, time.Now())
}
