package indexes_test

import (
	"testing"

	"github.com/dalemusser/ailibrary/internal/app/system/indexes"
	"github.com/dalemusser/ailibrary/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, coll *mongo.Collection) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("Decode index failed: %v", err)
		}
		names[idx["name"].(string)] = true
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	resources := indexNames(t, db.Collection("resources"))
	for _, name := range []string{"idx_resources_status_submitted", "idx_resources_status_category", "idx_resources_submitted"} {
		if !resources[name] {
			t.Errorf("missing resources index %q (have %v)", name, resources)
		}
	}

	audit := indexNames(t, db.Collection("audit_events"))
	if !audit["idx_audit_resource"] {
		t.Errorf("missing audit index idx_audit_resource (have %v)", audit)
	}
}

func TestEnsureAll_RenamesExistingIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Same keys under a legacy name.
	_, err := db.Collection("resources").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "submitted_at", Value: -1},
			{Key: "_id", Value: -1},
		},
		Options: options.Index().SetName("legacy_status"),
	})
	if err != nil {
		t.Fatalf("seed index failed: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, db.Collection("resources"))
	if names["legacy_status"] {
		t.Error("expected legacy index to be replaced")
	}
	if !names["idx_resources_status_submitted"] {
		t.Error("expected desired index name")
	}
}
