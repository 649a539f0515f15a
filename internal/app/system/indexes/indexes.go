// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureResources(ctx, db); err != nil {
		problems = append(problems, "resources: "+err.Error())
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool {
	return b != nil && *b
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

// ensureIndexSet makes coll carry every index in desired. An index with the
// same key pattern and uniqueness is reused (renamed if the name differs);
// one with different options is dropped and recreated.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, desired []mongo.IndexModel) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to reconcile.
		zap.L().Debug("list indexes failed; creating from scratch",
			zap.String("collection", coll.Name()),
			zap.Error(err))
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range desired {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		ex, found := existing[sig]
		switch {
		case found && isUnique(ex.Unique) == isUnique(unique) && (name == "" || ex.Name == name):
			zap.L().Info("reusing existing index",
				zap.String("collection", coll.Name()),
				zap.String("name", ex.Name),
				zap.String("keys", sig))
			continue

		case found:
			zap.L().Info("replacing index",
				zap.String("collection", coll.Name()),
				zap.String("from", ex.Name),
				zap.String("to", name),
				zap.String("keys", sig),
				zap.Bool("unique", isUnique(unique)))
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), ex.Name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collections                                                                */
/* -------------------------------------------------------------------------- */

func ensureResources(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("resources"), []mongo.IndexModel{
		// Public and pending listings: filter by status, newest first.
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "submitted_at", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().SetName("idx_resources_status_submitted"),
		},
		// Category filter on the approved list.
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "category_ci", Value: 1},
				{Key: "submitted_at", Value: -1},
			},
			Options: options.Index().SetName("idx_resources_status_category"),
		},
		// Admin "list all".
		{
			Keys: bson.D{
				{Key: "submitted_at", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().SetName("idx_resources_submitted"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "resource_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_resource"),
		},
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_category_type"),
		},
	})
}
