package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Environment overrides. When set, tests reuse the given server instead of
// starting a container.
const (
	EnvMongoURI = "AILIBRARY_TEST_MONGO_URI"
	EnvPGDSN    = "AILIBRARY_TEST_PG_DSN"
)

// TestContext returns a context with a timeout suitable for database tests.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

var (
	mongoOnce sync.Once
	mongoURI  string
	mongoErr  error

	pgOnce sync.Once
	pgDSN  string
	pgErr  error
)

// SetupTestDB returns a fresh, uniquely named Mongo database. One server
// (container or AILIBRARY_TEST_MONGO_URI) is shared by the test binary; the
// database is dropped when the test finishes. Skipped under -short.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Mongo-backed test in -short mode")
	}

	mongoOnce.Do(func() {
		if uri := os.Getenv(EnvMongoURI); uri != "" {
			mongoURI = uri
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		c, err := mongodb.Run(ctx, "mongo:7")
		if err != nil {
			mongoErr = fmt.Errorf("start mongo container: %w", err)
			return
		}
		mongoURI, mongoErr = c.ConnectionString(ctx)
	})
	if mongoErr != nil {
		t.Skipf("mongo unavailable: %v", mongoErr)
	}

	ctx, cancel := TestContext()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("ping mongo: %v", err)
	}

	db := client.Database("ailibrary_test_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

// SetupTestPG returns a pool on a fresh Postgres schema. The server is shared
// by the test binary (container or AILIBRARY_TEST_PG_DSN); each test gets
// its own schema via search_path, dropped on cleanup. Skipped under -short.
func SetupTestPG(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Postgres-backed test in -short mode")
	}

	pgOnce.Do(func() {
		if dsn := os.Getenv(EnvPGDSN); dsn != "" {
			pgDSN = dsn
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		c, err := postgres.Run(ctx,
			"postgres:16",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			pgErr = fmt.Errorf("start postgres container: %w", err)
			return
		}
		pgDSN, pgErr = c.ConnectionString(ctx, "sslmode=disable")
	})
	if pgErr != nil {
		t.Skipf("postgres unavailable: %v", pgErr)
	}

	ctx, cancel := TestContext()
	defer cancel()

	schema := "t_" + primitive.NewObjectID().Hex()

	admin, err := pgxpool.New(ctx, pgDSN)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	if _, err := admin.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		admin.Close()
		t.Fatalf("create schema: %v", err)
	}

	cfg, err := pgxpool.ParseConfig(pgDSN)
	if err != nil {
		admin.Close()
		t.Fatalf("parse dsn: %v", err)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		admin.Close()
		t.Fatalf("connect postgres: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		ctx, cancel := TestContext()
		defer cancel()
		_, _ = admin.Exec(ctx, "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})
	return pool
}
