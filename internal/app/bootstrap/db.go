// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/ailibrary/internal/app/store/pgresources"
	"github.com/dalemusser/ailibrary/internal/app/system/indexes"
	"github.com/dalemusser/ailibrary/internal/app/system/ratelimit"
	"github.com/dalemusser/ailibrary/internal/app/system/timeouts"
	"github.com/dalemusser/ailibrary/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the configured resource store backend and verifies it
// answers a ping before the server starts accepting requests.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	switch appCfg.StoreBackend {
	case BackendPostgres:
		pool, err := connectPostgres(ctx, appCfg.PostgresDSN)
		if err != nil {
			logger.Error("postgres connect failed", zap.Error(err))
			return DBDeps{}, err
		}
		logger.Info("connected to postgres")
		return withLimiter(DBDeps{PGPool: pool}, appCfg), nil

	default:
		client, err := connectMongo(ctx, appCfg.MongoURI)
		if err != nil {
			logger.Error("MongoDB connect failed", zap.Error(err))
			return DBDeps{}, err
		}
		logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
		return withLimiter(DBDeps{
			MongoClient:   client,
			MongoDatabase: client.Database(appCfg.MongoDatabase),
		}, appCfg), nil
	}
}

// withLimiter attaches the submission limiter so its cleanup goroutine
// lives exactly as long as the connections; Shutdown stops both.
func withLimiter(deps DBDeps, appCfg AppConfig) DBDeps {
	deps.SubmitLimiter = ratelimit.New(appCfg.SubmitRateLimit, appCfg.SubmitRateBurst)
	return deps
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.DefaultShort)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func connectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.DefaultShort)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

// EnsureSchema sets up indexes, collection validators, or tables for the
// selected backend. Every step is idempotent so it runs on each boot.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.PGPool != nil {
		if err := pgresources.New(deps.PGPool).EnsureSchema(ctx); err != nil {
			logger.Error("postgres schema setup failed", zap.Error(err))
			return err
		}
		logger.Info("postgres schema ready")
		return nil
	}

	if deps.MongoDatabase == nil {
		return fmt.Errorf("no database connection")
	}
	// Validators first so the collections exist with their schema before
	// indexes are attached.
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("collection validators setup failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index setup failed", zap.Error(err))
		return err
	}
	logger.Info("MongoDB schema ready")
	return nil
}
