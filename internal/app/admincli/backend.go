// internal/app/admincli/backend.go
package admincli

import (
	"context"
	"fmt"

	"github.com/dalemusser/ailibrary/internal/app/moderation"
	"github.com/dalemusser/ailibrary/internal/app/store/audit"
	"github.com/dalemusser/ailibrary/internal/app/store/pgresources"
	resourcestore "github.com/dalemusser/ailibrary/internal/app/store/resources"
	"github.com/dalemusser/ailibrary/internal/app/system/timeouts"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Backend is an open connection to the resource store the server uses.
type Backend struct {
	Store moderation.Store
	Audit *audit.Store // nil for postgres

	close func(context.Context) error
}

// Close releases the underlying connection.
func (b *Backend) Close(ctx context.Context) error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// OpenBackend connects to the store named by cfg.StoreBackend. It does not
// create schema; the server owns that.
func OpenBackend(ctx context.Context, cfg Config, logger *zap.Logger) (*Backend, error) {
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	switch cfg.StoreBackend {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres ping: %w", err)
		}
		logger.Debug("connected to postgres")
		return &Backend{
			Store: pgresources.New(pool),
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	default:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo ping: %w", err)
		}
		logger.Debug("connected to MongoDB", zap.String("database", cfg.MongoDatabase))
		db := client.Database(cfg.MongoDatabase)
		return &Backend{
			Store: resourcestore.New(db),
			Audit: audit.New(db),
			close: client.Disconnect,
		}, nil
	}
}
