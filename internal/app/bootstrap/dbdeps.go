// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/ailibrary/internal/app/system/ratelimit"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// The Mongo fields are set for the mongo backend; PGPool is set for the
// postgres backend.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	PGPool *pgxpool.Pool

	// SubmitLimiter runs a background cleanup loop; Shutdown closes it.
	SubmitLimiter *ratelimit.Limiter
}
