// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Store backends accepted by store_backend.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// AppConfig holds service-specific configuration for the AI Library.
//
// These values come from environment variables (AILIBRARY_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers ports, TLS, and log level; everything here is specific to the
// resource directory.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Resource store selection
	StoreBackend string // "mongo" (default) or "postgres"
	PostgresDSN  string // pgx connection string, required when StoreBackend is "postgres"

	// Admin access
	JWTSecret           string        // HMAC secret for admin bearer tokens
	AdminTokenTTL       time.Duration // token lifetime; 0 issues tokens without expiry
	ExposeTokenEndpoint bool          // mount GET /api/resources/generate-admin-token

	// Submission throttling (per client IP)
	SubmitRateLimit int // submissions per minute; 0 disables
	SubmitRateBurst int

	// CORS for the browser front end
	CORSAllowedOrigins []string

	// Audit logging destination: all, db, log, or off
	AuditLog string

	// Storage call deadlines; zero keeps the built-in defaults
	DBTimeoutPing   time.Duration
	DBTimeoutShort  time.Duration
	DBTimeoutMedium time.Duration
}
