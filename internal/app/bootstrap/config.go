// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/dalemusser/ailibrary/internal/app/system/auditlog"
	"github.com/dalemusser/ailibrary/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the AI Library.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: AILIBRARY_MONGO_URI, AILIBRARY_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "ai_library", Desc: "MongoDB database name"},

	// Resource store
	{Name: "store_backend", Default: BackendMongo, Desc: "Resource store backend: 'mongo' or 'postgres'"},
	{Name: "postgres_dsn", Default: "", Desc: "Postgres connection string (store_backend=postgres)"},

	// Admin tokens
	{Name: "jwt_secret", Default: "", Desc: "HMAC secret used to sign admin tokens (required)"},
	{Name: "admin_token_ttl", Default: "0s", Desc: "Admin token lifetime (e.g., 12h); 0 means no expiry"},
	{Name: "expose_token_endpoint", Default: true, Desc: "Serve GET /api/resources/generate-admin-token; set false to mint tokens only through the admin CLI"},

	// Submission rate limiting
	{Name: "submit_rate_limit", Default: 10, Desc: "Submissions per minute per client IP (0 disables)"},
	{Name: "submit_rate_burst", Default: 5, Desc: "Submission burst size per client IP"},

	// CORS
	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated list of allowed CORS origins"},

	// Audit logging
	{Name: "audit_log", Default: auditlog.ModeAll, Desc: "Audit event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Storage deadlines
	{Name: "db_timeout_ping", Default: "2s", Desc: "Deadline for health check pings"},
	{Name: "db_timeout_short", Default: "5s", Desc: "Deadline for single-record reads and writes"},
	{Name: "db_timeout_medium", Default: "10s", Desc: "Deadline for listings and counts"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, AILIBRARY_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "AILIBRARY", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		StoreBackend: strings.ToLower(strings.TrimSpace(appValues.String("store_backend"))),
		PostgresDSN:  appValues.String("postgres_dsn"),

		JWTSecret:           appValues.String("jwt_secret"),
		AdminTokenTTL:       appValues.Duration("admin_token_ttl", 0),
		ExposeTokenEndpoint: appValues.Bool("expose_token_endpoint"),

		SubmitRateLimit: appValues.Int("submit_rate_limit"),
		SubmitRateBurst: appValues.Int("submit_rate_burst"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		AuditLog: strings.ToLower(strings.TrimSpace(appValues.String("audit_log"))),

		DBTimeoutPing:   appValues.Duration("db_timeout_ping", timeouts.DefaultPing),
		DBTimeoutShort:  appValues.Duration("db_timeout_short", timeouts.DefaultShort),
		DBTimeoutMedium: appValues.Duration("db_timeout_medium", timeouts.DefaultMedium),
	}

	if appCfg.ExposeTokenEndpoint && coreCfg.Env == "prod" {
		logger.Warn("admin token endpoint is exposed in prod; anyone can mint admin tokens")
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Configuration mistakes are caught here, before any connection is
// attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreBackend {
	case BackendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo_database must be set")
		}
	case BackendPostgres:
		if appCfg.PostgresDSN == "" {
			return fmt.Errorf("store_backend=postgres requires postgres_dsn to be set")
		}
	default:
		return fmt.Errorf("unknown store_backend %q (want %q or %q)", appCfg.StoreBackend, BackendMongo, BackendPostgres)
	}

	if strings.TrimSpace(appCfg.JWTSecret) == "" {
		return fmt.Errorf("jwt_secret must be set")
	}
	if appCfg.AdminTokenTTL < 0 {
		return fmt.Errorf("admin_token_ttl must not be negative")
	}
	if appCfg.SubmitRateLimit > 0 && appCfg.SubmitRateBurst < 1 {
		return fmt.Errorf("submit_rate_burst must be at least 1 when submit_rate_limit is set")
	}

	switch appCfg.AuditLog {
	case auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
	default:
		return fmt.Errorf("unknown audit_log mode %q", appCfg.AuditLog)
	}
	if appCfg.StoreBackend == BackendPostgres && appCfg.AuditLog == auditlog.ModeDB {
		logger.Warn("audit_log=db has no effect with the postgres backend; audit events are not recorded")
	}

	return nil
}

// splitList turns "a, b,,c" into ["a" "b" "c"].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
