// internal/app/admincli/config.go
package admincli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/dalemusser/ailibrary/internal/app/system/auditlog"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix matches the server so one .env file serves both binaries.
const EnvPrefix = "AILIBRARY"

// Config is the subset of server configuration the admin tool needs.
type Config struct {
	StoreBackend  string        `mapstructure:"store_backend"`
	MongoURI      string        `mapstructure:"mongo_uri"`
	MongoDatabase string        `mapstructure:"mongo_database"`
	PostgresDSN   string        `mapstructure:"postgres_dsn"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	AdminTokenTTL time.Duration `mapstructure:"admin_token_ttl"`
	AuditLog      string        `mapstructure:"audit_log"`
	Verbose       bool          `mapstructure:"verbose"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"backend":         "store_backend",
	"mongo-uri":       "mongo_uri",
	"mongo-database":  "mongo_database",
	"postgres-dsn":    "postgres_dsn",
	"jwt-secret":      "jwt_secret",
	"admin-token-ttl": "admin_token_ttl",
	"audit-log":       "audit_log",
	"verbose":         "verbose",
}

// NewFlagSet returns the global flag set. Parsing stops at the first
// non-flag argument, which is the command name.
func NewFlagSet(name string) *pflag.FlagSet {
	fset := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fset.SetInterspersed(false)

	fset.String("config", "", "path to a config file (yaml, json, or toml)")
	fset.String("env-file", ".env", "path to a .env file; missing files are ignored")
	fset.String("backend", "mongo", "resource store backend: mongo or postgres")
	fset.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	fset.String("mongo-database", "ai_library", "MongoDB database name")
	fset.String("postgres-dsn", "", "Postgres connection string")
	fset.String("jwt-secret", "", "HMAC secret for admin tokens")
	fset.Duration("admin-token-ttl", 0, "admin token lifetime; 0 means no expiry")
	fset.String("audit-log", "all", "audit destination: all, db, log, or off")
	fset.BoolP("verbose", "v", false, "log debug output to stderr")
	return fset
}

// LoadConfig resolves configuration from, in order of precedence, explicitly
// set flags, AILIBRARY_* environment variables (including any loaded from
// the .env file), an optional config file, and flag defaults.
func LoadConfig(fset *pflag.FlagSet) (Config, error) {
	envFile, _ := fset.GetString("env-file")
	if envFile != "" {
		// godotenv never overrides variables already set in the process.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for flagName, key := range flagKeys {
		if err := v.BindPFlag(key, fset.Lookup(flagName)); err != nil {
			return Config{}, fmt.Errorf("bind flag %s: %w", flagName, err)
		}
	}

	if path, _ := fset.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.AuditLog = strings.ToLower(strings.TrimSpace(cfg.AuditLog))
	return cfg, cfg.Validate()
}

// Validate checks the settings every command needs. The JWT secret is only
// required by the token command and is checked there.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case "mongo":
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return fmt.Errorf("mongo backend requires mongo_uri and mongo_database")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres backend requires postgres_dsn")
		}
	default:
		return fmt.Errorf("unknown store_backend %q", c.StoreBackend)
	}
	if c.AdminTokenTTL < 0 {
		return fmt.Errorf("admin_token_ttl must not be negative")
	}
	switch c.AuditLog {
	case auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
	default:
		return fmt.Errorf("unknown audit_log mode %q", c.AuditLog)
	}
	return nil
}
