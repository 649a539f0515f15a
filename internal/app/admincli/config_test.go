package admincli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func loadWith(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	fset := NewFlagSet("test")
	// Never pick up a developer's .env from the package directory.
	args = append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...)
	if err := fset.Parse(args); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return LoadConfig(fset)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadWith(t)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.StoreBackend != "mongo" {
		t.Errorf("StoreBackend: got %q, want mongo", cfg.StoreBackend)
	}
	if cfg.MongoDatabase != "ai_library" {
		t.Errorf("MongoDatabase: got %q, want ai_library", cfg.MongoDatabase)
	}
	if cfg.AdminTokenTTL != 0 {
		t.Errorf("AdminTokenTTL: got %v, want 0", cfg.AdminTokenTTL)
	}
	if cfg.AuditLog != "all" {
		t.Errorf("AuditLog: got %q, want all", cfg.AuditLog)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Setenv("AILIBRARY_MONGO_DATABASE", "from_env")
	t.Setenv("AILIBRARY_JWT_SECRET", "env-secret")
	t.Setenv("AILIBRARY_ADMIN_TOKEN_TTL", "90m")

	cfg, err := loadWith(t, "--jwt-secret", "flag-secret")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MongoDatabase != "from_env" {
		t.Errorf("env should beat default: got %q", cfg.MongoDatabase)
	}
	if cfg.JWTSecret != "flag-secret" {
		t.Errorf("flag should beat env: got %q", cfg.JWTSecret)
	}
	if cfg.AdminTokenTTL != 90*time.Minute {
		t.Errorf("AdminTokenTTL: got %v, want 90m", cfg.AdminTokenTTL)
	}
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	const key = "AILIBRARY_POSTGRES_DSN"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	body := "AILIBRARY_POSTGRES_DSN=postgres://dotenv/ailibrary\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadWith(t, "--env-file", path, "--backend", "postgres")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PostgresDSN != "postgres://dotenv/ailibrary" {
		t.Errorf("PostgresDSN: got %q", cfg.PostgresDSN)
	}
}

func TestLoadConfig_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.yaml")
	body := "store_backend: postgres\npostgres_dsn: postgres://file/ailibrary\naudit_log: LOG\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadWith(t, "--config", path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.StoreBackend != "postgres" || cfg.PostgresDSN != "postgres://file/ailibrary" {
		t.Errorf("got backend %q dsn %q", cfg.StoreBackend, cfg.PostgresDSN)
	}
	if cfg.AuditLog != "log" {
		t.Errorf("AuditLog: got %q, want log", cfg.AuditLog)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown backend", []string{"--backend", "sqlite"}, "unknown store_backend"},
		{"postgres without dsn", []string{"--backend", "postgres"}, "postgres_dsn"},
		{"negative ttl", []string{"--admin-token-ttl=-1m"}, "admin_token_ttl"},
		{"bad audit mode", []string{"--audit-log", "loud"}, "audit_log"},
		{"missing config file", []string{"--config", "/nonexistent/admin.yaml"}, "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadWith(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunMain_HelpNeedsNoBackend(t *testing.T) {
	var stdout, stderr strings.Builder
	code := Main(t.Context(), []string{"--env-file", "", "help"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code: got %d, want 0 (stderr %q)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Usage: ailibrary-admin") {
		t.Errorf("stdout: %q", stdout.String())
	}
}
