// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/ailibrary/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.DBTimeoutPing,
		Short:  appCfg.DBTimeoutShort,
		Medium: appCfg.DBTimeoutMedium,
	})

	logger.Info("AI Library starting",
		zap.String("env", coreCfg.Env),
		zap.String("store_backend", appCfg.StoreBackend),
		zap.String("audit_log", appCfg.AuditLog),
		zap.Duration("admin_token_ttl", appCfg.AdminTokenTTL),
		zap.Int("submit_rate_limit", appCfg.SubmitRateLimit),
		zap.Bool("expose_token_endpoint", appCfg.ExposeTokenEndpoint),
	)
	return nil
}
