// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	auditfeature "github.com/dalemusser/ailibrary/internal/app/features/auditlog"
	errorsfeature "github.com/dalemusser/ailibrary/internal/app/features/errors"
	healthfeature "github.com/dalemusser/ailibrary/internal/app/features/health"
	homefeature "github.com/dalemusser/ailibrary/internal/app/features/home"
	resourcesfeature "github.com/dalemusser/ailibrary/internal/app/features/resources"
	"github.com/dalemusser/ailibrary/internal/app/moderation"
	"github.com/dalemusser/ailibrary/internal/app/store/audit"
	"github.com/dalemusser/ailibrary/internal/app/store/pgresources"
	resourcestore "github.com/dalemusser/ailibrary/internal/app/store/resources"
	"github.com/dalemusser/ailibrary/internal/app/system/adminauth"
	"github.com/dalemusser/ailibrary/internal/app/system/auditlog"
	"github.com/dalemusser/ailibrary/internal/app/system/ratelimit"
	"github.com/dalemusser/ailibrary/internal/app/system/reqlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// serviceName is reported by the root info endpoint.
const serviceName = "AI Library API Server"

// backendDeps is what the router needs from the storage layer, independent
// of which backend supplied it.
type backendDeps struct {
	name   string
	store  moderation.Store
	audit  *audit.Store // nil when audit events have no database home
	pinger healthfeature.Pinger
}

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. The router serves:
//   - /health: storage connectivity
//   - /api/resources: the resource directory (public + admin)
//   - /api/audit: audit trail (admin, mongo backend only)
//   - /: service info
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	bd, err := backendFor(appCfg, deps)
	if err != nil {
		logger.Error("no storage backend available", zap.Error(err))
		return nil, err
	}
	limiter := deps.SubmitLimiter
	if limiter == nil {
		limiter = ratelimit.New(appCfg.SubmitRateLimit, appCfg.SubmitRateBurst)
	}
	return newRouter(appCfg, bd, limiter, logger)
}

func backendFor(appCfg AppConfig, deps DBDeps) (backendDeps, error) {
	switch {
	case deps.PGPool != nil:
		return backendDeps{
			name:   BackendPostgres,
			store:  pgresources.New(deps.PGPool),
			pinger: healthfeature.PingerFunc(deps.PGPool.Ping),
		}, nil

	case deps.MongoDatabase != nil:
		client := deps.MongoClient
		return backendDeps{
			name:  BackendMongo,
			store: resourcestore.New(deps.MongoDatabase),
			audit: audit.New(deps.MongoDatabase),
			pinger: healthfeature.PingerFunc(func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			}),
		}, nil
	}
	return backendDeps{}, fmt.Errorf("DBDeps has neither a MongoDB database nor a postgres pool")
}

func newRouter(appCfg AppConfig, bd backendDeps, limiter *ratelimit.Limiter, logger *zap.Logger) (http.Handler, error) {
	auditLogger := auditlog.New(bd.audit, logger, auditlog.Uniform(appCfg.AuditLog))

	gate, err := adminauth.NewGate(appCfg.JWTSecret, appCfg.AdminTokenTTL,
		adminauth.WithAudit(auditLogger),
		adminauth.WithLogger(logger),
	)
	if err != nil {
		logger.Error("admin gate init failed", zap.Error(err))
		return nil, err
	}

	svc := moderation.NewService(bd.store)
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(reqlog.Middleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: appCfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))

	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(bd.pinger, bd.name, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Resource directory
	resHandler := resourcesfeature.NewHandler(svc, gate, limiter, auditLogger, errLog, logger)
	resHandler.ExposeTokenEndpoint = appCfg.ExposeTokenEndpoint
	r.Mount("/api/resources", resourcesfeature.Routes(resHandler))

	// Audit trail browsing needs a database home for events.
	if bd.audit != nil {
		auditHandler := auditfeature.NewHandler(bd.audit, gate, errLog, logger)
		r.Mount("/api/audit", auditfeature.Routes(auditHandler))
	}

	homeHandler := homefeature.NewHandler(serviceName, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	return r, nil
}
