// internal/app/features/resources/routes.go
package resources

import (
	uierrors "github.com/dalemusser/ailibrary/internal/app/features/errors"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the directory API under whatever base path the caller
// chooses (typically "/api/resources" from bootstrap).
//
//	h := resources.NewHandler(svc, gate, limiter, audit, errLog, logger)
//	r.Mount("/api/resources", resources.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public
	r.With(h.Limiter.Middleware(uierrors.RenderTooManyRequests)).Post("/submit", h.HandleSubmit)
	r.Get("/approved", h.ServeApproved)

	if h.ExposeTokenEndpoint {
		r.Get("/generate-admin-token", h.ServeToken)
	}

	// Admin (bearer token)
	r.Group(func(pr chi.Router) {
		pr.Use(h.Gate.RequireAdmin)

		pr.Get("/pending", h.ServePending)
		pr.Post("/{id}/verify", h.HandleVerify)
		pr.Get("/stats", h.ServeStats)
	})

	return r
}
