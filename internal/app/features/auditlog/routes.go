// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log routes under the path where this router is
// mounted (typically "/api/audit" from bootstrap). Every route requires an
// admin token.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(h.Gate.RequireAdmin)

		pr.Get("/", h.ServeList)
		pr.Get("/resources/{id}", h.ServeResourceHistory)
	})

	return r
}
