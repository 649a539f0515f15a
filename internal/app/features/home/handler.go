package home

import (
	"net/http"

	uierrors "github.com/dalemusser/ailibrary/internal/app/features/errors"
	"go.uber.org/zap"
)

// Handler serves the API's root description.
type Handler struct {
	Name string
	Log  *zap.Logger
}

func NewHandler(name string, logger *zap.Logger) *Handler {
	return &Handler{
		Name: name,
		Log:  logger,
	}
}

type rootResponse struct {
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – API description                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	uierrors.WriteJSON(w, http.StatusOK, rootResponse{
		Message: h.Name,
		Status:  "running",
		Endpoints: map[string]string{
			"resources": "/api/resources",
			"approved":  "/api/resources/approved",
			"pending":   "/api/resources/pending",
			"submit":    "/api/resources/submit",
			"health":    "/health",
		},
	})
}
