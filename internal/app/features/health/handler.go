package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/ailibrary/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Pinger is satisfied by each storage backend's connectivity check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

// Ping calls f(ctx).
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// Handler holds dependencies needed for health checks.
type Handler struct {
	DB      Pinger
	Backend string
	Log     *zap.Logger
}

// NewHandler constructs a health Handler for the active storage backend.
func NewHandler(db Pinger, backend string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Backend: backend,
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Backend  string `json:"backend"`
	Message  string `json:"message,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "backend":"mongo" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "backend":"mongo", "message":"Database unavailable" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		Backend:  h.Backend,
	}

	if err := h.DB.Ping(ctx); err != nil {
		h.Log.Error("health-check: database ping failed", zap.String("backend", h.Backend), zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}
