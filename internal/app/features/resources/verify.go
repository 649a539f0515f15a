package resources

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/ailibrary/internal/app/features/errors"
	"github.com/dalemusser/ailibrary/internal/app/moderation"
	"github.com/dalemusser/ailibrary/internal/app/store/audit"
	"github.com/dalemusser/ailibrary/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type verifyRequest struct {
	Status string `json:"status"`
}

// HandleVerify approves or rejects a resource. Admin only.
// POST /{id}/verify with {"status":"approved"|"rejected"}
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var body verifyRequest
	if err := decodeJSON(w, r, &body); err != nil {
		h.ErrLog.LogBadRequest(w, r, "verify: bad body", err, badBodyMessage(err))
		return
	}

	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "set resource status")
	defer cancel()

	updated, err := h.Svc.SetStatus(ctx, id, body.Status)
	if err != nil {
		var ve *moderation.ValidationError
		switch {
		case errors.As(err, &ve):
			uierrors.RenderBadRequest(w, r, ve.Message)
		case errors.Is(err, moderation.ErrNotFound):
			uierrors.RenderNotFound(w, r, "Resource not found")
		default:
			h.ErrLog.LogServerError(w, r, "set resource status failed", err)
		}
		return
	}

	h.Log.Info("resource status changed",
		zap.String("resource_id", updated.ID.Hex()),
		zap.String("status", string(updated.Status)),
	)
	h.Audit.StatusChanged(r.Context(), r, updated, audit.ActorAdmin)

	uierrors.WriteJSON(w, http.StatusOK, updated)
}
