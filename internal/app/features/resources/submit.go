package resources

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/ailibrary/internal/app/features/errors"
	"github.com/dalemusser/ailibrary/internal/app/moderation"
	"github.com/dalemusser/ailibrary/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleSubmit accepts a public resource submission.
// POST /submit → 201 with the stored resource.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload moderation.SubmissionPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		h.ErrLog.LogBadRequest(w, r, "submit: bad body", err, badBodyMessage(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "submit resource")
	defer cancel()

	created, err := h.Svc.Submit(ctx, payload.Normalize())
	if err != nil {
		var ve *moderation.ValidationError
		if errors.As(err, &ve) {
			uierrors.RenderBadRequest(w, r, ve.Message)
			return
		}
		h.ErrLog.LogServerError(w, r, "submit resource failed", err)
		return
	}

	h.Log.Info("resource submitted",
		zap.String("resource_id", created.ID.Hex()),
		zap.String("category", created.Category),
	)
	h.Audit.ResourceSubmitted(r.Context(), r, created)

	uierrors.WriteJSON(w, http.StatusCreated, created)
}
