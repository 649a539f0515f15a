package resources

import (
	"net/http"

	uierrors "github.com/dalemusser/ailibrary/internal/app/features/errors"
	"github.com/dalemusser/ailibrary/internal/app/moderation"
	"github.com/dalemusser/ailibrary/internal/app/system/timeouts"
)

// ServeApproved lists approved resources, newest first.
// GET /approved[?category=X]
func (h *Handler) ServeApproved(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list approved")
	defer cancel()

	out, err := h.Svc.ListApproved(ctx, moderation.ListFilter{
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list approved failed", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, out)
}

// ServePending lists resources awaiting review. Admin only.
// GET /pending
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list pending")
	defer cancel()

	out, err := h.Svc.ListPending(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list pending failed", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, out)
}

// ServeStats reports counts per status. Admin only.
// GET /stats
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "resource stats")
	defer cancel()

	st, err := h.Svc.Stats(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "resource stats failed", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, st)
}
