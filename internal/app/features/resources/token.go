package resources

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/ailibrary/internal/app/features/errors"
	"github.com/dalemusser/ailibrary/internal/app/store/audit"
)

type tokenResponse struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// ServeToken mints an admin token. Mounted unless the deployment turns it
// off with expose_token_endpoint=false.
// GET /generate-admin-token
func (h *Handler) ServeToken(w http.ResponseWriter, r *http.Request) {
	tok, err := h.Gate.IssueToken()
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue admin token failed", err)
		return
	}
	h.Audit.AdminTokenIssued(r.Context(), r, audit.ActorPublic, tok.ID)
	uierrors.WriteJSON(w, http.StatusOK, tokenResponse{Token: tok.Value, ExpiresAt: tok.ExpiresAt})
}
