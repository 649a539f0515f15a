// internal/app/features/resources/handler.go
package resources

import (
	uierrors "github.com/dalemusser/ailibrary/internal/app/features/errors"
	"github.com/dalemusser/ailibrary/internal/app/moderation"
	"github.com/dalemusser/ailibrary/internal/app/system/adminauth"
	"github.com/dalemusser/ailibrary/internal/app/system/auditlog"
	"github.com/dalemusser/ailibrary/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Handler owns the /api/resources endpoints: public submission and
// listing, and the admin moderation routes behind the token gate.
//
// It is constructed once at startup in bootstrap.
type Handler struct {
	Svc     *moderation.Service
	Gate    *adminauth.Gate
	Limiter *ratelimit.Limiter
	Audit   *auditlog.Logger
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger

	// ExposeTokenEndpoint mounts GET /generate-admin-token when true.
	ExposeTokenEndpoint bool
}

// NewHandler constructs a Handler. limiter may be nil to disable submit
// rate limiting.
func NewHandler(
	svc *moderation.Service,
	gate *adminauth.Gate,
	limiter *ratelimit.Limiter,
	audit *auditlog.Logger,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	if limiter == nil {
		limiter = ratelimit.New(0, 1)
	}
	return &Handler{
		Svc:     svc,
		Gate:    gate,
		Limiter: limiter,
		Audit:   audit,
		ErrLog:  errLog,
		Log:     logger,
	}
}
