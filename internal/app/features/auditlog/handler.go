// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/dalemusser/ailibrary/internal/app/features/errors"
	"github.com/dalemusser/ailibrary/internal/app/store/audit"
	"github.com/dalemusser/ailibrary/internal/app/system/adminauth"
	"go.uber.org/zap"
)

type Handler struct {
	Store  *audit.Store
	Gate   *adminauth.Gate
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs an audit log feature handler over the given
// audit store. Access is checked by gate.
func NewHandler(store *audit.Store, gate *adminauth.Gate, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  store,
		Gate:   gate,
		Log:    logger,
		ErrLog: errLog,
	}
}
