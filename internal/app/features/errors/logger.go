// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and writes the matching
// JSON error response.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: log}
}

func (l *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}

// LogServerError logs err at error level and responds 500 with a generic
// message. The cause never reaches the client.
func (l *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	l.log.Error(msg, l.fields(r, err)...)
	RenderServerError(w, r)
}

// LogBadRequest logs at warn level and responds 400 with userMsg.
func (l *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	l.log.Warn(msg, l.fields(r, err)...)
	RenderBadRequest(w, r, userMsg)
}

// LogForbidden logs at warn level and responds 403 with userMsg.
func (l *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	l.log.Warn(msg, l.fields(r, err)...)
	RenderForbidden(w, r, userMsg)
}
