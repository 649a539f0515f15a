// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net"
	"net/http"

	"github.com/dalemusser/ailibrary/internal/app/store/audit"
	"github.com/dalemusser/ailibrary/internal/domain/models"
	"go.uber.org/zap"
)

// Destination values for Config fields.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off" // disabled
)

// Config holds audit logging configuration.
type Config struct {
	// Moderation controls submit/approve/reject events.
	Moderation string
	// Security controls admin token issuance and denied admin requests.
	Security string
}

// Uniform returns a Config that sends every category to mode.
func Uniform(mode string) Config {
	return Config{Moderation: mode, Security: mode}
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via audit.Store) and structured logs (via zap).
// A nil store turns "db" destinations into no-ops, which is how the
// Postgres backend runs.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request. chi's RealIP
// middleware has already folded X-Forwarded-For/X-Real-IP into RemoteAddr.
func getClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func userAgent(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.UserAgent()
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}

	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.ResourceID != nil {
		fields = append(fields, zap.String("resource_id", event.ResourceID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryModeration:
		setting = l.config.Moderation
	case audit.CategorySecurity:
		setting = l.config.Security
	default:
		setting = ModeAll
	}

	if setting == ModeOff {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}

	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Moderation Events ---

// ResourceSubmitted logs a new public submission.
func (l *Logger) ResourceSubmitted(ctx context.Context, r *http.Request, res models.Resource) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryModeration,
		EventType:  audit.EventResourceSubmitted,
		ResourceID: &res.ID,
		Actor:      audit.ActorPublic,
		IP:         getClientIP(r),
		UserAgent:  userAgent(r),
		Success:    true,
		Details: map[string]string{
			"category": res.Category,
		},
	})
}

// StatusChanged logs an approve or reject decision. actor is
// audit.ActorAdmin for HTTP requests and audit.ActorCLI for the admin tool;
// r may be nil.
func (l *Logger) StatusChanged(ctx context.Context, r *http.Request, res models.Resource, actor string) {
	eventType := audit.EventResourceApproved
	if res.Status == models.StatusRejected {
		eventType = audit.EventResourceRejected
	}
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryModeration,
		EventType:  eventType,
		ResourceID: &res.ID,
		Actor:      actor,
		IP:         getClientIP(r),
		UserAgent:  userAgent(r),
		Success:    true,
	})
}

// --- Security Events ---

// AdminTokenIssued logs the minting of an admin token.
func (l *Logger) AdminTokenIssued(ctx context.Context, r *http.Request, actor, tokenID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategorySecurity,
		EventType: audit.EventAdminTokenIssued,
		Actor:     actor,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details: map[string]string{
			"token_id": tokenID,
		},
	})
}

// AdminAccessDenied logs a request turned away by the admin gate.
func (l *Logger) AdminAccessDenied(ctx context.Context, r *http.Request, reason string) {
	details := map[string]string{}
	if r != nil {
		details["method"] = r.Method
		details["path"] = r.URL.Path
	}
	l.Log(ctx, audit.Event{
		Category:      audit.CategorySecurity,
		EventType:     audit.EventAdminAccessDenied,
		IP:            getClientIP(r),
		UserAgent:     userAgent(r),
		Success:       false,
		FailureReason: reason,
		Details:       details,
	})
}
