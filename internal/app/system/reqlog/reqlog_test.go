package reqlog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMiddleware_Levels(t *testing.T) {
	tests := []struct {
		code  int
		level zapcore.Level
	}{
		{http.StatusOK, zap.InfoLevel},
		{http.StatusCreated, zap.InfoLevel},
		{http.StatusNotFound, zap.WarnLevel},
		{http.StatusInternalServerError, zap.ErrorLevel},
	}

	for _, tt := range tests {
		core, logs := observer.New(zap.DebugLevel)
		h := middleware.RequestID(Middleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.code)
			_, _ = w.Write([]byte("hello"))
		})))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/resources/approved", nil))

		entries := logs.All()
		if len(entries) != 1 {
			t.Fatalf("code %d: expected 1 entry, got %d", tt.code, len(entries))
		}
		e := entries[0]
		if e.Level != tt.level {
			t.Errorf("code %d: level got %v, want %v", tt.code, e.Level, tt.level)
		}
		fields := e.ContextMap()
		if fields["status"] != int64(tt.code) {
			t.Errorf("status field: got %v, want %d", fields["status"], tt.code)
		}
		if fields["bytes"] != int64(5) {
			t.Errorf("bytes field: got %v, want 5", fields["bytes"])
		}
		if fields["request_id"] == nil || fields["request_id"] == "" {
			t.Error("expected request_id field")
		}
	}
}

func TestMiddleware_ImplicitOK(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := Middleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got := logs.All()[0].ContextMap()["status"]; got != int64(http.StatusOK) {
		t.Errorf("status: got %v, want 200", got)
	}
}
