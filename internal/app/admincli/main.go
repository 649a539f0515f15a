// internal/app/admincli/main.go
package admincli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dalemusser/ailibrary/internal/app/moderation"
	"github.com/dalemusser/ailibrary/internal/app/system/adminauth"
	"github.com/dalemusser/ailibrary/internal/app/system/auditlog"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Main is the body of the ailibrary-admin binary. It returns the process
// exit code: 0 on success, 2 for usage errors, 1 otherwise.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fset := NewFlagSet("ailibrary-admin")
	fset.SetOutput(stderr)
	if err := fset.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := LoadConfig(fset)
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 1
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		fmt.Fprintln(stderr, "logger:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	// help needs no backend
	if fset.NArg() == 0 || fset.Arg(0) == "help" {
		app := &App{Out: stdout, Log: logger}
		if err := app.Run(ctx, fset.Args()); err != nil {
			return 2
		}
		return 0
	}

	backend, err := OpenBackend(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			logger.Warn("close backend", zap.Error(err))
		}
	}()

	auditLogger := auditlog.New(backend.Audit, logger, auditlog.Uniform(cfg.AuditLog))

	var gate *adminauth.Gate
	if cfg.JWTSecret != "" {
		gate, err = adminauth.NewGate(cfg.JWTSecret, cfg.AdminTokenTTL, adminauth.WithLogger(logger))
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
	}

	app := &App{
		Svc:    moderation.NewService(backend.Store),
		Gate:   gate,
		Audit:  auditLogger,
		Events: backend.Audit,
		Out:    stdout,
		Log:    logger,
	}
	if err := app.Run(ctx, fset.Args()); err != nil {
		if errors.Is(err, ErrUsage) {
			return 2
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// newLogger writes human-readable logs to stderr so stdout stays clean for
// tokens and tables.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
