// internal/app/admincli/commands.go
package admincli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dalemusser/ailibrary/internal/app/moderation"
	"github.com/dalemusser/ailibrary/internal/app/store/audit"
	"github.com/dalemusser/ailibrary/internal/app/system/adminauth"
	"github.com/dalemusser/ailibrary/internal/app/system/auditlog"
	"github.com/dalemusser/ailibrary/internal/domain/models"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// ErrUsage reports a malformed command line. The usage text has already
// been written when it is returned.
var ErrUsage = errors.New("usage error")

// ErrNoAuditStore is returned by the audit command when the backend keeps
// no audit events.
var ErrNoAuditStore = errors.New("audit events are only stored with the mongo backend")

// ErrNoSecret is returned by the token command when no JWT secret is
// configured.
var ErrNoSecret = errors.New("jwt_secret is not configured")

const usageText = `Usage: ailibrary-admin [global flags] <command> [args]

Commands:
  token                         issue an admin bearer token
  list [--status S] [--category C]
                                list resources (S: pending, approved, rejected, all; default pending)
  approve <id>                  approve a resource
  reject <id>                   reject a resource
  stats                         count resources by status
  audit [--limit N]             show the most recent audit events (default 20)
  help                          show this text
`

// App runs admin commands against the moderation service.
type App struct {
	Svc   *moderation.Service
	Gate  *adminauth.Gate // nil when no secret is configured
	Audit *auditlog.Logger
	// Events is read by the audit command; nil for backends without an
	// audit collection.
	Events *audit.Store
	Out    io.Writer
	Log    *zap.Logger
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "token":
		return a.token(ctx)
	case "list":
		return a.list(ctx, rest)
	case "approve":
		return a.decide(ctx, rest, models.StatusApproved)
	case "reject":
		return a.decide(ctx, rest, models.StatusRejected)
	case "stats":
		return a.stats(ctx)
	case "audit":
		return a.recentEvents(ctx, rest)
	case "help", "-h", "--help":
		a.usage()
		return nil
	default:
		fmt.Fprintf(a.Out, "unknown command %q\n\n", cmd)
		a.usage()
		return ErrUsage
	}
}

func (a *App) usage() {
	fmt.Fprint(a.Out, usageText)
}

func (a *App) token(ctx context.Context) error {
	if a.Gate == nil {
		return ErrNoSecret
	}
	tok, err := a.Gate.IssueToken()
	if err != nil {
		return err
	}
	a.Audit.AdminTokenIssued(ctx, nil, audit.ActorCLI, tok.ID)

	fmt.Fprintln(a.Out, tok.Value)
	if tok.ExpiresAt != nil {
		fmt.Fprintf(a.Out, "expires %s\n", tok.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	fset := pflag.NewFlagSet("list", pflag.ContinueOnError)
	fset.SetOutput(a.Out)
	status := fset.String("status", string(models.StatusPending), "pending, approved, rejected, or all")
	category := fset.String("category", "", "only resources in this category (case-insensitive)")
	if err := fset.Parse(args); err != nil {
		return ErrUsage
	}

	out, err := a.Svc.List(ctx, *status, moderation.ListFilter{Category: *category})
	if err != nil {
		return err
	}
	if len(out) == 0 {
		fmt.Fprintln(a.Out, "no resources")
		return nil
	}

	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCATEGORY\tSUBMITTED\tNAME\tURL")
	for _, r := range out {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID.Hex(), r.Status, r.Category,
			r.SubmittedAt.UTC().Format("2006-01-02 15:04"), r.Name, r.URL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "%d resource(s)\n", len(out))
	return nil
}

func (a *App) decide(ctx context.Context, args []string, status models.Status) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintf(a.Out, "usage: ailibrary-admin %s <id>\n", verb(status))
		return ErrUsage
	}
	id := args[0]

	current, err := a.Svc.Get(ctx, id)
	if err != nil {
		return describe(err, id)
	}
	if current.Status == status {
		fmt.Fprintf(a.Out, "note: %s is already %s\n", id, status)
	}

	updated, err := a.Svc.SetStatus(ctx, id, string(status))
	if err != nil {
		return describe(err, id)
	}
	a.Audit.StatusChanged(ctx, nil, updated, audit.ActorCLI)
	a.Log.Debug("status changed",
		zap.String("resource_id", updated.ID.Hex()),
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)))

	fmt.Fprintf(a.Out, "%s %s (%s)\n", status, updated.ID.Hex(), updated.Name)
	return nil
}

func (a *App) stats(ctx context.Context) error {
	st, err := a.Svc.Stats(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "pending\t%d\n", st.Pending)
	fmt.Fprintf(tw, "approved\t%d\n", st.Approved)
	fmt.Fprintf(tw, "rejected\t%d\n", st.Rejected)
	fmt.Fprintf(tw, "total\t%d\n", st.Total)
	return tw.Flush()
}

func (a *App) recentEvents(ctx context.Context, args []string) error {
	fset := pflag.NewFlagSet("audit", pflag.ContinueOnError)
	fset.SetOutput(a.Out)
	limit := fset.Int64("limit", 20, "number of events to show")
	if err := fset.Parse(args); err != nil || *limit < 1 {
		return ErrUsage
	}
	if a.Events == nil {
		return ErrNoAuditStore
	}

	events, err := a.Events.GetRecent(ctx, *limit)
	if err != nil {
		return fmt.Errorf("read audit events: %w", err)
	}
	if len(events) == 0 {
		fmt.Fprintln(a.Out, "no audit events")
		return nil
	}

	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tEVENT\tACTOR\tRESOURCE\tIP\tRESULT")
	for _, e := range events {
		resource := "-"
		if e.ResourceID != nil {
			resource = e.ResourceID.Hex()
		}
		result := "ok"
		if !e.Success {
			result = "failed: " + e.FailureReason
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.UTC().Format(time.RFC3339), e.EventType,
			orDash(e.Actor), resource, orDash(e.IP), result)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func verb(status models.Status) string {
	if status == models.StatusRejected {
		return "reject"
	}
	return "approve"
}

func describe(err error, id string) error {
	if errors.Is(err, moderation.ErrNotFound) {
		return fmt.Errorf("resource %s not found", id)
	}
	return err
}
