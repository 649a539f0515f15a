package admincli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/ailibrary/internal/app/moderation"
	"github.com/dalemusser/ailibrary/internal/app/store/audit"
	"github.com/dalemusser/ailibrary/internal/app/system/adminauth"
	"github.com/dalemusser/ailibrary/internal/app/system/auditlog"
	"github.com/dalemusser/ailibrary/internal/domain/models"
	"github.com/dalemusser/ailibrary/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "cli-test-secret-0123456789abcdef"

type cliEnv struct {
	app   *App
	store *testutil.MemStore
	out   *bytes.Buffer
	logs  *observer.ObservedLogs
}

func newCLIEnv(t *testing.T, withGate bool) *cliEnv {
	t.Helper()
	store := testutil.NewMemStore()
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	var gate *adminauth.Gate
	if withGate {
		g, err := adminauth.NewGate(testSecret, time.Hour)
		if err != nil {
			t.Fatalf("NewGate: %v", err)
		}
		gate = g
	}

	out := &bytes.Buffer{}
	return &cliEnv{
		app: &App{
			Svc:   moderation.NewService(store),
			Gate:  gate,
			Audit: auditlog.New(nil, logger, auditlog.Uniform(auditlog.ModeLog)),
			Out:   out,
			Log:   zap.NewNop(),
		},
		store: store,
		out:   out,
		logs:  logs,
	}
}

func (e *cliEnv) seed(t *testing.T, name, category string) models.Resource {
	t.Helper()
	r, err := e.app.Svc.Submit(context.Background(), moderation.Submission{
		Name:           name,
		Description:    "desc",
		URL:            "https://" + strings.ToLower(name) + ".example",
		Category:       category,
		SubmitterName:  "Ada",
		SubmitterEmail: "ada@example.com",
	})
	if err != nil {
		t.Fatalf("seed %s: %v", name, err)
	}
	return r
}

func (e *cliEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	e.out.Reset()
	return e.app.Run(context.Background(), args)
}

func TestRun_UsageErrors(t *testing.T) {
	e := newCLIEnv(t, true)

	tests := [][]string{
		{},
		{"frobnicate"},
		{"approve"},
		{"reject", "a", "b"},
		{"list", "--bogus"},
	}
	for _, args := range tests {
		if err := e.run(t, args...); !errors.Is(err, ErrUsage) {
			t.Errorf("Run(%q): got %v, want ErrUsage", args, err)
		}
	}

	if err := e.run(t, "help"); err != nil {
		t.Errorf("help: %v", err)
	}
	if !strings.Contains(e.out.String(), "approve <id>") {
		t.Errorf("help output missing commands: %q", e.out.String())
	}
}

func TestRun_Token(t *testing.T) {
	e := newCLIEnv(t, true)
	if err := e.run(t, "token"); err != nil {
		t.Fatalf("token: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(e.out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected token and expiry lines, got %q", e.out.String())
	}
	if !e.app.Gate.Verify(lines[0]) {
		t.Error("printed token does not verify")
	}
	if !strings.HasPrefix(lines[1], "expires ") {
		t.Errorf("expiry line: got %q", lines[1])
	}
	if n := e.logs.FilterField(zap.String("actor", "cli")).Len(); n != 1 {
		t.Errorf("expected 1 cli audit entry, got %d", n)
	}
}

func TestRun_TokenWithoutSecret(t *testing.T) {
	e := newCLIEnv(t, false)
	if err := e.run(t, "token"); !errors.Is(err, ErrNoSecret) {
		t.Errorf("got %v, want ErrNoSecret", err)
	}
}

func TestRun_ApproveAndReject(t *testing.T) {
	e := newCLIEnv(t, true)
	r := e.seed(t, "Guide", "Docs")

	if err := e.run(t, "approve", r.ID.Hex()); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if strings.Contains(e.out.String(), "already") {
		t.Errorf("first approve should not print a notice: %q", e.out.String())
	}
	got, _ := e.store.Get(r.ID)
	if got.Status != models.StatusApproved {
		t.Errorf("status: got %q, want approved", got.Status)
	}

	// Approving twice succeeds with a notice.
	if err := e.run(t, "approve", r.ID.Hex()); err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if !strings.Contains(e.out.String(), "already approved") {
		t.Errorf("expected already-approved notice, got %q", e.out.String())
	}

	if err := e.run(t, "reject", r.ID.Hex()); err != nil {
		t.Fatalf("reject: %v", err)
	}
	got, _ = e.store.Get(r.ID)
	if got.Status != models.StatusRejected {
		t.Errorf("status: got %q, want rejected", got.Status)
	}

	if n := e.logs.FilterField(zap.String("actor", "cli")).Len(); n != 3 {
		t.Errorf("expected 3 cli audit entries, got %d", n)
	}
}

func TestRun_ApproveUnknown(t *testing.T) {
	e := newCLIEnv(t, true)
	for _, id := range []string{primitive.NewObjectID().Hex(), "nope"} {
		err := e.run(t, "approve", id)
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("approve %s: got %v, want not found", id, err)
		}
	}
}

func TestRun_List(t *testing.T) {
	e := newCLIEnv(t, true)
	a := e.seed(t, "Alpha", "Docs")
	e.seed(t, "Beta", "Video")
	c := e.seed(t, "Gamma", "docs")
	if _, err := e.app.Svc.SetStatus(context.Background(), a.ID.Hex(), "approved"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.app.Svc.SetStatus(context.Background(), c.ID.Hex(), "rejected"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		args    []string
		want    []string
		notWant []string
	}{
		{[]string{"list"}, []string{"Beta", "1 resource(s)"}, []string{"Alpha", "Gamma"}},
		{[]string{"list", "--status", "approved"}, []string{"Alpha"}, []string{"Beta", "Gamma"}},
		{[]string{"list", "--status=rejected"}, []string{"Gamma"}, []string{"Alpha", "Beta"}},
		{[]string{"list", "--status", "all", "--category", "DOCS"}, []string{"Alpha", "Gamma", "2 resource(s)"}, []string{"Beta"}},
		{[]string{"list", "--status", "approved", "--category", "Video"}, []string{"no resources"}, nil},
	}
	for _, tt := range tests {
		if err := e.run(t, tt.args...); err != nil {
			t.Fatalf("%q: %v", tt.args, err)
		}
		out := e.out.String()
		for _, w := range tt.want {
			if !strings.Contains(out, w) {
				t.Errorf("%q: output missing %q:\n%s", tt.args, w, out)
			}
		}
		for _, w := range tt.notWant {
			if strings.Contains(out, w) {
				t.Errorf("%q: output should not contain %q:\n%s", tt.args, w, out)
			}
		}
	}

	err := e.run(t, "list", "--status", "archived")
	var ve *moderation.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("list --status archived: got %v, want ValidationError", err)
	}
}

func TestRun_Stats(t *testing.T) {
	e := newCLIEnv(t, true)
	r := e.seed(t, "One", "Docs")
	e.seed(t, "Two", "Docs")
	if _, err := e.app.Svc.SetStatus(context.Background(), r.ID.Hex(), "approved"); err != nil {
		t.Fatal(err)
	}

	if err := e.run(t, "stats"); err != nil {
		t.Fatalf("stats: %v", err)
	}
	out := e.out.String()
	for _, line := range []string{"pending   1", "approved  1", "rejected  0", "total     2"} {
		if !strings.Contains(out, line) {
			t.Errorf("stats output missing %q:\n%s", line, out)
		}
	}
}

func TestRun_StoreFailure(t *testing.T) {
	e := newCLIEnv(t, true)
	e.store.Err = errors.New("connection reset")

	err := e.run(t, "stats")
	var se *moderation.StoreError
	if !errors.As(err, &se) {
		t.Errorf("got %v, want *StoreError", err)
	}
}

func TestRun_AuditWithoutStore(t *testing.T) {
	e := newCLIEnv(t, true)
	if err := e.run(t, "audit"); !errors.Is(err, ErrNoAuditStore) {
		t.Errorf("got %v, want ErrNoAuditStore", err)
	}
	if err := e.run(t, "audit", "--limit", "0"); !errors.Is(err, ErrUsage) {
		t.Errorf("--limit 0: got %v, want ErrUsage", err)
	}
}

func TestRun_AuditRecent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	e := newCLIEnv(t, true)
	e.app.Events = audit.New(db)
	e.app.Audit = auditlog.New(e.app.Events, zap.NewNop(), auditlog.Uniform(auditlog.ModeDB))

	r := e.seed(t, "Tracked", "Docs")
	if err := e.run(t, "approve", r.ID.Hex()); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := e.run(t, "token"); err != nil {
		t.Fatalf("token: %v", err)
	}

	if err := e.run(t, "audit", "--limit", "5"); err != nil {
		t.Fatalf("audit: %v", err)
	}
	out := e.out.String()
	for _, want := range []string{"admin_token_issued", "resource_approved", r.ID.Hex(), "cli"} {
		if !strings.Contains(out, want) {
			t.Errorf("audit output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "admin_token_issued") > strings.Index(out, "resource_approved") {
		t.Errorf("expected newest event first:\n%s", out)
	}
}
