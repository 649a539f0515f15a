package moderation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/ailibrary/internal/domain/models"
	"github.com/dalemusser/ailibrary/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("store unavailable")

func validSubmission() Submission {
	return Submission{
		Name:           "Tool",
		Description:    "d",
		URL:            "http://x",
		Category:       "Dev",
		SubmitterName:  "Ada",
		SubmitterEmail: "a@x.com",
	}
}

// steppedClock returns a clock that advances one minute per call so that
// submissions get distinct, increasing timestamps.
func steppedClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(time.Minute)
		return t
	}
}

func TestService_SubmitCreatesPending(t *testing.T) {
	svc := NewService(testutil.NewMemStore())
	ctx := context.Background()

	before := time.Now().UTC()
	r, err := svc.Submit(ctx, validSubmission())
	if err != nil {
		t.Fatalf("Submit: unexpected error: %v", err)
	}

	if r.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if r.Status != models.StatusPending {
		t.Errorf("Status: got %q, want %q", r.Status, models.StatusPending)
	}
	if r.SubmittedAt.Before(before) {
		t.Errorf("SubmittedAt %v is before call time %v", r.SubmittedAt, before)
	}
	if r.Name != "Tool" || r.URL != "http://x" || r.Category != "Dev" {
		t.Errorf("unexpected stored fields: %+v", r)
	}
	if r.CategoryCI != "dev" {
		t.Errorf("CategoryCI: got %q, want %q", r.CategoryCI, "dev")
	}
	if r.SubmittedBy != (models.Submitter{Name: "Ada", Email: "a@x.com"}) {
		t.Errorf("SubmittedBy: got %+v", r.SubmittedBy)
	}
}

func TestService_SubmitMissingFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Submission)
	}{
		{"name", func(s *Submission) { s.Name = "" }},
		{"description", func(s *Submission) { s.Description = "   " }},
		{"url", func(s *Submission) { s.URL = "" }},
		{"category", func(s *Submission) { s.Category = "" }},
		{"submittedBy.name", func(s *Submission) { s.SubmitterName = "" }},
		{"submittedBy.email", func(s *Submission) { s.SubmitterEmail = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			store := testutil.NewMemStore()
			svc := NewService(store)
			sub := validSubmission()
			tt.mutate(&sub)

			_, err := svc.Submit(context.Background(), sub)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field: got %q, want %q", ve.Field, tt.field)
			}
			if store.Len() != 0 {
				t.Error("expected nothing to be stored")
			}
		})
	}
}

func TestService_SubmitTooLong(t *testing.T) {
	svc := NewService(testutil.NewMemStore())
	sub := validSubmission()
	sub.Category = strings.Repeat("c", 101)

	_, err := svc.Submit(context.Background(), sub)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "category" {
		t.Fatalf("expected category ValidationError, got %v", err)
	}
}

func TestService_SubmitStoresTextAsTyped(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Submission)
		check  func(models.Resource) (got, want string)
	}{
		{"comparison in description",
			func(s *Submission) { s.Description = "Handles a<b comparisons" },
			func(r models.Resource) (string, string) { return r.Description, "Handles a<b comparisons" }},
		{"angle brackets both ways",
			func(s *Submission) { s.Description = "Finds x<y and y>z bugs" },
			func(r models.Resource) (string, string) { return r.Description, "Finds x<y and y>z bugs" }},
		{"tag-like name",
			func(s *Submission) { s.Name = "<Prompt>" },
			func(r models.Resource) (string, string) { return r.Name, "<Prompt>" }},
		{"entities stay escaped",
			func(s *Submission) { s.Description = "Use <i>&lt;script&gt;</i> tags" },
			func(r models.Resource) (string, string) { return r.Description, "Use <i>&lt;script&gt;</i> tags" }},
		{"query string url",
			func(s *Submission) { s.URL = "https://example.com/?a=1&b=2" },
			func(r models.Resource) (string, string) { return r.URL, "https://example.com/?a=1&b=2" }},
		{"surrounding space trimmed",
			func(s *Submission) { s.Category = "  Dev <tools>  " },
			func(r models.Resource) (string, string) { return r.Category, "Dev <tools>" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(testutil.NewMemStore())
			sub := validSubmission()
			tt.mutate(&sub)

			r, err := svc.Submit(context.Background(), sub)
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if got, want := tt.check(r); got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

func TestService_SubmitNoDedup(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewService(store)
	ctx := context.Background()

	a, err := svc.Submit(ctx, validSubmission())
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	b, err := svc.Submit(ctx, validSubmission())
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if a.ID == b.ID {
		t.Error("expected distinct records for identical submissions")
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 records, got %d", store.Len())
	}
}

func TestService_SubmitStoreFailure(t *testing.T) {
	store := testutil.NewMemStore()
	store.Err = errStoreDown
	svc := NewService(store)

	_, err := svc.Submit(context.Background(), validSubmission())
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StoreError, got %v", err)
	}
	if !errors.Is(err, errStoreDown) {
		t.Error("expected StoreError to wrap the store cause")
	}
}

func TestService_ListsFilterAndSort(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewService(store)
	svc.now = steppedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	var ids []string
	for i := 0; i < 6; i++ {
		sub := validSubmission()
		if i%2 == 0 {
			sub.Category = "Writing"
		}
		r, err := svc.Submit(ctx, sub)
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		ids = append(ids, r.ID.Hex())
	}

	// approve 0,1,2; reject 3; leave 4,5 pending
	for i, id := range ids[:4] {
		status := "approved"
		if i == 3 {
			status = "rejected"
		}
		if _, err := svc.SetStatus(ctx, id, status); err != nil {
			t.Fatalf("SetStatus %s: %v", id, err)
		}
	}

	approved, err := svc.ListApproved(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if len(approved) != 3 {
		t.Fatalf("approved: got %d, want 3", len(approved))
	}
	assertSortedDesc(t, approved)
	for _, r := range approved {
		if r.Status != models.StatusApproved {
			t.Errorf("ListApproved returned %q resource", r.Status)
		}
	}

	pending, err := svc.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending: got %d, want 2", len(pending))
	}
	assertSortedDesc(t, pending)
	for _, r := range pending {
		if r.Status != models.StatusPending {
			t.Errorf("ListPending returned %q resource", r.Status)
		}
	}

	writing, err := svc.ListApproved(ctx, ListFilter{Category: "  WRITING "})
	if err != nil {
		t.Fatalf("ListApproved(category): %v", err)
	}
	if len(writing) != 2 {
		t.Errorf("approved Writing: got %d, want 2", len(writing))
	}

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("ListAll: got %d, want 6", len(all))
	}
	assertSortedDesc(t, all)
}

func TestService_ListByNamedStatus(t *testing.T) {
	svc := NewService(testutil.NewMemStore())
	svc.now = steppedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	mk := func(name, category, status string) {
		sub := validSubmission()
		sub.Name = name
		sub.Category = category
		r, err := svc.Submit(ctx, sub)
		if err != nil {
			t.Fatalf("Submit %s: %v", name, err)
		}
		if status != "pending" {
			if _, err := svc.SetStatus(ctx, r.ID.Hex(), status); err != nil {
				t.Fatalf("SetStatus %s: %v", name, err)
			}
		}
	}
	mk("a", "Dev", "rejected")
	mk("b", "Art", "approved")
	mk("c", "dev", "pending")
	mk("d", "Dev", "rejected")

	tests := []struct {
		status   string
		category string
		want     []string
	}{
		{"rejected", "", []string{"d", "a"}},
		{"Rejected", "DEV", []string{"d", "a"}},
		{"all", "", []string{"d", "c", "b", "a"}},
		{"", "dev", []string{"d", "c", "a"}},
		{"all", "music", nil},
		{"pending", "", []string{"c"}},
	}
	for _, tt := range tests {
		got, err := svc.List(ctx, tt.status, ListFilter{Category: tt.category})
		if err != nil {
			t.Fatalf("List(%q, %q): %v", tt.status, tt.category, err)
		}
		if got == nil {
			t.Errorf("List(%q, %q): got nil slice", tt.status, tt.category)
		}
		var names []string
		for _, r := range got {
			names = append(names, r.Name)
		}
		if strings.Join(names, ",") != strings.Join(tt.want, ",") {
			t.Errorf("List(%q, %q): got %v, want %v", tt.status, tt.category, names, tt.want)
		}
	}

	_, err := svc.List(ctx, "archived", ListFilter{})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "status" {
		t.Errorf("List(archived): expected status ValidationError, got %v", err)
	}
}

func TestService_ListEmptyIsNotNil(t *testing.T) {
	svc := NewService(testutil.NewMemStore())
	out, err := svc.ListApproved(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if out == nil {
		t.Error("expected empty non-nil slice")
	}
}

func TestService_ListStoreFailure(t *testing.T) {
	store := testutil.NewMemStore()
	store.Err = errStoreDown
	svc := NewService(store)

	if _, err := svc.ListPending(context.Background()); !errors.As(err, new(*StoreError)) {
		t.Errorf("ListPending: expected *StoreError, got %v", err)
	}
	if _, err := svc.ListApproved(context.Background(), ListFilter{}); !errors.As(err, new(*StoreError)) {
		t.Errorf("ListApproved: expected *StoreError, got %v", err)
	}
}

func TestService_SetStatusIdempotent(t *testing.T) {
	svc := NewService(testutil.NewMemStore())
	ctx := context.Background()

	r, err := svc.Submit(ctx, validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := svc.SetStatus(ctx, r.ID.Hex(), "approved")
		if err != nil {
			t.Fatalf("SetStatus #%d: %v", i+1, err)
		}
		if got.Status != models.StatusApproved {
			t.Errorf("SetStatus #%d: got %q, want approved", i+1, got.Status)
		}
		if !got.SubmittedAt.Equal(r.SubmittedAt) {
			t.Error("SubmittedAt must not change on status update")
		}
	}

	// approved -> rejected is allowed
	got, err := svc.SetStatus(ctx, r.ID.Hex(), "rejected")
	if err != nil {
		t.Fatalf("SetStatus rejected: %v", err)
	}
	if got.Status != models.StatusRejected {
		t.Errorf("got %q, want rejected", got.Status)
	}
}

func TestService_SetStatusUnknownID(t *testing.T) {
	svc := NewService(testutil.NewMemStore())

	for _, id := range []string{primitive.NewObjectID().Hex(), "not-an-id", ""} {
		_, err := svc.SetStatus(context.Background(), id, "approved")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("SetStatus(%q): expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestService_Get(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewService(store)
	ctx := context.Background()

	r, err := svc.Submit(ctx, validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got, err := svc.Get(ctx, " "+r.ID.Hex()+" ")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != r.ID || got.Status != models.StatusPending {
		t.Errorf("Get: got %+v", got)
	}

	for _, id := range []string{primitive.NewObjectID().Hex(), "zzz"} {
		if _, err := svc.Get(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q): expected ErrNotFound, got %v", id, err)
		}
	}

	store.Err = errStoreDown
	_, err = svc.Get(ctx, r.ID.Hex())
	var se *StoreError
	if !errors.As(err, &se) {
		t.Errorf("expected *StoreError, got %T (%v)", err, err)
	}
}

func TestService_SetStatusInvalidStatus(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewService(store)
	ctx := context.Background()

	r, err := svc.Submit(ctx, validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	for _, status := range []string{"archived", "pending", "", "APPROVED"} {
		_, err := svc.SetStatus(ctx, r.ID.Hex(), status)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("SetStatus(%q): expected *ValidationError, got %v", status, err)
			continue
		}
		if ve.Message != "invalid status" {
			t.Errorf("Message: got %q, want %q", ve.Message, "invalid status")
		}
	}

	stored, _ := store.Get(r.ID)
	if stored.Status != models.StatusPending {
		t.Errorf("record mutated by invalid status: %q", stored.Status)
	}

	// Status is validated before the id is looked up.
	_, err = svc.SetStatus(ctx, "not-an-id", "archived")
	if !IsValidation(err) {
		t.Errorf("expected validation error before lookup, got %v", err)
	}
}

func TestService_Stats(t *testing.T) {
	svc := NewService(testutil.NewMemStore())
	ctx := context.Background()

	var first models.Resource
	for i := 0; i < 3; i++ {
		r, err := svc.Submit(ctx, validSubmission())
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if i == 0 {
			first = r
		}
	}
	if _, err := svc.SetStatus(ctx, first.ID.Hex(), "approved"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := Stats{Pending: 2, Approved: 1, Rejected: 0, Total: 3}
	if st != want {
		t.Errorf("Stats: got %+v, want %+v", st, want)
	}
}

func assertSortedDesc(t *testing.T, rs []models.Resource) {
	t.Helper()
	for i := 1; i < len(rs); i++ {
		if rs[i-1].SubmittedAt.Before(rs[i].SubmittedAt) {
			t.Errorf("results not sorted by submittedAt desc at index %d: %v < %v",
				i, rs[i-1].SubmittedAt, rs[i].SubmittedAt)
		}
	}
}
