// Package moderation implements the resource submission and review workflow:
// public submissions arrive as pending, an administrator approves or
// rejects them, and approved resources are listed publicly.
//
// Authorization is not checked here. Callers that expose ListPending,
// SetStatus or Stats over the network must put them behind the admin gate
// (see system/adminauth).
package moderation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/ailibrary/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the persistence contract the service needs. Implementations
// must make SetStatus atomic for a single record and return
// models.ErrResourceNotFound for unknown ids.
type Store interface {
	// Create assigns an ID and persists r.
	Create(ctx context.Context, r models.Resource) (models.Resource, error)
	// GetByID returns one record.
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Resource, error)
	// SetStatus updates one record's status and returns the stored result.
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.Status) (models.Resource, error)
	// ListByStatus returns records with the given status, newest first.
	// A non-empty categoryCI restricts results to that folded category.
	ListByStatus(ctx context.Context, status models.Status, categoryCI string) ([]models.Resource, error)
	// ListAll returns every record, newest first.
	ListAll(ctx context.Context) ([]models.Resource, error)
	// CountByStatus returns the number of records per status.
	CountByStatus(ctx context.Context) (map[models.Status]int64, error)
}

// ListFilter narrows the public listing.
type ListFilter struct {
	Category string
}

func (f ListFilter) categoryCI() string {
	if c := strings.TrimSpace(f.Category); c != "" {
		return text.Fold(c)
	}
	return ""
}

// Stats summarises the directory by moderation status.
type Stats struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}

// Service is the moderation workflow over an injected Store.
type Service struct {
	store    Store
	validate *validator.Validate
	now      func() time.Time
}

// NewService constructs a Service backed by store.
func NewService(store Store) *Service {
	return &Service{
		store:    store,
		validate: newValidator(),
		now:      time.Now,
	}
}

// Submit validates sub and records it as a new pending resource.
// Text is stored as typed apart from trimming; escaping belongs to
// whoever renders it. Identical submissions are stored as distinct records.
func (s *Service) Submit(ctx context.Context, sub Submission) (models.Resource, error) {
	sub = sub.trimmed()
	if err := validateSubmission(s.validate, sub); err != nil {
		return models.Resource{}, err
	}

	r := models.Resource{
		Name:        sub.Name,
		Description: sub.Description,
		URL:         sub.URL,
		Category:    sub.Category,
		CategoryCI:  text.Fold(sub.Category),
		Status:      models.StatusPending,
		SubmittedBy: models.Submitter{
			Name:  sub.SubmitterName,
			Email: sub.SubmitterEmail,
		},
		SubmittedAt: s.now().UTC(),
	}

	created, err := s.store.Create(ctx, r)
	if err != nil {
		return models.Resource{}, &StoreError{Op: "create", Err: err}
	}
	return created, nil
}

// ListApproved returns approved resources, most recently submitted first.
func (s *Service) ListApproved(ctx context.Context, f ListFilter) ([]models.Resource, error) {
	return s.list(ctx, models.StatusApproved, f.categoryCI())
}

// List returns resources with the named status ("all" or "" for every
// status), most recent first, optionally narrowed to one category. It backs
// the admin tool, which can browse rejected records too.
func (s *Service) List(ctx context.Context, status string, f ListFilter) ([]models.Resource, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && status != "all" {
		st := models.Status(status)
		if !st.IsValid() {
			return nil, &ValidationError{Field: "status", Message: "invalid status"}
		}
		return s.list(ctx, st, f.categoryCI())
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ci := f.categoryCI()
	if ci == "" {
		return all, nil
	}
	out := []models.Resource{}
	for _, r := range all {
		if r.CategoryCI == ci {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListPending returns resources awaiting review, most recent first.
func (s *Service) ListPending(ctx context.Context) ([]models.Resource, error) {
	return s.list(ctx, models.StatusPending, "")
}

// ListAll returns every resource regardless of status, most recent first.
func (s *Service) ListAll(ctx context.Context) ([]models.Resource, error) {
	out, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list all", Err: err}
	}
	if out == nil {
		out = []models.Resource{}
	}
	return out, nil
}

func (s *Service) list(ctx context.Context, status models.Status, categoryCI string) ([]models.Resource, error) {
	out, err := s.store.ListByStatus(ctx, status, categoryCI)
	if err != nil {
		return nil, &StoreError{Op: "list " + string(status), Err: err}
	}
	if out == nil {
		out = []models.Resource{}
	}
	return out, nil
}

// Get returns the resource with the given id regardless of status.
func (s *Service) Get(ctx context.Context, id string) (models.Resource, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return models.Resource{}, ErrNotFound
	}
	res, err := s.store.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			return models.Resource{}, ErrNotFound
		}
		return models.Resource{}, &StoreError{Op: "get", Err: err}
	}
	return res, nil
}

// SetStatus records an approve/reject decision for the resource with the
// given id. The status is checked before any lookup. Re-applying the
// current status succeeds.
func (s *Service) SetStatus(ctx context.Context, id string, status string) (models.Resource, error) {
	st := models.Status(status)
	if !st.IsDecision() {
		return models.Resource{}, &ValidationError{Field: "status", Message: "invalid status"}
	}

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return models.Resource{}, ErrNotFound
	}

	updated, err := s.store.SetStatus(ctx, oid, st)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			return models.Resource{}, ErrNotFound
		}
		return models.Resource{}, &StoreError{Op: "set status", Err: err}
	}
	return updated, nil
}

// Stats counts resources per status.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return Stats{}, &StoreError{Op: "count", Err: err}
	}
	st := Stats{
		Pending:  counts[models.StatusPending],
		Approved: counts[models.StatusApproved],
		Rejected: counts[models.StatusRejected],
	}
	st.Total = st.Pending + st.Approved + st.Rejected
	return st, nil
}
