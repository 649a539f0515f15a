// Package pgresources is the PostgreSQL implementation of the resource
// store. IDs are ObjectID hex strings so records and URLs look the same as
// with the Mongo backend.
package pgresources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/ailibrary/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS resources (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	description  TEXT NOT NULL,
	url          TEXT NOT NULL,
	category     TEXT NOT NULL,
	category_ci  TEXT NOT NULL,
	status       TEXT NOT NULL CHECK (status IN ('pending', 'approved', 'rejected')),
	submitted_by JSONB NOT NULL,
	submitted_at TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_resources_status_submitted
	ON resources (status, submitted_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_resources_category_ci
	ON resources (category_ci);
`

const selectColumns = `id, name, description, url, category, category_ci, status, submitted_by, submitted_at, updated_at`

// Store implements the resource store on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a PostgreSQL-backed resource store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the resources table and its indexes if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("pgresources: ensure schema: %w", err)
	}
	return nil
}

// Create inserts r with a new ID, filling CategoryCI, Status and
// SubmittedAt when empty.
func (s *Store) Create(ctx context.Context, r models.Resource) (models.Resource, error) {
	r.ID = primitive.NewObjectID()
	if r.CategoryCI == "" {
		r.CategoryCI = text.Fold(r.Category)
	}
	if r.Status == "" {
		r.Status = models.StatusPending
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}
	r.SubmittedAt = ceilTime(r.SubmittedAt.UTC(), time.Microsecond)

	submitter, err := json.Marshal(r.SubmittedBy)
	if err != nil {
		return models.Resource{}, fmt.Errorf("pgresources: encode submitter: %w", err)
	}

	const insertSQL = `
		INSERT INTO resources (id, name, description, url, category, category_ci, status, submitted_by, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.pool.Exec(ctx, insertSQL,
		r.ID.Hex(), r.Name, r.Description, r.URL, r.Category, r.CategoryCI,
		string(r.Status), submitter, r.SubmittedAt,
	)
	if err != nil {
		return models.Resource{}, fmt.Errorf("pgresources: create: %w", err)
	}
	return r, nil
}

// SetStatus updates one row in a single statement and returns it.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st models.Status) (models.Resource, error) {
	const updateSQL = `
		UPDATE resources SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + selectColumns

	r, err := scanResource(s.pool.QueryRow(ctx, updateSQL, id.Hex(), string(st), time.Now().UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Resource{}, models.ErrResourceNotFound
		}
		return models.Resource{}, fmt.Errorf("pgresources: set status: %w", err)
	}
	return r, nil
}

// GetByID returns one resource.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	r, err := scanResource(s.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM resources WHERE id = $1`, id.Hex()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Resource{}, models.ErrResourceNotFound
		}
		return models.Resource{}, fmt.Errorf("pgresources: get: %w", err)
	}
	return r, nil
}

// ListByStatus returns resources in status st, newest first, optionally
// restricted to a folded category.
func (s *Store) ListByStatus(ctx context.Context, st models.Status, categoryCI string) ([]models.Resource, error) {
	const listSQL = `
		SELECT ` + selectColumns + `
		FROM resources
		WHERE status = $1 AND ($2 = '' OR category_ci = $2)
		ORDER BY submitted_at DESC, id DESC
	`
	return s.query(ctx, listSQL, string(st), categoryCI)
}

// ListAll returns every resource, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Resource, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM resources ORDER BY submitted_at DESC, id DESC`)
}

// CountByStatus returns row counts grouped by status.
func (s *Store) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT status, COUNT(*) FROM resources GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("pgresources: count: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int64)
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("pgresources: scan count: %w", err)
		}
		counts[models.Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgresources: count: %w", err)
	}
	return counts, nil
}

func (s *Store) query(ctx context.Context, sql string, args ...any) ([]models.Resource, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("pgresources: list: %w", err)
	}
	defer rows.Close()

	out := []models.Resource{}
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("pgresources: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgresources: list: %w", err)
	}
	return out, nil
}

func scanResource(row pgx.Row) (models.Resource, error) {
	var (
		r         models.Resource
		id        string
		status    string
		submitter []byte
		updatedAt *time.Time
	)
	if err := row.Scan(&id, &r.Name, &r.Description, &r.URL, &r.Category, &r.CategoryCI,
		&status, &submitter, &r.SubmittedAt, &updatedAt); err != nil {
		return models.Resource{}, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Resource{}, fmt.Errorf("invalid id %q: %w", id, err)
	}
	r.ID = oid
	r.Status = models.Status(status)
	if err := json.Unmarshal(submitter, &r.SubmittedBy); err != nil {
		return models.Resource{}, fmt.Errorf("decode submitter: %w", err)
	}
	r.SubmittedAt = r.SubmittedAt.UTC()
	if updatedAt != nil {
		t := updatedAt.UTC()
		r.UpdatedAt = &t
	}
	return r, nil
}

// ceilTime rounds t up to a multiple of d so a stored timestamp never
// precedes the moment it was taken.
func ceilTime(t time.Time, d time.Duration) time.Time {
	tr := t.Truncate(d)
	if tr.Before(t) {
		tr = tr.Add(d)
	}
	return tr
}
