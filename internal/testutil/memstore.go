package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/dalemusser/ailibrary/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore is an in-memory resource store for service and handler tests.
// Setting Err makes every call fail with it.
type MemStore struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Resource
	Err  error
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{byID: make(map[primitive.ObjectID]models.Resource)}
}

func (m *MemStore) Create(_ context.Context, r models.Resource) (models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Resource{}, m.Err
	}
	r.ID = primitive.NewObjectID()
	m.byID[r.ID] = r
	return r, nil
}

func (m *MemStore) GetByID(_ context.Context, id primitive.ObjectID) (models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Resource{}, m.Err
	}
	r, ok := m.byID[id]
	if !ok {
		return models.Resource{}, models.ErrResourceNotFound
	}
	return r, nil
}

func (m *MemStore) SetStatus(_ context.Context, id primitive.ObjectID, st models.Status) (models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Resource{}, m.Err
	}
	r, ok := m.byID[id]
	if !ok {
		return models.Resource{}, models.ErrResourceNotFound
	}
	r.Status = st
	m.byID[id] = r
	return r, nil
}

func (m *MemStore) ListByStatus(_ context.Context, st models.Status, categoryCI string) ([]models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.Resource{}
	for _, r := range m.byID {
		if r.Status != st {
			continue
		}
		if categoryCI != "" && r.CategoryCI != categoryCI {
			continue
		}
		out = append(out, r)
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MemStore) ListAll(_ context.Context) ([]models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Resource, 0, len(m.byID))
	for _, r := range m.byID {
		out = append(out, r)
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MemStore) CountByStatus(_ context.Context) (map[models.Status]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	counts := make(map[models.Status]int64)
	for _, r := range m.byID {
		counts[r.Status]++
	}
	return counts, nil
}

// Get returns the stored copy of a resource.
func (m *MemStore) Get(id primitive.ObjectID) (models.Resource, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	return r, ok
}

// Len reports how many resources are stored.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

func sortNewestFirst(rs []models.Resource) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].SubmittedAt.Equal(rs[j].SubmittedAt) {
			return rs[i].ID.Hex() > rs[j].ID.Hex()
		}
		return rs[i].SubmittedAt.After(rs[j].SubmittedAt)
	})
}
