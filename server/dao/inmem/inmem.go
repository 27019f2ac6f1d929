// Package inmem provides an in-memory dao.Store, suitable for demos and
// tests where persistence across restarts is not needed.
package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scala-steward/diesel-core/server/dao"
)

type store struct {
	history *historyRepo
}

// NewDatastore returns a dao.Store backed entirely by in-process memory.
func NewDatastore() dao.Store {
	return &store{
		history: &historyRepo{entries: make(map[uuid.UUID]dao.Entry)},
	}
}

func (s *store) History() dao.HistoryRepository {
	return s.history
}

func (s *store) Close() error {
	return nil
}

type historyRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]dao.Entry
	order   []uuid.UUID
}

func (r *historyRepo) Create(ctx context.Context, e dao.Entry) (dao.Entry, error) {
	newID, err := uuid.NewRandom()
	if err != nil {
		return dao.Entry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = newID
	e.Created = time.Now()
	r.entries[e.ID] = e
	r.order = append(r.order, e.ID)

	return e, nil
}

func (r *historyRepo) GetByID(ctx context.Context, id uuid.UUID) (dao.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return dao.Entry{}, dao.ErrNotFound
	}
	return e, nil
}

func (r *historyRepo) GetRecent(ctx context.Context, limit int) ([]dao.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]dao.Entry, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.entries[id])
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Created.After(all[j].Created)
	})

	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}

	return all, nil
}
