package analytics

import (
	"context"
	"slices"
	"sync"
)

type memoryRepo struct {
	mu     sync.RWMutex
	clicks map[string][]ClickEvent
	views  map[string][]ViewEvent
}

// NewMemoryRepository returns a Repository that keeps events in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepo{
		clicks: make(map[string][]ClickEvent),
		views:  make(map[string][]ViewEvent),
	}
}

func (r *memoryRepo) AppendClick(_ context.Context, e ClickEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clicks[e.UserID] = append(r.clicks[e.UserID], e)
	return nil
}

func (r *memoryRepo) AppendView(_ context.Context, e ViewEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.views[e.UserID] = append(r.views[e.UserID], e)
	return nil
}

func (r *memoryRepo) ClicksByOwner(_ context.Context, ownerID string) ([]ClickEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.clicks[ownerID]), nil
}

func (r *memoryRepo) ViewsByOwner(_ context.Context, ownerID string) ([]ViewEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.views[ownerID]), nil
}
