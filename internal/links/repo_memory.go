package links

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/sundayezeilo/linkbio/internal/clock"
	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/idgen"
)

var ErrLinkNotFound = errors.New("link not found")

// RepositoryConfig holds configuration shared by the repositories.
type RepositoryConfig struct {
	IDGenerator idgen.Generator
	Clock       clock.Clock
}

func (c *RepositoryConfig) withDefaults() RepositoryConfig {
	var out RepositoryConfig
	if c != nil {
		out = *c
	}
	if out.IDGenerator == nil {
		out.IDGenerator = idgen.NewV7(idgen.WithRetries(1))
	}
	if out.Clock == nil {
		out.Clock = clock.System()
	}
	return out
}

type storedLink struct {
	Link
	seq uint64
}

type memoryRepo struct {
	mu      sync.RWMutex
	links   map[string]storedLink
	nextSeq uint64
	ids     idgen.Generator
	clock   clock.Clock
}

// NewMemoryRepository returns a Repository that keeps links in process memory.
// Every mutation holds a single write lock, so concurrent reorders and
// updates of one owner's list never interleave.
func NewMemoryRepository(config *RepositoryConfig) Repository {
	cfg := config.withDefaults()
	return &memoryRepo{
		links: make(map[string]storedLink),
		ids:   cfg.IDGenerator,
		clock: cfg.Clock,
	}
}

func (r *memoryRepo) List(_ context.Context, ownerID string) ([]Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := r.owned(ownerID)
	out := make([]Link, len(owned))
	for i, s := range owned {
		out[i] = s.Link
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, id string) (Link, error) {
	const op = "links.repo_memory.Get"

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.links[id]
	if !ok {
		return Link{}, errx.E(op, errx.NotFound, ErrLinkNotFound)
	}
	return s.Link, nil
}

func (r *memoryRepo) Create(_ context.Context, link Link, position *int) (Link, error) {
	const op = "links.repo_memory.Create"

	id, err := idgen.NewString(r.ids)
	if err != nil {
		return Link{}, errx.E(op, errx.Unavailable, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if position != nil {
		link.Order = *position
	} else {
		link.Order = r.nextOrder(link.UserID)
	}

	now := r.clock.Now()
	link.ID = id
	link.CreatedAt = now
	link.UpdatedAt = now

	r.nextSeq++
	r.links[id] = storedLink{Link: link, seq: r.nextSeq}
	return link, nil
}

func (r *memoryRepo) Update(_ context.Context, id string, patch LinkPatch) (Link, error) {
	const op = "links.repo_memory.Update"

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.links[id]
	if !ok {
		return Link{}, errx.E(op, errx.NotFound, ErrLinkNotFound)
	}

	prev := s.UpdatedAt
	s.Link = patch.Apply(s.Link)
	s.UpdatedAt = clock.After(prev, r.clock.Now())
	r.links[id] = s
	return s.Link, nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	const op = "links.repo_memory.Delete"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.links[id]; !ok {
		return errx.E(op, errx.NotFound, ErrLinkNotFound)
	}
	delete(r.links, id)
	return nil
}

func (r *memoryRepo) Reorder(_ context.Context, ownerID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	for i, id := range ids {
		s, ok := r.links[id]
		if !ok || s.UserID != ownerID {
			continue
		}
		s.Order = i
		s.UpdatedAt = clock.After(s.UpdatedAt, now)
		r.links[id] = s
	}
	return nil
}

// owned returns the owner's links in list order. Callers hold r.mu.
func (r *memoryRepo) owned(ownerID string) []storedLink {
	var out []storedLink
	for _, s := range r.links {
		if s.UserID == ownerID {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b storedLink) int {
		return cmp.Or(cmp.Compare(a.Order, b.Order), cmp.Compare(a.seq, b.seq))
	})
	return out
}

// nextOrder must be called with r.mu held.
func (r *memoryRepo) nextOrder(ownerID string) int {
	next := 0
	for _, s := range r.links {
		if s.UserID == ownerID && s.Order >= next {
			next = s.Order + 1
		}
	}
	return next
}
