package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/sundayezeilo/linkbio/internal/clock"
	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/idgen"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username is already taken")
)

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

type memoryRepo struct {
	mu    sync.RWMutex
	users map[string]User
	ids   idgen.Generator
	clock clock.Clock
}

// NewMemoryRepository returns a Repository that keeps users in process memory.
func NewMemoryRepository(config *RepositoryConfig) Repository {
	cfg := config.withDefaults()
	return &memoryRepo{
		users: make(map[string]User),
		ids:   cfg.IDGenerator,
		clock: cfg.Clock,
	}
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (User, error) {
	const op = "identity.repo_memory.GetByID"

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, errx.E(op, errx.NotFound, ErrUserNotFound)
	}
	return u, nil
}

func (r *memoryRepo) GetByUsername(_ context.Context, username string) (User, error) {
	const op = "identity.repo_memory.GetByUsername"

	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.findByUsername(username); ok {
		return u, nil
	}
	return User{}, errx.E(op, errx.NotFound, ErrUserNotFound)
}

func (r *memoryRepo) Upsert(_ context.Context, patch UserPatch) (User, error) {
	const op = "identity.repo_memory.Upsert"

	r.mu.Lock()
	defer r.mu.Unlock()

	if patch.Username != nil && *patch.Username != "" {
		if holder, ok := r.findByUsername(*patch.Username); ok && holder.ID != patch.ID {
			return User{}, errx.E(op, errx.Conflict, ErrUsernameTaken)
		}
	}

	now := r.clock.Now()

	if existing, ok := r.users[patch.ID]; ok && patch.ID != "" {
		updated := patch.Apply(existing)
		updated.UpdatedAt = clock.After(existing.UpdatedAt, now)
		r.users[updated.ID] = updated
		return updated, nil
	}

	id := patch.ID
	if id == "" {
		generated, err := idgen.NewString(r.ids)
		if err != nil {
			return User{}, errx.E(op, errx.Unavailable, err)
		}
		id = generated
	}

	created := patch.Apply(User{ID: id, CreatedAt: now, UpdatedAt: now})
	r.users[id] = created
	return created, nil
}

// findByUsername must be called with r.mu held.
func (r *memoryRepo) findByUsername(username string) (User, bool) {
	if username == "" {
		return User{}, false
	}
	for _, u := range r.users {
		if u.Username == username {
			return u, true
		}
	}
	return User{}, false
}
