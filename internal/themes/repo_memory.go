package themes

import (
	"context"
	"errors"
	"sync"

	"github.com/sundayezeilo/linkbio/internal/clock"
	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/idgen"
)

var ErrThemeNotFound = errors.New("theme not found")

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
	mu      sync.RWMutex
	byOwner map[string]Theme
	ids     idgen.Generator
	clock   clock.Clock
}

// NewMemoryRepository returns a Repository that keeps themes in process memory.
func NewMemoryRepository(config *RepositoryConfig) Repository {
	cfg := config.withDefaults()
	return &memoryRepo{
		byOwner: make(map[string]Theme),
		ids:     cfg.IDGenerator,
		clock:   cfg.Clock,
	}
}

func (r *memoryRepo) Get(_ context.Context, ownerID string) (Theme, error) {
	const op = "themes.repo_memory.Get"

	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byOwner[ownerID]
	if !ok {
		return Theme{}, errx.E(op, errx.NotFound, ErrThemeNotFound)
	}
	return t, nil
}

func (r *memoryRepo) Save(_ context.Context, ownerID string, patch ThemePatch) (Theme, error) {
	const op = "themes.repo_memory.Save"

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()

	if existing, ok := r.byOwner[ownerID]; ok {
		updated := patch.Apply(existing)
		updated.UpdatedAt = clock.After(existing.UpdatedAt, now)
		r.byOwner[ownerID] = updated
		return updated, nil
	}

	id, err := idgen.NewString(r.ids)
	if err != nil {
		return Theme{}, errx.E(op, errx.Unavailable, err)
	}

	base := DefaultTheme
	base.ID = id
	base.UserID = ownerID
	base.CreatedAt = now
	base.UpdatedAt = now

	created := patch.Apply(base)
	r.byOwner[ownerID] = created
	return created, nil
}
