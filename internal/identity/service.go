package identity

import (
	"context"
	"errors"

	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/textx"
)

// Service is the identity store: user lookup, session identity and upsert.
type Service interface {
	// Get returns the user with id; found is false when there is none.
	Get(ctx context.Context, id string) (User, bool, error)
	// GetByUsername resolves an exact, case-sensitive username.
	GetByUsername(ctx context.Context, username string) (User, bool, error)
	// CurrentUser returns the user of the current session, if any.
	CurrentUser(ctx context.Context) (User, bool, error)
	// Upsert creates or updates a user; see UserPatch.
	Upsert(ctx context.Context, patch UserPatch) (User, error)
	// IsUsernameAvailable reports whether no user holds username.
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Session SessionResolver // default: AnonymousSession
}

type service struct {
	repo    Repository
	session SessionResolver
}

// NewService creates a new identity service.
func NewService(repo Repository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	session := config.Session
	if session == nil {
		session = AnonymousSession{}
	}

	return &service{repo: repo, session: session}
}

func (s *service) Get(ctx context.Context, id string) (User, bool, error) {
	const op = "identity.service.Get"

	if id == "" {
		return User{}, false, nil
	}
	return found(op, func() (User, error) { return s.repo.GetByID(ctx, id) })
}

func (s *service) GetByUsername(ctx context.Context, username string) (User, bool, error) {
	const op = "identity.service.GetByUsername"

	if username == "" {
		return User{}, false, nil
	}
	return found(op, func() (User, error) { return s.repo.GetByUsername(ctx, username) })
}

func (s *service) CurrentUser(ctx context.Context) (User, bool, error) {
	const op = "identity.service.CurrentUser"

	id, ok := s.session.UserID(ctx)
	if !ok {
		return User{}, false, nil
	}
	// A session pointing at a deleted user is treated as signed out.
	return found(op, func() (User, error) { return s.repo.GetByID(ctx, id) })
}

func (s *service) Upsert(ctx context.Context, patch UserPatch) (User, error) {
	const op = "identity.service.Upsert"

	if patch.Username != nil {
		if res := ValidateUsername(*patch.Username); !res.Valid {
			return User{}, errx.E(op, errx.Invalid, errors.New(res.Error))
		}
	}
	textx.SanitizePtr(patch.DisplayName)
	textx.SanitizePtr(patch.Bio)

	u, err := s.repo.Upsert(ctx, patch)
	if err != nil {
		return User{}, errx.E(op, errx.KindOf(err), err)
	}
	return u, nil
}

func (s *service) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	const op = "identity.service.IsUsernameAvailable"

	_, taken, err := s.GetByUsername(ctx, username)
	if err != nil {
		return false, errx.E(op, errx.KindOf(err), err)
	}
	return !taken, nil
}

// found converts a NotFound repository error into an absent result.
func found(op string, get func() (User, error)) (User, bool, error) {
	u, err := get()
	switch {
	case err == nil:
		return u, true, nil
	case errx.KindOf(err) == errx.NotFound:
		return User{}, false, nil
	default:
		return User{}, false, errx.E(op, errx.KindOf(err), err)
	}
}
