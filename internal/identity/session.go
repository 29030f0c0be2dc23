package identity

import (
	"context"

	"github.com/sundayezeilo/linkbio/internal/auth"
)

// SessionResolver reports which user, if any, the current request acts as.
type SessionResolver interface {
	UserID(ctx context.Context) (string, bool)
}

// AnonymousSession never has a user.
type AnonymousSession struct{}

func (AnonymousSession) UserID(context.Context) (string, bool) { return "", false }

// FixedSession always acts as one user. Useful for local demos.
type FixedSession struct {
	ID string
}

func (s FixedSession) UserID(context.Context) (string, bool) { return s.ID, s.ID != "" }

// ContextSession reads the user id that auth.Authenticate stored in the context.
type ContextSession struct{}

func (ContextSession) UserID(ctx context.Context) (string, bool) {
	return auth.UserIDFromContext(ctx)
}
