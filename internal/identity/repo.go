package identity

import "context"

// Repository persists users.
// Lookups of a missing user fail with an errx.NotFound error.
type Repository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	// Upsert merges patch into the user with patch.ID, or creates a new user
	// when no such user exists. A username held by another user is a Conflict.
	Upsert(ctx context.Context, patch UserPatch) (User, error)
}
