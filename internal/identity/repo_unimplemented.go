package identity

import (
	"context"

	"github.com/sundayezeilo/linkbio/internal/errx"
)

type unimplementedRepo struct{}

// NewUnimplementedRepository returns a Repository whose every call fails with
// errx.NotImplemented. It backs deployments with no configured data store.
func NewUnimplementedRepository() Repository { return unimplementedRepo{} }

func (unimplementedRepo) GetByID(context.Context, string) (User, error) {
	return User{}, errx.Unimplemented("identity.repo_unimplemented.GetByID")
}

func (unimplementedRepo) GetByUsername(context.Context, string) (User, error) {
	return User{}, errx.Unimplemented("identity.repo_unimplemented.GetByUsername")
}

func (unimplementedRepo) Upsert(context.Context, UserPatch) (User, error) {
	return User{}, errx.Unimplemented("identity.repo_unimplemented.Upsert")
}
