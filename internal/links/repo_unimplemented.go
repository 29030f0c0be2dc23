package links

import (
	"context"

	"github.com/sundayezeilo/linkbio/internal/errx"
)

type unimplementedRepo struct{}

// NewUnimplementedRepository returns a Repository whose every call fails with
// errx.NotImplemented.
func NewUnimplementedRepository() Repository { return unimplementedRepo{} }

func (unimplementedRepo) List(context.Context, string) ([]Link, error) {
	return nil, errx.Unimplemented("links.repo_unimplemented.List")
}

func (unimplementedRepo) Get(context.Context, string) (Link, error) {
	return Link{}, errx.Unimplemented("links.repo_unimplemented.Get")
}

func (unimplementedRepo) Create(context.Context, Link, *int) (Link, error) {
	return Link{}, errx.Unimplemented("links.repo_unimplemented.Create")
}

func (unimplementedRepo) Update(context.Context, string, LinkPatch) (Link, error) {
	return Link{}, errx.Unimplemented("links.repo_unimplemented.Update")
}

func (unimplementedRepo) Delete(context.Context, string) error {
	return errx.Unimplemented("links.repo_unimplemented.Delete")
}

func (unimplementedRepo) Reorder(context.Context, string, []string) error {
	return errx.Unimplemented("links.repo_unimplemented.Reorder")
}
