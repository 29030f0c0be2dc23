package themes

import (
	"context"

	"github.com/sundayezeilo/linkbio/internal/errx"
)

type unimplementedRepo struct{}

// NewUnimplementedRepository returns a Repository whose every call fails with
// errx.NotImplemented.
func NewUnimplementedRepository() Repository { return unimplementedRepo{} }

func (unimplementedRepo) Get(context.Context, string) (Theme, error) {
	return Theme{}, errx.Unimplemented("themes.repo_unimplemented.Get")
}

func (unimplementedRepo) Save(context.Context, string, ThemePatch) (Theme, error) {
	return Theme{}, errx.Unimplemented("themes.repo_unimplemented.Save")
}
