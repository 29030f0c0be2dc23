package analytics

import (
	"context"

	"github.com/sundayezeilo/linkbio/internal/errx"
)

type unimplementedRepo struct{}

// NewUnimplementedRepository returns a Repository whose every call fails with
// errx.NotImplemented.
func NewUnimplementedRepository() Repository { return unimplementedRepo{} }

func (unimplementedRepo) AppendClick(context.Context, ClickEvent) error {
	return errx.Unimplemented("analytics.repo_unimplemented.AppendClick")
}

func (unimplementedRepo) AppendView(context.Context, ViewEvent) error {
	return errx.Unimplemented("analytics.repo_unimplemented.AppendView")
}

func (unimplementedRepo) ClicksByOwner(context.Context, string) ([]ClickEvent, error) {
	return nil, errx.Unimplemented("analytics.repo_unimplemented.ClicksByOwner")
}

func (unimplementedRepo) ViewsByOwner(context.Context, string) ([]ViewEvent, error) {
	return nil, errx.Unimplemented("analytics.repo_unimplemented.ViewsByOwner")
}
