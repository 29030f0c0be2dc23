package themes

import "context"

// Repository persists at most one theme per owner.
type Repository interface {
	// Get fails with errx.NotFound when the owner has no theme.
	Get(ctx context.Context, ownerID string) (Theme, error)
	// Save applies patch to the owner's theme, starting from DefaultTheme
	// when there is none yet.
	Save(ctx context.Context, ownerID string, patch ThemePatch) (Theme, error)
}
