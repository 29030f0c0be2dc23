package links

import "context"

// Repository persists links. Operations on a missing link id fail with an
// errx.NotFound error.
type Repository interface {
	// List returns the owner's links ascending by Order, ties in insertion order.
	List(ctx context.Context, ownerID string) ([]Link, error)
	Get(ctx context.Context, id string) (Link, error)
	// Create stores link under a new id. A nil position appends the link
	// after the owner's highest Order (0 for the first link).
	Create(ctx context.Context, link Link, position *int) (Link, error)
	Update(ctx context.Context, id string, patch LinkPatch) (Link, error)
	Delete(ctx context.Context, id string) error
	// Reorder sets the Order of ids[i] to i. Ids that are unknown or owned by
	// someone else are skipped; unlisted links keep their Order.
	Reorder(ctx context.Context, ownerID string, ids []string) error
}
