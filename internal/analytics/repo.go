package analytics

import "context"

// Repository is the append-only event log.
type Repository interface {
	AppendClick(ctx context.Context, e ClickEvent) error
	AppendView(ctx context.Context, e ViewEvent) error
	// ClicksByOwner returns the owner's clicks in recording order.
	ClicksByOwner(ctx context.Context, ownerID string) ([]ClickEvent, error)
	// ViewsByOwner returns the owner's profile views in recording order.
	ViewsByOwner(ctx context.Context, ownerID string) ([]ViewEvent, error)
}
