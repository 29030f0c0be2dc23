package analytics

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/sundayezeilo/linkbio/internal/postgres"
)

type pgRepo struct {
	db postgres.DB
}

// NewPostgresRepository returns a Repository backed by the click_events and
// profile_views tables.
func NewPostgresRepository(db postgres.DB) Repository {
	return &pgRepo{db: db}
}

func (r *pgRepo) AppendClick(ctx context.Context, e ClickEvent) error {
	const op = "analytics.repo_pg.AppendClick"

	_, err := r.db.Exec(ctx, `
		INSERT INTO click_events (link_id, user_id, referrer, user_agent, ip_address, visitor_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.LinkID, e.UserID, e.Referrer, e.UserAgent, e.IPAddress, e.VisitorID, e.Timestamp)
	return postgres.MapError(op, err)
}

func (r *pgRepo) AppendView(ctx context.Context, e ViewEvent) error {
	const op = "analytics.repo_pg.AppendView"

	_, err := r.db.Exec(ctx, `
		INSERT INTO profile_views (user_id, referrer, user_agent, ip_address, visitor_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.UserID, e.Referrer, e.UserAgent, e.IPAddress, e.VisitorID, e.Timestamp)
	return postgres.MapError(op, err)
}

func (r *pgRepo) ClicksByOwner(ctx context.Context, ownerID string) ([]ClickEvent, error) {
	const op = "analytics.repo_pg.ClicksByOwner"

	rows, err := r.db.Query(ctx, `
		SELECT link_id, user_id, referrer, user_agent, ip_address, visitor_id, occurred_at
		FROM click_events
		WHERE user_id = $1
		ORDER BY id`, ownerID)
	if err != nil {
		return nil, postgres.MapError(op, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ClickEvent, error) {
		var e ClickEvent
		err := row.Scan(&e.LinkID, &e.UserID, &e.Referrer, &e.UserAgent, &e.IPAddress, &e.VisitorID, &e.Timestamp)
		e.Timestamp = e.Timestamp.UTC()
		return e, err
	})
	if err != nil {
		return nil, postgres.MapError(op, err)
	}
	return out, nil
}

func (r *pgRepo) ViewsByOwner(ctx context.Context, ownerID string) ([]ViewEvent, error) {
	const op = "analytics.repo_pg.ViewsByOwner"

	rows, err := r.db.Query(ctx, `
		SELECT user_id, referrer, user_agent, ip_address, visitor_id, occurred_at
		FROM profile_views
		WHERE user_id = $1
		ORDER BY id`, ownerID)
	if err != nil {
		return nil, postgres.MapError(op, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ViewEvent, error) {
		var e ViewEvent
		err := row.Scan(&e.UserID, &e.Referrer, &e.UserAgent, &e.IPAddress, &e.VisitorID, &e.Timestamp)
		e.Timestamp = e.Timestamp.UTC()
		return e, err
	})
	if err != nil {
		return nil, postgres.MapError(op, err)
	}
	return out, nil
}
