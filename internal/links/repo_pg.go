package links

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/sundayezeilo/linkbio/internal/clock"
	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/idgen"
	"github.com/sundayezeilo/linkbio/internal/postgres"
)

const linkColumns = `id, user_id, title, url, description, icon, is_premium, is_visible, position, created_at, updated_at`

// lockOwnerSQL serializes writers of one owner's list for the rest of the transaction.
const lockOwnerSQL = `SELECT pg_advisory_xact_lock(hashtext($1))`

type pgRepo struct {
	db    postgres.DB
	ids   idgen.Generator
	clock clock.Clock
}

// NewPostgresRepository returns a Repository backed by the links table.
func NewPostgresRepository(db postgres.DB, config *RepositoryConfig) Repository {
	cfg := config.withDefaults()
	return &pgRepo{db: db, ids: cfg.IDGenerator, clock: cfg.Clock}
}

func queryLinks(ctx context.Context, db postgres.DB, sql string, args ...any) ([]Link, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[Link])
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].CreatedAt = out[i].CreatedAt.UTC()
		out[i].UpdatedAt = out[i].UpdatedAt.UTC()
	}
	return out, nil
}

func queryLink(ctx context.Context, db postgres.DB, sql string, args ...any) (Link, error) {
	found, err := queryLinks(ctx, db, sql, args...)
	if err != nil {
		return Link{}, err
	}
	if len(found) == 0 {
		return Link{}, pgx.ErrNoRows
	}
	return found[0], nil
}

func mapLinkError(op string, err error) error {
	var e *errx.Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errx.E(op, errx.NotFound, ErrLinkNotFound)
	}
	return postgres.MapError(op, err)
}

func (r *pgRepo) List(ctx context.Context, ownerID string) ([]Link, error) {
	const op = "links.repo_pg.List"

	out, err := queryLinks(ctx, r.db,
		`SELECT `+linkColumns+` FROM links WHERE user_id = $1 ORDER BY position, seq`, ownerID)
	if err != nil {
		return nil, mapLinkError(op, err)
	}
	if out == nil {
		out = []Link{}
	}
	return out, nil
}

func (r *pgRepo) Get(ctx context.Context, id string) (Link, error) {
	const op = "links.repo_pg.Get"

	l, err := queryLink(ctx, r.db, `SELECT `+linkColumns+` FROM links WHERE id = $1`, id)
	if err != nil {
		return Link{}, mapLinkError(op, err)
	}
	return l, nil
}

func (r *pgRepo) Create(ctx context.Context, link Link, position *int) (Link, error) {
	const op = "links.repo_pg.Create"

	id, err := idgen.NewString(r.ids)
	if err != nil {
		return Link{}, errx.E(op, errx.Unavailable, err)
	}

	var out Link
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockOwnerSQL, link.UserID); err != nil {
			return err
		}

		if position != nil {
			link.Order = *position
		} else if err := tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(position) + 1, 0) FROM links WHERE user_id = $1`,
			link.UserID).Scan(&link.Order); err != nil {
			return err
		}

		now := r.clock.Now()
		var err error
		out, err = queryLink(ctx, tx, `
			INSERT INTO links (`+linkColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
			RETURNING `+linkColumns,
			id, link.UserID, link.Title, link.URL, link.Description, link.Icon,
			link.IsPremium, link.IsVisible, link.Order, now)
		return err
	})
	if err != nil {
		return Link{}, mapLinkError(op, err)
	}
	return out, nil
}

func (r *pgRepo) Update(ctx context.Context, id string, patch LinkPatch) (Link, error) {
	const op = "links.repo_pg.Update"

	var out Link
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		existing, err := queryLink(ctx, tx, `SELECT `+linkColumns+` FROM links WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}

		l := patch.Apply(existing)
		l.UpdatedAt = clock.After(existing.UpdatedAt, r.clock.Now())
		out, err = queryLink(ctx, tx, `
			UPDATE links
			SET title = $2, url = $3, description = $4, icon = $5,
			    is_premium = $6, is_visible = $7, position = $8, updated_at = $9
			WHERE id = $1
			RETURNING `+linkColumns,
			id, l.Title, l.URL, l.Description, l.Icon, l.IsPremium, l.IsVisible, l.Order, l.UpdatedAt)
		return err
	})
	if err != nil {
		return Link{}, mapLinkError(op, err)
	}
	return out, nil
}

func (r *pgRepo) Delete(ctx context.Context, id string) error {
	const op = "links.repo_pg.Delete"

	tag, err := r.db.Exec(ctx, `DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		return mapLinkError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return errx.E(op, errx.NotFound, ErrLinkNotFound)
	}
	return nil
}

func (r *pgRepo) Reorder(ctx context.Context, ownerID string, ids []string) error {
	const op = "links.repo_pg.Reorder"

	if len(ids) == 0 {
		return nil
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockOwnerSQL, ownerID); err != nil {
			return err
		}

		now := r.clock.Now()
		for i, id := range ids {
			// Same rule as clock.After: updated_at always moves forward.
			if _, err := tx.Exec(ctx, `
				UPDATE links
				SET position = $3,
				    updated_at = GREATEST($4::timestamptz, updated_at + INTERVAL '1 microsecond')
				WHERE id = $1 AND user_id = $2`,
				id, ownerID, i, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return mapLinkError(op, err)
	}
	return nil
}
