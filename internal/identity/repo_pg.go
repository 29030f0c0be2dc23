package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/sundayezeilo/linkbio/internal/clock"
	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/idgen"
	"github.com/sundayezeilo/linkbio/internal/postgres"
)

const userColumns = `id, username, email, display_name, bio, avatar, created_at, updated_at`

const usernameConstraint = "users_username_unique"

type pgRepo struct {
	db    postgres.DB
	ids   idgen.Generator
	clock clock.Clock
}

// NewPostgresRepository returns a Repository backed by the users table.
func NewPostgresRepository(db postgres.DB, config *RepositoryConfig) Repository {
	cfg := config.withDefaults()
	return &pgRepo{db: db, ids: cfg.IDGenerator, clock: cfg.Clock}
}

func queryUser(ctx context.Context, db postgres.DB, sql string, args ...any) (User, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return User{}, err
	}
	u, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[User])
	if err != nil {
		return User{}, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func mapUserError(op string, err error) error {
	if postgres.IsUniqueViolation(err, usernameConstraint) {
		return errx.E(op, errx.Conflict, ErrUsernameTaken)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errx.E(op, errx.NotFound, ErrUserNotFound)
	}
	return postgres.MapError(op, err)
}

func (r *pgRepo) GetByID(ctx context.Context, id string) (User, error) {
	const op = "identity.repo_pg.GetByID"

	u, err := queryUser(ctx, r.db, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return User{}, mapUserError(op, err)
	}
	return u, nil
}

func (r *pgRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	const op = "identity.repo_pg.GetByUsername"

	if username == "" {
		return User{}, errx.E(op, errx.NotFound, ErrUserNotFound)
	}

	u, err := queryUser(ctx, r.db, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		return User{}, mapUserError(op, err)
	}
	return u, nil
}

func (r *pgRepo) Upsert(ctx context.Context, patch UserPatch) (User, error) {
	const op = "identity.repo_pg.Upsert"

	var out User
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		now := r.clock.Now()

		if patch.ID != "" {
			existing, err := queryUser(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, patch.ID)
			switch {
			case err == nil:
				u := patch.Apply(existing)
				u.UpdatedAt = clock.After(existing.UpdatedAt, now)
				out, err = queryUser(ctx, tx, `
					UPDATE users
					SET username = $2, email = $3, display_name = $4, bio = $5, avatar = $6, updated_at = $7
					WHERE id = $1
					RETURNING `+userColumns,
					u.ID, u.Username, u.Email, u.DisplayName, u.Bio, u.Avatar, u.UpdatedAt)
				return err
			case !errors.Is(err, pgx.ErrNoRows):
				return err
			}
		}

		id := patch.ID
		if id == "" {
			generated, err := idgen.NewString(r.ids)
			if err != nil {
				return errx.E(op, errx.Unavailable, err)
			}
			id = generated
		}

		u := patch.Apply(User{ID: id, CreatedAt: now, UpdatedAt: now})
		var err error
		out, err = queryUser(ctx, tx, `
			INSERT INTO users (`+userColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+userColumns,
			u.ID, u.Username, u.Email, u.DisplayName, u.Bio, u.Avatar, u.CreatedAt, u.UpdatedAt)
		return err
	})
	if err != nil {
		var e *errx.Error
		if errors.As(err, &e) {
			return User{}, err
		}
		return User{}, mapUserError(op, err)
	}
	return out, nil
}
