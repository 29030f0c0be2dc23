package themes

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sundayezeilo/linkbio/internal/clock"
	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/idgen"
	"github.com/sundayezeilo/linkbio/internal/postgres"
)

const themeColumns = `id, user_id, name, primary_color, secondary_color, background_color, text_color,
	background_image, font, is_dark_mode, created_at, updated_at`

// themeRow is the flat column layout of the themes table.
type themeRow struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	Name            string    `db:"name"`
	PrimaryColor    string    `db:"primary_color"`
	SecondaryColor  string    `db:"secondary_color"`
	BackgroundColor string    `db:"background_color"`
	TextColor       string    `db:"text_color"`
	BackgroundImage string    `db:"background_image"`
	Font            string    `db:"font"`
	IsDarkMode      bool      `db:"is_dark_mode"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r themeRow) theme() Theme {
	return Theme{
		ID:     r.ID,
		UserID: r.UserID,
		Name:   r.Name,
		Colors: Colors{
			Primary:    r.PrimaryColor,
			Secondary:  r.SecondaryColor,
			Background: r.BackgroundColor,
			Text:       r.TextColor,
		},
		BackgroundImage: r.BackgroundImage,
		Font:            r.Font,
		IsDarkMode:      r.IsDarkMode,
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}

type pgRepo struct {
	db    postgres.DB
	ids   idgen.Generator
	clock clock.Clock
}

// NewPostgresRepository returns a Repository backed by the themes table.
func NewPostgresRepository(db postgres.DB, config *RepositoryConfig) Repository {
	cfg := config.withDefaults()
	return &pgRepo{db: db, ids: cfg.IDGenerator, clock: cfg.Clock}
}

func queryTheme(ctx context.Context, db postgres.DB, sql string, args ...any) (Theme, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return Theme{}, err
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[themeRow])
	if err != nil {
		return Theme{}, err
	}
	return row.theme(), nil
}

func mapThemeError(op string, err error) error {
	var e *errx.Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errx.E(op, errx.NotFound, ErrThemeNotFound)
	}
	return postgres.MapError(op, err)
}

func (r *pgRepo) Get(ctx context.Context, ownerID string) (Theme, error) {
	const op = "themes.repo_pg.Get"

	t, err := queryTheme(ctx, r.db, `SELECT `+themeColumns+` FROM themes WHERE user_id = $1`, ownerID)
	if err != nil {
		return Theme{}, mapThemeError(op, err)
	}
	return t, nil
}

func (r *pgRepo) Save(ctx context.Context, ownerID string, patch ThemePatch) (Theme, error) {
	const op = "themes.repo_pg.Save"

	var out Theme
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		// Serializes first saves, which have no row to lock yet.
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('themes:' || $1))`, ownerID); err != nil {
			return err
		}

		now := r.clock.Now()
		existing, err := queryTheme(ctx, tx, `SELECT `+themeColumns+` FROM themes WHERE user_id = $1 FOR UPDATE`, ownerID)
		switch {
		case err == nil:
			t := patch.Apply(existing)
			t.UpdatedAt = clock.After(existing.UpdatedAt, now)
			out, err = queryTheme(ctx, tx, `
				UPDATE themes
				SET name = $2, primary_color = $3, secondary_color = $4, background_color = $5,
				    text_color = $6, background_image = $7, font = $8, is_dark_mode = $9, updated_at = $10
				WHERE id = $1
				RETURNING `+themeColumns,
				t.ID, t.Name, t.Colors.Primary, t.Colors.Secondary, t.Colors.Background,
				t.Colors.Text, t.BackgroundImage, t.Font, t.IsDarkMode, t.UpdatedAt)
			return err
		case !errors.Is(err, pgx.ErrNoRows):
			return err
		}

		id, err := idgen.NewString(r.ids)
		if err != nil {
			return errx.E(op, errx.Unavailable, err)
		}

		base := DefaultTheme
		base.ID = id
		base.UserID = ownerID
		t := patch.Apply(base)
		out, err = queryTheme(ctx, tx, `
			INSERT INTO themes (`+themeColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
			RETURNING `+themeColumns,
			t.ID, t.UserID, t.Name, t.Colors.Primary, t.Colors.Secondary, t.Colors.Background,
			t.Colors.Text, t.BackgroundImage, t.Font, t.IsDarkMode, now)
		return err
	})
	if err != nil {
		return Theme{}, mapThemeError(op, err)
	}
	return out, nil
}
