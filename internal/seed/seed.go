// Package seed loads users, links and themes from YAML and writes them
// through the public services, so seeded data obeys the same validation as
// API writes.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sundayezeilo/linkbio/internal/identity"
	"github.com/sundayezeilo/linkbio/internal/links"
	"github.com/sundayezeilo/linkbio/internal/themes"
)

//go:embed demo.yaml
var demoYAML []byte

// File is the document format of a seed file.
type File struct {
	Users  []User  `yaml:"users"`
	Links  []Link  `yaml:"links"`
	Themes []Theme `yaml:"themes"`
}

type User struct {
	ID          string `yaml:"id"`
	Username    string `yaml:"username"`
	DisplayName string `yaml:"displayName"`
	Bio         string `yaml:"bio"`
	Email       string `yaml:"email"`
	Avatar      string `yaml:"avatar"`
}

type Link struct {
	UserID      string `yaml:"userId"`
	Title       string `yaml:"title"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	IsPremium   bool   `yaml:"isPremium"`
	IsVisible   *bool  `yaml:"isVisible"`
	Order       *int   `yaml:"order"`
}

type Theme struct {
	UserID          string `yaml:"userId"`
	Name            string `yaml:"name"`
	Colors          Colors `yaml:"colors"`
	BackgroundImage string `yaml:"backgroundImage"`
	Font            string `yaml:"font"`
	IsDarkMode      bool   `yaml:"isDarkMode"`
}

type Colors struct {
	Primary    string `yaml:"primary"`
	Secondary  string `yaml:"secondary"`
	Background string `yaml:"background"`
	Text       string `yaml:"text"`
}

// Parse decodes a seed document. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &f, nil
}

// Load reads and parses the seed file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Demo returns the built-in demo profiles.
func Demo() *File {
	f, err := Parse(bytes.NewReader(demoYAML))
	if err != nil {
		panic(fmt.Sprintf("seed: embedded demo seed is invalid: %v", err))
	}
	return f
}

// Services are the write paths a seed is applied through.
type Services struct {
	Users  identity.Service
	Links  links.Service
	Themes themes.Service
}

// Result counts what Apply wrote.
type Result struct {
	Users  int
	Links  int
	Themes int
	Failed int
}

// Apply writes f through svc: users first, then links, then themes. A record
// that fails is logged and skipped; the error reports how many failed. Links
// of an owner who already has links are skipped, so applying the same seed
// twice does not duplicate them.
func Apply(ctx context.Context, f *File, svc Services, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var res Result
	fail := func(kind, name string, err error) {
		res.Failed++
		logger.WarnContext(ctx, "failed to seed record",
			"record", kind,
			"name", name,
			"error", err.Error(),
		)
	}

	for _, u := range f.Users {
		if _, err := svc.Users.Upsert(ctx, u.patch()); err != nil {
			fail("user", u.Username, err)
			continue
		}
		res.Users++
	}

	seeded := make(map[string]bool)
	for _, l := range f.Links {
		skip, known := seeded[l.UserID]
		if !known {
			existing, err := svc.Links.List(ctx, l.UserID)
			if err != nil {
				fail("link", l.Title, err)
				continue
			}
			skip = len(existing) > 0
			seeded[l.UserID] = skip
			if skip {
				logger.InfoContext(ctx, "owner already has links, skipping seeded links", "user_id", l.UserID)
			}
		}
		if skip {
			continue
		}

		if _, err := svc.Links.Create(ctx, l.UserID, l.request()); err != nil {
			fail("link", l.Title, err)
			continue
		}
		res.Links++
	}

	for _, t := range f.Themes {
		if _, err := svc.Themes.Save(ctx, t.UserID, t.patch()); err != nil {
			fail("theme", t.Name, err)
			continue
		}
		res.Themes++
	}

	logger.InfoContext(ctx, "seed applied",
		"users", res.Users,
		"links", res.Links,
		"themes", res.Themes,
		"failed", res.Failed,
	)

	if res.Failed > 0 {
		return res, fmt.Errorf("seed: %d record(s) failed", res.Failed)
	}
	return res, nil
}

func (u User) patch() identity.UserPatch {
	return identity.UserPatch{
		ID:          u.ID,
		Username:    &u.Username,
		Email:       &u.Email,
		DisplayName: &u.DisplayName,
		Bio:         &u.Bio,
		Avatar:      &u.Avatar,
	}
}

func (l Link) request() links.CreateLinkRequest {
	return links.CreateLinkRequest{
		Title:       l.Title,
		URL:         l.URL,
		Description: l.Description,
		Icon:        l.Icon,
		IsPremium:   l.IsPremium,
		IsVisible:   l.IsVisible,
		Order:       l.Order,
	}
}

func (t Theme) patch() themes.ThemePatch {
	p := themes.ThemePatch{
		Name:            &t.Name,
		BackgroundImage: &t.BackgroundImage,
		Font:            &t.Font,
		IsDarkMode:      &t.IsDarkMode,
	}
	// Without colors the owner keeps the default palette.
	if t.Colors != (Colors{}) {
		colors := themes.Colors(t.Colors)
		p.Colors = &colors
	}
	return p
}
