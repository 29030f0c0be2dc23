// Package profile assembles the public page of an owner and gates access
// to premium links.
package profile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sundayezeilo/linkbio/internal/analytics"
	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/identity"
	"github.com/sundayezeilo/linkbio/internal/links"
	"github.com/sundayezeilo/linkbio/internal/themes"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrLinkLocked      = errors.New("premium link is locked")
)

// Users resolves usernames.
type Users interface {
	GetByUsername(ctx context.Context, username string) (identity.User, bool, error)
}

// Links reads owner links.
type Links interface {
	List(ctx context.Context, ownerID string) ([]links.Link, error)
	Get(ctx context.Context, id string) (links.Link, error)
}

// Themes reads owner themes.
type Themes interface {
	Get(ctx context.Context, ownerID string) (themes.Theme, bool, error)
}

// Views records profile views.
type Views interface {
	RecordView(ctx context.Context, in analytics.ViewInput) error
}

// Unlocker decides premium link access.
type Unlocker interface {
	UnlockPremiumLink(ctx context.Context, linkID, ownerID string) (bool, error)
}

// Service defines the public profile operations.
type Service interface {
	// Get returns the profile of username and records a view. NotFound when
	// no user has that username.
	Get(ctx context.Context, username string, visit Visit) (Profile, error)
	// Unlock returns the destination URL of a visible link, consulting the
	// payment provider for premium links.
	Unlock(ctx context.Context, linkID string) (string, error)
}

// Config wires the stores a profile is built from.
type Config struct {
	Users    Users
	Links    Links
	Themes   Themes
	Views    Views
	Unlocker Unlocker
	Logger   *slog.Logger
}

type service struct {
	users    Users
	links    Links
	themes   Themes
	views    Views
	unlocker Unlocker
	logger   *slog.Logger
}

// NewService creates a new service instance.
func NewService(cfg Config) Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		users:    cfg.Users,
		links:    cfg.Links,
		themes:   cfg.Themes,
		views:    cfg.Views,
		unlocker: cfg.Unlocker,
		logger:   logger,
	}
}

func (s *service) Get(ctx context.Context, username string, visit Visit) (Profile, error) {
	const op = "profile.service.Get"

	u, found, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return Profile{}, errx.E(op, errx.KindOf(err), err)
	}
	if !found {
		return Profile{}, errx.E(op, errx.NotFound, ErrProfileNotFound)
	}

	ls, err := s.links.List(ctx, u.ID)
	if err != nil {
		return Profile{}, errx.E(op, errx.KindOf(err), err)
	}

	t, hasTheme, err := s.themes.Get(ctx, u.ID)
	if err != nil {
		return Profile{}, errx.E(op, errx.KindOf(err), err)
	}

	p := Profile{User: publicUser(u), Links: make([]PublicLink, 0, len(ls))}
	for _, l := range ls {
		if l.IsVisible {
			p.Links = append(p.Links, publicLink(l))
		}
	}
	if hasTheme {
		p.Theme = &t
	}

	s.recordView(ctx, u.ID, visit)
	return p, nil
}

func (s *service) recordView(ctx context.Context, ownerID string, visit Visit) {
	if s.views == nil {
		return
	}

	err := s.views.RecordView(ctx, analytics.ViewInput{
		UserID:    ownerID,
		Referrer:  visit.Referrer,
		UserAgent: visit.UserAgent,
		IPAddress: visit.IPAddress,
		VisitorID: visit.VisitorID,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to record profile view",
			"user_id", ownerID,
			"error", err.Error(),
			"error_kind", errx.KindOf(err),
			"operation", errx.OpOf(err),
		)
	}
}

func (s *service) Unlock(ctx context.Context, linkID string) (string, error) {
	const op = "profile.service.Unlock"

	l, err := s.links.Get(ctx, linkID)
	if err != nil {
		return "", errx.E(op, errx.KindOf(err), err)
	}
	if !l.IsVisible {
		return "", errx.E(op, errx.NotFound, links.ErrLinkNotFound)
	}
	if !l.IsPremium {
		return l.URL, nil
	}

	ok, err := s.unlocker.UnlockPremiumLink(ctx, l.ID, l.UserID)
	if err != nil {
		return "", errx.E(op, errx.KindOf(err), err)
	}
	if !ok {
		return "", errx.E(op, errx.Forbidden, ErrLinkLocked)
	}
	return l.URL, nil
}
