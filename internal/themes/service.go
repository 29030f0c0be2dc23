// Package themes stores the single theme each owner applies to their profile.
package themes

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/textx"
)

const (
	MaxNameLength  = 50
	MaxColorLength = 200
	MaxFontLength  = 50
	MaxURLLength   = 2048
)

// Service defines the theme operations.
type Service interface {
	// Get returns the owner's theme; found is false when none was saved.
	Get(ctx context.Context, ownerID string) (Theme, bool, error)
	// Save upserts the owner's theme. Saving twice never creates a second theme.
	Save(ctx context.Context, ownerID string, patch ThemePatch) (Theme, error)
}

type service struct {
	repo Repository
}

// NewService creates a new service instance.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, ownerID string) (Theme, bool, error) {
	const op = "themes.service.Get"

	if ownerID == "" {
		return Theme{}, false, nil
	}

	t, err := s.repo.Get(ctx, ownerID)
	switch {
	case err == nil:
		return t, true, nil
	case errx.KindOf(err) == errx.NotFound:
		return Theme{}, false, nil
	default:
		return Theme{}, false, errx.E(op, errx.KindOf(err), err)
	}
}

func (s *service) Save(ctx context.Context, ownerID string, patch ThemePatch) (Theme, error) {
	const op = "themes.service.Save"

	if ownerID == "" {
		return Theme{}, errx.E(op, errx.Invalid, errors.New("owner id cannot be empty"))
	}

	textx.SanitizePtr(patch.Name)
	textx.SanitizePtr(patch.Font)
	if err := validatePatch(patch); err != nil {
		return Theme{}, errx.E(op, errx.Invalid, err)
	}

	t, err := s.repo.Save(ctx, ownerID, patch)
	if err != nil {
		return Theme{}, errx.E(op, errx.KindOf(err), err)
	}
	return t, nil
}

func validatePatch(p ThemePatch) error {
	if p.Name != nil {
		if *p.Name == "" {
			return errors.New("name cannot be empty")
		}
		if len([]rune(*p.Name)) > MaxNameLength {
			return errors.New("name too long (max 50 characters)")
		}
	}
	if p.Colors != nil {
		for _, c := range []struct{ field, value string }{
			{"primary", p.Colors.Primary},
			{"secondary", p.Colors.Secondary},
			{"background", p.Colors.Background},
			{"text", p.Colors.Text},
		} {
			if err := validateColor(c.value); err != nil {
				return fmt.Errorf("colors.%s: %w", c.field, err)
			}
		}
	}
	if p.BackgroundImage != nil && *p.BackgroundImage != "" {
		if err := validateImageURL(*p.BackgroundImage); err != nil {
			return err
		}
	}
	if p.Font != nil && len(*p.Font) > MaxFontLength {
		return errors.New("font too long (max 50 characters)")
	}
	return nil
}

// validateColor accepts any short CSS value that cannot break out of a
// style declaration.
func validateColor(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("color cannot be empty")
	}
	if len(value) > MaxColorLength {
		return errors.New("color too long (max 200 characters)")
	}
	if strings.ContainsAny(value, "<>;{}\"\\") {
		return errors.New("color contains invalid characters")
	}
	return nil
}

func validateImageURL(rawURL string) error {
	if len(rawURL) > MaxURLLength {
		return errors.New("background image url too long (max 2048 characters)")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return errors.New("background image must be an http or https url")
	}
	return nil
}
