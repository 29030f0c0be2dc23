// Package links manages each owner's ordered list of profile links.
package links

import (
	"context"
	"errors"
	"net/url"

	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/textx"
)

const (
	MaxURLLength         = 2048
	MaxTitleLength       = 100
	MaxDescriptionLength = 300
	MaxIconLength        = 32
)

// CreateLinkRequest represents the parameters for creating a new link.
type CreateLinkRequest struct {
	Title       string
	URL         string
	Description string
	Icon        string
	IsPremium   bool
	IsVisible   *bool // default: true
	Order       *int  // default: appended after the owner's last link
}

// Service defines the link list operations.
type Service interface {
	List(ctx context.Context, ownerID string) ([]Link, error)
	Get(ctx context.Context, id string) (Link, error)
	Create(ctx context.Context, ownerID string, req CreateLinkRequest) (Link, error)
	Update(ctx context.Context, id string, patch LinkPatch) (Link, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ownerID string, ids []string) error
}

type service struct {
	repo Repository
}

// NewService creates a new service instance.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, ownerID string) ([]Link, error) {
	const op = "links.service.List"

	if ownerID == "" {
		return nil, errx.E(op, errx.Invalid, errors.New("owner id cannot be empty"))
	}

	out, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (Link, error) {
	const op = "links.service.Get"

	if id == "" {
		return Link{}, errx.E(op, errx.Invalid, errors.New("link id cannot be empty"))
	}

	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return Link{}, errx.E(op, errx.KindOf(err), err)
	}
	return l, nil
}

// Create validates req and stores a new link for ownerID.
func (s *service) Create(ctx context.Context, ownerID string, req CreateLinkRequest) (Link, error) {
	const op = "links.service.Create"

	if ownerID == "" {
		return Link{}, errx.E(op, errx.Invalid, errors.New("owner id cannot be empty"))
	}

	link := Link{
		UserID:      ownerID,
		Title:       textx.Sanitize(req.Title),
		URL:         req.URL,
		Description: textx.Sanitize(req.Description),
		Icon:        textx.Sanitize(req.Icon),
		IsPremium:   req.IsPremium,
		IsVisible:   true,
	}
	if req.IsVisible != nil {
		link.IsVisible = *req.IsVisible
	}

	if err := validateLink(link); err != nil {
		return Link{}, errx.E(op, errx.Invalid, err)
	}
	if err := validateOrder(req.Order); err != nil {
		return Link{}, errx.E(op, errx.Invalid, err)
	}

	created, err := s.repo.Create(ctx, link, req.Order)
	if err != nil {
		return Link{}, errx.E(op, errx.KindOf(err), err)
	}
	return created, nil
}

// Update validates the supplied fields of patch and merges them into the link.
func (s *service) Update(ctx context.Context, id string, patch LinkPatch) (Link, error) {
	const op = "links.service.Update"

	if id == "" {
		return Link{}, errx.E(op, errx.Invalid, errors.New("link id cannot be empty"))
	}

	textx.SanitizePtr(patch.Title)
	textx.SanitizePtr(patch.Description)
	textx.SanitizePtr(patch.Icon)

	if err := validatePatch(patch); err != nil {
		return Link{}, errx.E(op, errx.Invalid, err)
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return Link{}, errx.E(op, errx.KindOf(err), err)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	const op = "links.service.Delete"

	if id == "" {
		return errx.E(op, errx.Invalid, errors.New("link id cannot be empty"))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	return nil
}

// Reorder gives ids[i] the Order i. An empty ids is a no-op.
func (s *service) Reorder(ctx context.Context, ownerID string, ids []string) error {
	const op = "links.service.Reorder"

	if len(ids) == 0 {
		return nil
	}
	if ownerID == "" {
		return errx.E(op, errx.Invalid, errors.New("owner id cannot be empty"))
	}

	if err := s.repo.Reorder(ctx, ownerID, ids); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	return nil
}

func validateLink(l Link) error {
	if err := validateTitle(l.Title); err != nil {
		return err
	}
	if err := validateURL(l.URL); err != nil {
		return err
	}
	return validateText(l.Description, l.Icon)
}

func validatePatch(p LinkPatch) error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.URL != nil {
		if err := validateURL(*p.URL); err != nil {
			return err
		}
	}
	var description, icon string
	if p.Description != nil {
		description = *p.Description
	}
	if p.Icon != nil {
		icon = *p.Icon
	}
	if err := validateText(description, icon); err != nil {
		return err
	}
	return validateOrder(p.Order)
}

func validateTitle(title string) error {
	if title == "" {
		return errors.New("title cannot be empty")
	}
	if len([]rune(title)) > MaxTitleLength {
		return errors.New("title too long (max 100 characters)")
	}
	return nil
}

func validateText(description, icon string) error {
	if len([]rune(description)) > MaxDescriptionLength {
		return errors.New("description too long (max 300 characters)")
	}
	if len(icon) > MaxIconLength {
		return errors.New("icon name too long (max 32 characters)")
	}
	return nil
}

func validateOrder(order *int) error {
	if order != nil && *order < 0 {
		return errors.New("order cannot be negative")
	}
	return nil
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("url cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return errors.New("url too long (max 2048 characters)")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid url format")
	}
	if parsedURL.Scheme == "" {
		return errors.New("url must include scheme (http or https)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}
	if parsedURL.Host == "" {
		return errors.New("url must include host")
	}
	return nil
}
