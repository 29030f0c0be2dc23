package profile

import (
	"github.com/sundayezeilo/linkbio/internal/identity"
	"github.com/sundayezeilo/linkbio/internal/links"
	"github.com/sundayezeilo/linkbio/internal/themes"
)

// Profile is the public view of an owner's page.
type Profile struct {
	User  PublicUser    `json:"user"`
	Links []PublicLink  `json:"links"`
	Theme *themes.Theme `json:"theme"`
}

// PublicUser is the part of a user record shown to visitors.
type PublicUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	Avatar      string `json:"avatar"`
}

// PublicLink is a visible link. Locked links withhold their URL until unlocked.
type PublicLink struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	IsPremium   bool   `json:"isPremium"`
	Locked      bool   `json:"locked"`
	Order       int    `json:"order"`
}

// Visit describes who is looking at a profile.
type Visit struct {
	Referrer  string
	UserAgent string
	IPAddress string
	VisitorID string
}

func publicUser(u identity.User) PublicUser {
	return PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		Avatar:      u.Avatar,
	}
}

func publicLink(l links.Link) PublicLink {
	p := PublicLink{
		ID:          l.ID,
		Title:       l.Title,
		URL:         l.URL,
		Description: l.Description,
		Icon:        l.Icon,
		IsPremium:   l.IsPremium,
		Order:       l.Order,
	}
	if l.IsPremium {
		p.URL = ""
		p.Locked = true
	}
	return p
}
