package links

import "time"

// Link is one entry of an owner's link list.
type Link struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	URL         string    `json:"url" db:"url"`
	Description string    `json:"description,omitempty" db:"description"`
	Icon        string    `json:"icon,omitempty" db:"icon"`
	IsPremium   bool      `json:"isPremium" db:"is_premium"`
	IsVisible   bool      `json:"isVisible" db:"is_visible"`
	Order       int       `json:"order" db:"position"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// LinkPatch lists the fields of an update. Nil fields are left unchanged.
type LinkPatch struct {
	Title       *string
	URL         *string
	Description *string
	Icon        *string
	IsPremium   *bool
	IsVisible   *bool
	Order       *int
}

// Apply returns l with every supplied field of p written over it.
func (p LinkPatch) Apply(l Link) Link {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.URL != nil {
		l.URL = *p.URL
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Icon != nil {
		l.Icon = *p.Icon
	}
	if p.IsPremium != nil {
		l.IsPremium = *p.IsPremium
	}
	if p.IsVisible != nil {
		l.IsVisible = *p.IsVisible
	}
	if p.Order != nil {
		l.Order = *p.Order
	}
	return l
}

// AvailableIcons is the icon catalogue offered by the link editor.
// Stored links may carry other icon names.
var AvailableIcons = []string{
	"github",
	"linkedin",
	"twitter",
	"instagram",
	"youtube",
	"globe",
	"mail",
	"phone",
	"map-pin",
	"calendar",
	"briefcase",
	"user",
	"heart",
	"star",
	"camera",
	"music",
	"book",
	"coffee",
	"code",
	"zap",
}
