package identity

import "time"

// User is a registered profile owner.
type User struct {
	ID          string    `json:"id" db:"id"`
	Username    string    `json:"username" db:"username"`
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"displayName" db:"display_name"`
	Bio         string    `json:"bio" db:"bio"`
	Avatar      string    `json:"avatar" db:"avatar"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// UserPatch is the input of Upsert. ID selects the record; a nil field is
// left unchanged on an existing user and defaults to "" on a new one.
type UserPatch struct {
	ID          string
	Username    *string
	Email       *string
	DisplayName *string
	Bio         *string
	Avatar      *string
}

// Apply returns u with every supplied field of p written over it.
func (p UserPatch) Apply(u User) User {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	return u
}

// ValidationResult reports whether a username is well formed.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}
