package themes

import "time"

// Colors is a theme's palette. Values are CSS colors or gradients.
type Colors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// Theme is the look of one owner's public profile.
type Theme struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Name            string    `json:"name"`
	Colors          Colors    `json:"colors"`
	BackgroundImage string    `json:"backgroundImage,omitempty"`
	Font            string    `json:"font,omitempty"`
	IsDarkMode      bool      `json:"isDarkMode"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ThemePatch lists the fields of a save. Nil fields are left unchanged;
// Colors replaces the whole palette.
type ThemePatch struct {
	Name            *string
	Colors          *Colors
	BackgroundImage *string
	Font            *string
	IsDarkMode      *bool
}

// Apply returns t with every supplied field of p written over it.
func (p ThemePatch) Apply(t Theme) Theme {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Colors != nil {
		t.Colors = *p.Colors
	}
	if p.BackgroundImage != nil {
		t.BackgroundImage = *p.BackgroundImage
	}
	if p.Font != nil {
		t.Font = *p.Font
	}
	if p.IsDarkMode != nil {
		t.IsDarkMode = *p.IsDarkMode
	}
	return t
}

// DefaultTheme is the starting point of an owner's first save.
var DefaultTheme = Theme{
	Name: "Default",
	Colors: Colors{
		Primary:    "#3b82f6",
		Secondary:  "#60a5fa",
		Background: "#ffffff",
		Text:       "#111827",
	},
	Font: "Inter",
}

var presets = []Theme{
	DefaultTheme,
	{
		Name: "Blue Ocean",
		Colors: Colors{
			Primary:    "#3b82f6",
			Secondary:  "#60a5fa",
			Background: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
			Text:       "#ffffff",
		},
		Font: "Inter",
	},
	{
		Name: "Sunset Glow",
		Colors: Colors{
			Primary:    "#f59e0b",
			Secondary:  "#fbbf24",
			Background: "linear-gradient(135deg, #f093fb 0%, #f5576c 100%)",
			Text:       "#ffffff",
		},
		Font: "Poppins",
	},
	{
		Name: "Midnight",
		Colors: Colors{
			Primary:    "#a78bfa",
			Secondary:  "#c4b5fd",
			Background: "#0f172a",
			Text:       "#f8fafc",
		},
		Font:       "Inter",
		IsDarkMode: true,
	},
}

// Presets returns the built-in themes. The result is a copy.
func Presets() []Theme {
	out := make([]Theme, len(presets))
	copy(out, presets)
	return out
}
