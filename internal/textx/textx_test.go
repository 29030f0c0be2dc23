package textx

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "Full-stack developer", "Full-stack developer"},
		{"trims whitespace", "  hello  ", "hello"},
		{"strips tags", "<b>bold</b> move", "bold move"},
		{"drops script", `<script>alert("x")</script>Hi`, "Hi"},
		{"keeps ampersand", "Tom & Jerry", "Tom & Jerry"},
		{"keeps quotes", `say "hi"`, `say "hi"`},
		{"strips attributes", `<a href="javascript:alert(1)">click</a>`, "click"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizePtr(t *testing.T) {
	SanitizePtr(nil)

	s := " <i>bio</i> "
	SanitizePtr(&s)
	if s != "bio" {
		t.Errorf("SanitizePtr() = %q, want %q", s, "bio")
	}
}
