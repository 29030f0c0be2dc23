// Package textx cleans user supplied text before it is stored.
package textx

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Sanitize strips all HTML from s and trims surrounding whitespace.
// Entities escaped by the policy are decoded again so "Tom & Jerry"
// is stored as typed.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// SanitizePtr sanitizes *p in place. A nil pointer is left untouched.
func SanitizePtr(p *string) {
	if p != nil {
		*p = Sanitize(*p)
	}
}
