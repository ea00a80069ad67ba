// Package textclean sanitizes user-supplied post and comment text.
// Posts are plain text, so the strict policy strips every tag; what
// remains is trimmed before storage.
package textclean

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Clean strips all HTML from s and trims surrounding whitespace.
// bluemonday entity-escapes its output, so unescape to get the literal
// text the user typed.
func Clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}
