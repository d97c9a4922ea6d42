// internal/app/system/sanitize/sanitize.go
// Package sanitize strips markup from user-supplied text before storage.
// Posts, messages and memories accept free text from clients; none of it is
// allowed to carry HTML.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text removes all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
