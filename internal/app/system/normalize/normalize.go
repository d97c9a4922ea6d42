// internal/app/system/normalize/normalize.go
// Package normalize holds small input-normalization helpers applied before
// documents are written. Keeping them in one place keeps store code honest
// about what is stored vs. what was typed.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}
