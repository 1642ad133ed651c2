// Package views implements the page-view aggregation service for job pages.
//
// Each job owns exactly one counter, stored under
//
//	pageviews:careers:<shortcode>
//
// Shortcodes are validated before a key is built: they may not contain the
// ':' separator, so two different shortcodes never map to the same key.
package views

import "fmt"

// Key tokens.
const (
	Namespace = "pageviews"
	Category  = "careers"

	keyPrefix = Namespace + ":" + Category + ":"
)

// MaxShortcodeLen bounds accepted shortcodes. Workable shortcodes are 10 hex
// characters; the limit leaves room without letting arbitrary input through.
const MaxShortcodeLen = 64

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Key returns the counter key for a job shortcode. Callers must validate the
// shortcode first.
func Key(shortcode string) string {
	return keyPrefix + shortcode
}

// KeyPrefix is the common prefix of every careers counter key.
func KeyPrefix() string {
	return keyPrefix
}

// ValidateShortcode rejects empty, oversized or non [A-Za-z0-9_-] shortcodes.
func ValidateShortcode(s string) error {
	if s == "" {
		return &ValidationError{Msg: "shortcode is required"}
	}
	if len(s) > MaxShortcodeLen {
		return &ValidationError{Msg: fmt.Sprintf("shortcode longer than %d characters", MaxShortcodeLen)}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return &ValidationError{Msg: fmt.Sprintf("shortcode contains invalid character %q", c)}
		}
	}
	return nil
}
