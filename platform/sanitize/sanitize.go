// Package sanitize provides input sanitization helpers for user-provided text.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxMessageLen = 2000

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	emailPattern   = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern   = regexp.MustCompile(`\+?\d[\d\s().\-]{6,}\d`)
	longNumPattern = regexp.MustCompile(`\b\d{7,}\b`)
	multiSpace     = regexp.MustCompile(`\s+`)
)

// StripHTML removes HTML tags and collapses whitespace.
func StripHTML(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Message redacts personal data from a chat message before it is persisted or
// forwarded to a completion provider. HTML is stripped first, then email
// addresses, phone-like digit runs and long numbers are replaced with
// placeholders, and the result is capped.
func Message(s string) string {
	s = StripHTML(s)
	s = emailPattern.ReplaceAllString(s, "[email]")
	s = phonePattern.ReplaceAllString(s, "[telefono]")
	s = longNumPattern.ReplaceAllString(s, "[numero]")
	if utf8.RuneCountInString(s) > maxMessageLen {
		runes := []rune(s)
		s = string(runes[:maxMessageLen])
	}
	return s
}
