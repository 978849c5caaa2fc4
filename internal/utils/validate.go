package utils

import (
	"regexp"
	"strings"
)

// emailRx matches standard addresses of the form local@domain.tld.
var emailRx = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// NormalizeEmail lowercases and trims an email address so uniqueness and
// lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the (already normalized) address matches the
// standard pattern.
func ValidEmail(email string) bool {
	return emailRx.MatchString(email)
}
