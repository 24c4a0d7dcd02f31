// Package validation holds small input normalisation helpers shared by the
// bridges and repositories.
package validation

import (
	"net/mail"
	"strings"
)

// IsEmail reports whether s is a bare address (no display name).
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// TrimPtr trims the pointed-to string, leaving nil alone.
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
