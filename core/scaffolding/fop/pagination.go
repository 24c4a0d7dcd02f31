// Package fop holds filter, order and pagination primitives shared by the
// repositories.
package fop

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageOffset is a 1-based page of at most Limit rows.
type PageOffset struct {
	Page  int
	Limit int
}

// ParsePageOffset coerces raw query values into a valid page. Values that do
// not parse take the defaults; out of range values are clamped. It never
// fails.
func ParsePageOffset(page, limit string) PageOffset {
	p := parseIntOr(page, DefaultPage)
	if p < 1 {
		p = 1
	}

	l := parseIntOr(limit, DefaultLimit)
	switch {
	case l < 1:
		l = 1
	case l > MaxLimit:
		l = MaxLimit
	}

	return PageOffset{Page: p, Limit: l}
}

// Offset is the number of rows skipped before this page.
func (p PageOffset) Offset() int {
	return (p.Page - 1) * p.Limit
}

// parseIntOr reads a leading integer the way lenient query parsers do, so
// "3abc" is 3 and "abc" is the fallback.
func parseIntOr(s string, fallback int) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return fallback
	}
	return n
}
