package postgresdb

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	dangerousChars    = regexp.MustCompile(`[;'"\\()]`)
	identifierPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)?$`)
	likeEscaper       = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

// EscapeLike escapes LIKE wildcards so s matches literally. The default
// escape character is a backslash.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ContainsPattern wraps s for a substring LIKE/ILIKE match.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// QuoteIdentifier validates a column or table.column name and returns it
// double quoted. Anything else is rejected, so callers may splice the result
// into SQL.
func QuoteIdentifier(name string) (string, error) {
	if dangerousChars.MatchString(name) {
		return "", fmt.Errorf("identifier contains dangerous characters: %s", name)
	}
	if !identifierPattern.MatchString(name) {
		return "", fmt.Errorf("invalid identifier format: %s", name)
	}

	segments := strings.Split(name, ".")
	for i, segment := range segments {
		segments[i] = `"` + segment + `"`
	}
	return strings.Join(segments, "."), nil
}
