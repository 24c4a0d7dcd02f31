// Package cryptids generates short random identifiers used to tag requests.
package cryptids

import (
	"crypto/rand"
	"fmt"
)

const (
	Alphabet = "bcdfghjklmnpqrstvwxyzBCDFGHJKLMNPQRSTVWXYZ0123456789"
	Length   = 18
)

// New returns a random id of Length characters drawn from Alphabet.
func New() (string, error) {
	return Generate(Alphabet, Length)
}

// Generate draws size characters uniformly from alphabet. Random bytes at or
// above the largest multiple of len(alphabet) are discarded.
func Generate(alphabet string, size int) (string, error) {
	n := len(alphabet)
	if n < 2 || n > 256 {
		return "", fmt.Errorf("alphabet must hold 2 to 256 characters, got %d", n)
	}
	if size < 1 {
		return "", fmt.Errorf("size must be at least 1")
	}

	limit := 256 - 256%n
	out := make([]byte, 0, size)
	buf := make([]byte, size*2)
	for len(out) < size {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%n])
			if len(out) == size {
				break
			}
		}
	}
	return string(out), nil
}
