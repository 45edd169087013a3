// Package randid generates short human-readable codes.
package randid

import (
	"math/rand/v2"
	"strings"
)

// alphabet leaves out characters that are easy to misread (0/O, 1/I/L).
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Generate returns a random code of the given length drawn from alphabet.
func Generate(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}

// Grouped returns a code of groups*size characters split by dashes, such as
// "K7QX-93MP".
func Grouped(groups, size int) string {
	parts := make([]string, groups)
	for i := range parts {
		parts[i] = Generate(size)
	}
	return strings.Join(parts, "-")
}

// Valid reports whether code only uses characters Generate can produce.
func Valid(code string) bool {
	for _, r := range strings.ReplaceAll(code, "-", "") {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return code != ""
}
