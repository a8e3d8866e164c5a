package highlight

import (
	"strings"
	"unicode"
)

// MinWordLength is the shortest word (in bytes) that counts as significant
// for the all-words fallback. Shorter words ("at", "of", "5") are ignored.
const MinWordLength = 3

// Normalize converts raw text into the form used for every comparison made
// by the matcher. It lowercases, collapses whitespace runs to one space,
// drops everything that is not a word character, whitespace or a hyphen, and
// trims the result.
//
// Stripping happens after collapsing, so "a ! b" becomes "a  b" with two
// spaces. Both sides of a comparison go through this function, so the
// artefact is harmless and is kept as is.
func Normalize(raw string) string {
	lower := strings.ToLower(raw)

	var b strings.Builder
	b.Grow(len(lower))

	inSpace := false
	for _, r := range lower {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}

	collapsed := b.String()
	b.Reset()
	for _, r := range collapsed {
		if r == ' ' || r == '-' || isWordRune(r) {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}

// SignificantWords splits an already normalized string on single spaces and
// keeps the words long enough to be used by the all-words fallback.
func SignificantWords(normalized string) []string {
	var words []string
	for _, w := range strings.Split(normalized, " ") {
		if len(w) >= MinWordLength {
			words = append(words, w)
		}
	}
	return words
}

// isWordRune reports whether r is an ASCII word character ([A-Za-z0-9_]).
func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	}
	return r == '_'
}

// compact removes every space, so a word split across two tokens compares
// equal to the unsplit word.
func compact(normalized string) string {
	return strings.ReplaceAll(normalized, " ", "")
}
