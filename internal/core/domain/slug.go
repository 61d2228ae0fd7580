package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify converts a wallet name into its URL form. Unicode letters are kept:
// the name is NFKC-normalized and lowercased, characters other than letters,
// digits, underscores, spaces and hyphens are dropped, runs of spaces and
// hyphens become a single hyphen, and leading or trailing hyphens and
// underscores are trimmed.
func Slugify(name string) string {
	s := strings.ToLower(norm.NFKC.String(name))

	var b strings.Builder
	b.Grow(len(s))
	pendingDash := false
	for _, r := range s {
		switch {
		case r == '-' || unicode.IsSpace(r):
			pendingDash = true
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_")
}
