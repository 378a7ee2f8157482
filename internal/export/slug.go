package export

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowercase = cases.Lower(language.Und)

// Slug derives a filesystem- and anchor-friendly handle from a display
// name: Unicode-aware lowercasing, spaces collapsed to single dashes,
// anything else but letters, digits, and dashes dropped.
func Slug(name string) string {
	name = lowercase.String(strings.TrimSpace(name))

	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range name {
		switch {
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		case isAlnum(r):
			b.WriteRune(r)
			lastDash = false
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 127
}
