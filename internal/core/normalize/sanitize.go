package normalize

import (
	"strings"
	"unicode/utf8"
)

// drop reports runes that never belong in a search value
// invalid UTF-8 decodes to RuneError, so those bytes go too
func drop(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20, r == 0x7F:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	}
	return r == utf8.RuneError
}

// Sanitize drops NUL, ASCII controls other than tab and line breaks, DEL, C1 controls
// and invalid UTF-8 bytes; s is returned unchanged when it is already clean
func Sanitize(s string) string {
	for _, r := range s {
		if drop(r) {
			return strings.Map(func(r rune) rune {
				if drop(r) {
					return -1
				}
				return r
			}, s)
		}
	}
	return s
}
