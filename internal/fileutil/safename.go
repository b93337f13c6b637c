package fileutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const maxSafeNameLength = 150

// SafeName returns a filesystem-safe representation of input, suitable for use
// as a single path segment. Characters that are reserved on common filesystems
// are replaced with underscores, leading/trailing dots and spaces are trimmed,
// and the result is capped at maxLength runes. Empty results become "untitled".
func SafeName(input string, maxLength int) string {
	if maxLength <= 0 || maxLength > maxSafeNameLength {
		maxLength = maxSafeNameLength
	}

	normalized := norm.NFKC.String(strings.TrimSpace(input))
	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		switch r {
		case '\\', '/', '*', '?', ':', '"', '<', '>', '|':
			b.WriteRune('_')
		default:
			if r < 0x20 {
				b.WriteRune('_')
				continue
			}
			b.WriteRune(r)
		}
	}

	sanitized := strings.Trim(b.String(), ". ")
	sanitized = strings.TrimSpace(sanitized)
	runes := []rune(sanitized)
	if len(runes) > maxLength {
		sanitized = strings.TrimSpace(string(runes[:maxLength]))
		sanitized = strings.Trim(sanitized, ". ")
	}
	if sanitized == "" {
		return "untitled"
	}
	return sanitized
}
