package textutil

import (
	"strings"
	"unicode"
)

// SanitizeFileName turns a label into a portable file name. The label is
// folded to ASCII, path separators and colons become dashes, characters
// reserved on common filesystems are dropped, and whitespace runs collapse to
// a single space. Trailing dots are removed.
func SanitizeFileName(name string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range ASCII(name) {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
			continue
		case r < ' ' || strings.ContainsRune(`?"<>|`, r):
			continue
		case strings.ContainsRune(`/\:*`, r):
			r = '-'
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), ".")
}
