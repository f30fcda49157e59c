package typeset

import "strings"

// Escape prefixes each character TeX treats as markup with a backslash. The
// input is scanned once, so a backslash already present is never doubled.
func Escape(text string) string {
	if !strings.ContainsAny(text, "%$&#@_") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	for _, r := range text {
		switch r {
		case '%', '$', '&', '#', '@', '_':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// asciiOnly drops any byte the engine's input encoding cannot carry.
func asciiOnly(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] >= 0x80 {
			return strings.Map(func(r rune) rune {
				if r >= 0x80 {
					return -1
				}
				return r
			}, text)
		}
	}
	return text
}
