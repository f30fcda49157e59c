package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiReplacements covers letters and punctuation that survive compatibility
// decomposition but have a conventional ASCII spelling.
var asciiReplacements = map[rune]string{
	'‘': "'", '’': "'", '‚': "'", '‛': "'", '′': "'",
	'“': `"`, '”': `"`, '„': `"`, '‟': `"`, '″': `"`,
	'«': "<<", '»': ">>", '‹': "<", '›': ">",
	'‐': "-", '‑': "-", '‒': "-", '–': "-", '—': "-", '―': "-", '−': "-",
	'•': "*", '·': ".", '§': "S", '¶': "P",
	'ß': "ss", 'æ': "ae", 'Æ': "AE", 'œ': "oe", 'Œ': "OE",
	'ø': "o", 'Ø': "O", 'đ': "d", 'Đ': "D", 'ł': "l", 'Ł': "L",
	'þ': "th", 'Þ': "Th", 'ð': "d", 'Ð': "D", 'ı': "i",
	'€': "EUR", '£': "GBP", '¥': "JPY", '¢': "c",
	'©': "(c)", '®': "(r)", '°': "deg", '×': "x", '÷': "/",
	'¿': "?", '¡': "!",
}

var stripMarks = runes.Remove(runes.In(unicode.Mn))

// ASCII transliterates text to plain ASCII. Accented letters lose their marks,
// typographic punctuation becomes its ASCII equivalent, letters from other
// scripts are romanized, symbols are dropped, and control characters other
// than tab and newlines are removed. Ideographs romanize to one syllable each,
// separated by single spaces.
func ASCII(text string) string {
	if text == "" {
		return ""
	}
	folded := text
	if !isASCII(text) {
		out, _, err := transform.String(transform.Chain(norm.NFKD, stripMarks), text)
		if err == nil {
			folded = out
		}
	}

	var b strings.Builder
	b.Grow(len(folded))
	afterIdeograph := false
	for _, r := range folded {
		ideograph := false
		switch {
		case r < utf8.RuneSelf:
			if r == '\t' || r == '\n' || r == '\r' || (r >= ' ' && r != 0x7f) {
				b.WriteRune(r)
			}
		case asciiReplacements[r] != "":
			b.WriteString(asciiReplacements[r])
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			roman := romanize(r)
			if roman == "" {
				break
			}
			ideograph = unicode.Is(unicode.Han, r)
			if ideograph && afterIdeograph {
				b.WriteByte(' ')
			}
			b.WriteString(roman)
		}
		afterIdeograph = ideograph
	}
	return b.String()
}

// romanize returns the printable ASCII spelling of a single letter, or "" when
// none is known.
func romanize(r rune) string {
	roman := strings.TrimSpace(unidecode.Unidecode(string(r)))
	if roman == "[?]" || !isASCII(roman) {
		return ""
	}
	return strings.Map(func(c rune) rune {
		if c < ' ' || c == 0x7f {
			return -1
		}
		return c
	}, roman)
}

func isASCII(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
