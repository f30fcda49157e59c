package textutil

import (
	"math"
	"strings"
)

// headlineFiller lists words too common in headlines to tell two apart.
var headlineFiller = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "into": {},
	"over": {}, "after": {}, "its": {}, "are": {}, "was": {}, "has": {},
	"have": {}, "will": {}, "says": {},
}

// Fingerprint is a bag of headline words with its Euclidean length.
type Fingerprint struct {
	counts map[string]float64
	length float64
}

// NewFingerprint counts the matching words of text. It returns nil when text
// has none.
func NewFingerprint(text string) *Fingerprint {
	words := headlineWords(text)
	if len(words) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(words))
	for _, word := range words {
		counts[word]++
	}
	var sum float64
	for _, count := range counts {
		sum += count * count
	}
	return &Fingerprint{counts: counts, length: math.Sqrt(sum)}
}

// headlineWords folds text to lower-case ASCII and splits it on anything that
// is not a letter or digit. Words shorter than three characters and headline
// filler are skipped.
func headlineWords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(ASCII(text)), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	words := fields[:0]
	for _, field := range fields {
		if len(field) < 3 {
			continue
		}
		if _, filler := headlineFiller[field]; filler {
			continue
		}
		words = append(words, field)
	}
	return words
}
