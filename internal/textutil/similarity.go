package textutil

// CosineSimilarity computes the cosine similarity between two fingerprints.
// It is 0 when either side is nil or empty.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.length == 0 || b.length == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.counts {
		if other, ok := b.counts[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.length * b.length)
}

// Closest returns the candidate most similar to target along with its score.
// Ties keep the earliest candidate. An empty string and 0 are returned when
// nothing shares a token with target.
func Closest(target string, candidates []string) (string, float64) {
	want := NewFingerprint(target)
	if want == nil {
		return "", 0
	}
	var best string
	var bestScore float64
	for _, candidate := range candidates {
		score := CosineSimilarity(want, NewFingerprint(candidate))
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best, bestScore
}
