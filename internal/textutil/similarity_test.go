package textutil

import (
	"math"
	"reflect"
	"testing"
)

func TestCosineSimilarityOfHeadlines(t *testing.T) {
	senate := NewFingerprint("Senate passes infrastructure bill")
	tests := []struct {
		name  string
		a, b  *Fingerprint
		check func(float64) bool
	}{
		{"nil sides", nil, senate, func(got float64) bool { return got == 0 }},
		{"same headline", senate, NewFingerprint("SENATE passes infrastructure bill!"), func(got float64) bool {
			return math.Abs(got-1) < 1e-9
		}},
		{"accent folded", NewFingerprint("Café owners protest rent"), NewFingerprint("Cafe owners protest rent"), func(got float64) bool {
			return math.Abs(got-1) < 1e-9
		}},
		{"shared words", senate, NewFingerprint("House rejects infrastructure bill"), func(got float64) bool {
			return got > 0 && got < 1
		}},
		{"nothing shared", senate, NewFingerprint("Local bakery wins award"), func(got float64) bool { return got == 0 }},
		{"empty fingerprint", &Fingerprint{counts: map[string]float64{}}, senate, func(got float64) bool { return got == 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); !tt.check(got) {
				t.Fatalf("CosineSimilarity() = %v", got)
			}
		})
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := NewFingerprint("Fed raises rates as inflation cools")
	b := NewFingerprint("Inflation cools, markets rally")
	if ab, ba := CosineSimilarity(a, b), CosineSimilarity(b, a); ab != ba {
		t.Fatalf("CosineSimilarity not symmetric: %v vs %v", ab, ba)
	}
}

func TestNewFingerprintSkipsFiller(t *testing.T) {
	if fp := NewFingerprint("Is it on? The"); fp != nil {
		t.Fatalf("expected nil fingerprint for filler-only headline, got %#v", fp)
	}

	fp := NewFingerprint("Strike, strike and the union votes")
	if fp == nil {
		t.Fatal("expected fingerprint")
	}
	want := map[string]float64{"strike": 2, "union": 1, "votes": 1}
	if !reflect.DeepEqual(fp.counts, want) {
		t.Fatalf("counts = %v, want %v", fp.counts, want)
	}
	if math.Abs(fp.length-math.Sqrt(6)) > 1e-9 {
		t.Fatalf("length = %v, want sqrt(6)", fp.length)
	}
}

func TestHeadlineWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"punctuation", "Markets slide; oil jumps 5%", []string{"markets", "slide", "oil", "jumps"}},
		{"digits kept", "G20 summit opens in 2024", []string{"g20", "summit", "opens", "2024"}},
		{"romanized", "Путин meets Biden", []string{"putin", "meets", "biden"}},
		{"filler only", "and the for", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := headlineWords(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("headlineWords(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("headlineWords(%q) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}

func TestClosestSuggestsNearestTitle(t *testing.T) {
	titles := []string{
		"Senate passes infrastructure bill after long debate",
		"Local bakery wins national award",
		"Infrastructure bill stalls in the House",
	}

	got, score := Closest("Senate passes the infrastructure bill", titles)
	if got != titles[0] {
		t.Fatalf("Closest() = %q, want %q", got, titles[0])
	}
	if score <= 0.5 || score > 1 {
		t.Fatalf("Closest() score = %v, want in (0.5, 1]", score)
	}

	if got, score := Closest("zz", titles); got != "" || score != 0 {
		t.Fatalf("Closest(short) = %q, %v, want empty", got, score)
	}
	if got, _ := Closest("weather report", titles); got != "" {
		t.Fatalf("Closest(unrelated) = %q, want empty", got)
	}
}
