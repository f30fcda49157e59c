// Package corpus loads per-source article files into memory.
//
// Each CSV file in the corpus directory holds the articles of one source; the
// source name comes from the file name through source.Normalizer. All text is
// folded to ASCII on load. An optional title allow-list narrows the corpus to
// the articles selected for manual coding.
package corpus
