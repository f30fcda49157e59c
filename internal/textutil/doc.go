// Package textutil provides text processing utilities for transliteration,
// similarity, and filename sanitization.
//
// The primary use cases are:
//   - Folding article text to plain ASCII before it reaches the typesetter
//   - Suggesting the closest corpus title for an allow-list entry that does not match
//   - Sanitizing filenames and path segments for safe filesystem use
//
// Fingerprints use term frequency vectors. The tokenization process lowercases
// text, splits on non-alphanumeric characters, and filters tokens shorter than
// 3 characters.
package textutil
