// Package source maps raw per-source file identifiers to canonical
// publication names.
//
// A Normalizer applies the alias table, a Registry guards a single load
// against two inputs collapsing onto one canonical name, and the
// classification and legacy tag tables describe the publications the corpus
// is drawn from.
package source
