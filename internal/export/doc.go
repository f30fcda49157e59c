// Package export writes the artifacts that accompany a distribution run: the
// article map joining assignment IDs back to (coder, title, source), and the
// blank coding template coders fill in. It also reads an article map back for
// later progress and query stages.
package export
