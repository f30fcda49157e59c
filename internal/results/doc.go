// Package results reads filled-in coding spreadsheets and joins them with the
// article map of a distribution run. Progress reports how much of the run has
// been coded; Query selects the articles whose coded answers mention a term.
package results
