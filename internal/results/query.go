package results

import (
	"fmt"
	"sort"
	"strings"

	"coderdist/internal/corpus"
	"coderdist/internal/export"
	"coderdist/internal/services"
)

// ResolveField maps a short field name to its spreadsheet header. A name that
// is already a header of sheet resolves to itself.
func ResolveField(fields map[string]string, sheet *Sheet, name string) (string, error) {
	name = strings.TrimSpace(name)
	if header, ok := fields[strings.ToLower(name)]; ok {
		if sheet != nil && !sheet.HasColumn(header) {
			return "", services.Wrap(services.ErrValidation, "results", "resolve field",
				fmt.Sprintf("field %q maps to %q which is not in the spreadsheet", name, header), ErrMissingColumn)
		}
		return header, nil
	}
	if sheet != nil && sheet.HasColumn(name) {
		return name, nil
	}
	known := make([]string, 0, len(fields))
	for key := range fields {
		known = append(known, key)
	}
	sort.Strings(known)
	return "", services.Wrap(services.ErrValidation, "results", "resolve field",
		fmt.Sprintf("unknown field %q (known: %s)", name, strings.Join(known, ", ")), ErrMissingColumn)
}

// HasTerm reports whether any of ids has a coded answer under header that
// equals or contains term.
func HasTerm(ids []int, index map[int]Row, header, term string) bool {
	for _, id := range ids {
		row, ok := index[id]
		if !ok {
			continue
		}
		value := row.Values[header]
		if value == term || strings.Contains(value, term) {
			return true
		}
	}
	return false
}

// Query returns copies of the corpus articles whose assignments, found in the
// article map by source and title, have a coded answer under header matching term. The
// copies carry their assignment IDs and coders; corpus order is preserved.
func Query(articles []*corpus.Article, entries []export.Entry, sheet *Sheet, header, term string) []*corpus.Article {
	byTitle := export.ByTitle(entries)
	index := sheet.Index()
	var matches []*corpus.Article
	for _, article := range articles {
		var group []export.Entry
		for _, entry := range byTitle[article.Title] {
			if entry.Source == article.Source {
				group = append(group, entry)
			}
		}
		if len(group) == 0 {
			continue
		}
		ids := make([]int, 0, len(group))
		for _, entry := range group {
			ids = append(ids, entry.ID)
		}
		if !HasTerm(ids, index, header, term) {
			continue
		}
		match := &corpus.Article{Source: article.Source, Title: article.Title, Body: article.Body}
		for _, entry := range group {
			match.Assign(entry.ID, entry.Coder)
		}
		matches = append(matches, match)
	}
	return matches
}
