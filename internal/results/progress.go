package results

import (
	"fmt"
	"sort"
	"strings"

	"coderdist/internal/export"
	"coderdist/internal/services"
)

// SourceProgress counts unique articles of one source.
type SourceProgress struct {
	Source string `json:"source"`
	Coded  int    `json:"coded"`
	Total  int    `json:"total"`
}

// Report summarises coding progress for a run.
type Report struct {
	Assignments      int              `json:"assignments"`
	CodedAssignments int              `json:"coded_assignments"`
	Articles         int              `json:"articles"`
	CodedArticles    int              `json:"coded_articles"`
	Sources          []SourceProgress `json:"sources"`
}

type articleKey struct {
	source string
	title  string
}

// Progress joins coded IDs with the article map. An article counts as coded
// once any one of its assignments is coded. Coded IDs absent from the map are
// an error.
func Progress(entries []export.Entry, codedIDs []int) (*Report, error) {
	byID := export.ByID(entries)
	var unknown []string
	codedArticles := make(map[articleKey]struct{})
	codedAssignments := 0
	seen := make(map[int]struct{}, len(codedIDs))
	for _, id := range codedIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		entry, ok := byID[id]
		if !ok {
			unknown = append(unknown, fmt.Sprint(id))
			continue
		}
		codedAssignments++
		codedArticles[articleKey{source: entry.Source, title: entry.Title}] = struct{}{}
	}
	if len(unknown) > 0 {
		return nil, services.Wrap(services.ErrValidation, "results", "progress",
			fmt.Sprintf("coded ids not in article map: %s", strings.Join(unknown, ", ")), nil)
	}

	articles := make(map[articleKey]struct{})
	totals := make(map[string]int)
	coded := make(map[string]int)
	for _, entry := range entries {
		key := articleKey{source: entry.Source, title: entry.Title}
		if _, counted := articles[key]; counted {
			continue
		}
		articles[key] = struct{}{}
		totals[entry.Source]++
		if _, ok := codedArticles[key]; ok {
			coded[entry.Source]++
		}
	}

	report := &Report{
		Assignments:      len(entries),
		CodedAssignments: codedAssignments,
		Articles:         len(articles),
		CodedArticles:    len(codedArticles),
	}
	for source, total := range totals {
		report.Sources = append(report.Sources, SourceProgress{Source: source, Coded: coded[source], Total: total})
	}
	sort.Slice(report.Sources, func(i, j int) bool { return report.Sources[i].Source < report.Sources[j].Source })
	return report, nil
}
