package typeset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"coderdist/internal/assign"
	"coderdist/internal/services"
	"coderdist/internal/source"
	"coderdist/internal/textutil"
)

// ErrEmptyArticle reports an article without a title or a body.
var ErrEmptyArticle = errors.New("empty article")

const (
	preamble = "\\documentclass[a4paper,10pt]{article}\n" +
		"\\usepackage[top=1in, bottom=1in, left=1in, right=1in, footskip = 1.0cm]{geometry}\n"
	pageBreak = "\n\\newpage\n"
)

// Entry is one section of a document.
type Entry struct {
	ID     int
	Title  string
	Body   string
	Source string
}

// EntriesFromRecords converts assignment records into document entries,
// preserving their order.
func EntriesFromRecords(records []assign.Record) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entry := Entry{ID: record.ID, Title: record.Title, Source: record.Source}
		if record.Article != nil {
			entry.Body = record.Article.Body
		}
		entries = append(entries, entry)
	}
	return entries
}

// Validate rejects entries with an empty title or body.
func Validate(entries []Entry) error {
	if len(entries) == 0 {
		return services.Wrap(services.ErrCorpusIntegrity, "typeset", "validate", "document has no articles", ErrEmptyArticle)
	}
	for _, entry := range entries {
		if strings.TrimSpace(entry.Title) != "" && strings.TrimSpace(entry.Body) != "" {
			continue
		}
		missing := "body"
		if strings.TrimSpace(entry.Title) == "" {
			missing = "title"
		}
		msg := fmt.Sprintf("article %d from %q has an empty %s (title %q)", entry.ID, entry.Source, missing, entry.Title)
		return services.Wrap(services.ErrCorpusIntegrity, "typeset", "validate", msg, ErrEmptyArticle)
	}
	return nil
}

// BuildCoderDocument renders the source of a coder's document. Sections are
// numbered from the first entry's ID, so entries must be in ID order.
func BuildCoderDocument(title string, entries []Entry) (string, error) {
	if err := Validate(entries); err != nil {
		return "", err
	}
	sections := make([]string, 0, len(entries))
	for _, entry := range entries {
		sections = append(sections, fmt.Sprintf("\\section{``%s''}\n%s", Escape(entry.Title), Escape(entry.Body)))
	}

	var b strings.Builder
	b.WriteString(preamble)
	fmt.Fprintf(&b, "\\title{%s}\n", Escape(title))
	b.WriteString("\\author{}\n")
	fmt.Fprintf(&b, "\\setcounter{section}{%d}\n", entries[0].ID-1)
	b.WriteString("\\begin{document}\n\\maketitle\n")
	b.WriteString(strings.Join(sections, pageBreak))
	b.WriteString("\n\\end{document}\n")
	return asciiOnly(b.String()), nil
}

// BuildQueryDocument renders the source of a query result document with one
// unnumbered section per entry.
func BuildQueryDocument(field, term string, entries []Entry) (string, error) {
	if err := Validate(entries); err != nil {
		return "", err
	}
	sections := make([]string, 0, len(entries))
	for _, entry := range entries {
		sections = append(sections, fmt.Sprintf("\\section*{``%s''---%s---%s}\n%s",
			Escape(entry.Title), Escape(entry.Source), source.Classify(entry.Source), Escape(entry.Body)))
	}

	var b strings.Builder
	b.WriteString(preamble)
	fmt.Fprintf(&b, "\\title{Articles with ``%s'' in %s}\n", Escape(term), Escape(field))
	b.WriteString("\\author{}\n")
	b.WriteString("\\begin{document}\n\\maketitle\n")
	b.WriteString(strings.Join(sections, pageBreak))
	b.WriteString("\n\\end{document}\n")
	return asciiOnly(b.String()), nil
}

// CoderTitle substitutes coder for the first %d in pattern. Any other percent
// sign is kept as written.
func CoderTitle(pattern string, coder int) string {
	return strings.Replace(pattern, "%d", strconv.Itoa(coder), 1)
}

// CoderFileName is the output file name for coder's document.
func CoderFileName(coder int, ext string) string {
	return fmt.Sprintf("coder_%d%s", coder, ext)
}

// QueryFileName is the output file name for a field/term query document.
func QueryFileName(field, term, ext string) string {
	return textutil.SanitizeFileName(fmt.Sprintf("%s_%s_articles", field, term)) + ext
}
