package targets

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"coderdist/internal/fileutil"
	"coderdist/internal/services"
	"coderdist/internal/source"
	"coderdist/internal/textutil"
)

const (
	// LegacyPrefix names the corpus files produced from old exports.
	LegacyPrefix = "Old Articles - "
	// MissingAuthor fills the author column when the export had none.
	MissingAuthor = "MISSING"
	// Untagged is the source assigned to targets without tags.
	Untagged = "Untagged"
)

// CorpusHeader is the column layout of corpus files written here.
var CorpusHeader = []string{"Title", "Link", "Body", "Date", "Notes", "Author"}

// CorpusRow is one line of a corpus file.
type CorpusRow struct {
	Title  string
	Link   string
	Body   string
	Date   string
	Notes  string
	Author string
}

func (r CorpusRow) record() []string {
	return []string{r.Title, r.Link, r.Body, r.Date, r.Notes, r.Author}
}

// Grouped holds corpus rows by source name.
type Grouped map[string][]CorpusRow

// Names returns the source names in sorted order.
func (g Grouped) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConvertLegacy groups targets by the source their primary tag maps to.
func ConvertLegacy(targets []Target, author string) Grouped {
	groups := make(Grouped)
	for _, target := range targets {
		name := Untagged
		if tag := target.PrimaryTag(); tag != "" {
			name = source.LegacyTag(tag)
		}
		groups[name] = append(groups[name], CorpusRow{
			Title:  target.Title,
			Link:   target.Link,
			Body:   target.Body,
			Author: author,
		})
	}
	return groups
}

// ImportCSV drains the old export at path and groups it by source.
func ImportCSV(ctx context.Context, path, author string) (Grouped, error) {
	src, err := OpenCSV(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	targets, err := Drain(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ConvertLegacy(targets, author), nil
}

// Merge appends the rows of other into g.
func (g Grouped) Merge(other Grouped) {
	for name, rows := range other {
		g[name] = append(g[name], rows...)
	}
}

// CorpusPath is the file WriteCorpus uses for source name.
func CorpusPath(dir, prefix, name string) string {
	return filepath.Join(dir, textutil.SanitizeFileName(prefix+name)+".csv")
}

// WriteCorpus writes one "<prefix><source>.csv" file per source into dir and
// returns the paths written in source order. Existing files are replaced.
func WriteCorpus(dir, prefix string, groups Grouped) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "targets", "create corpus dir", dir, err)
	}
	paths := make([]string, 0, len(groups))
	for _, name := range groups.Names() {
		path := CorpusPath(dir, prefix, name)
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(CorpusHeader); err != nil {
			return paths, err
		}
		for _, row := range groups[name] {
			if err := w.Write(row.record()); err != nil {
				return paths, err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return paths, fmt.Errorf("encode %s: %w", name, err)
		}
		if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
