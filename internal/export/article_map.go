package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"coderdist/internal/assign"
	"coderdist/internal/fileutil"
	"coderdist/internal/services"
)

// ErrInvalidMap reports an article map that cannot be trusted as a join key.
var ErrInvalidMap = errors.New("invalid article map")

// Entry is one assignment in the article map.
type Entry struct {
	ID     int    `json:"id"`
	Coder  int    `json:"coder"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

// Entries converts assignment records to map entries sorted by ID.
func Entries(records []assign.Record) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, Entry{
			ID:     record.ID,
			Coder:  record.Coder,
			Title:  record.Title,
			Source: record.Source,
		})
	}
	sortByID(entries)
	return entries
}

// WriteArticleMap writes entries to path as a JSON array sorted by ID.
func WriteArticleMap(path string, entries []Entry) error {
	sorted := append([]Entry(nil), entries...)
	sortByID(sorted)
	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return fmt.Errorf("encode article map: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write article map %s: %w", path, err)
	}
	return nil
}

// LoadArticleMap reads an article map written by WriteArticleMap. Unknown
// fields, duplicate IDs and entries missing a coder or title are rejected.
func LoadArticleMap(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "export", "load article map", path, err)
		}
		return nil, fmt.Errorf("read article map %s: %w", path, err)
	}
	entries, err := DecodeArticleMap(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// DecodeArticleMap parses and validates an article map from r.
func DecodeArticleMap(r io.Reader) ([]Entry, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	var entries []Entry
	if err := decoder.Decode(&entries); err != nil {
		return nil, services.Wrap(services.ErrValidation, "export", "decode article map", err.Error(), ErrInvalidMap)
	}
	seen := make(map[int]struct{}, len(entries))
	for i, entry := range entries {
		var problem string
		switch {
		case entry.ID < 1:
			problem = fmt.Sprintf("entry %d has id %d", i, entry.ID)
		case entry.Coder < 1:
			problem = fmt.Sprintf("id %d has coder %d", entry.ID, entry.Coder)
		case strings.TrimSpace(entry.Title) == "":
			problem = fmt.Sprintf("id %d has no title", entry.ID)
		}
		if problem == "" {
			if _, dup := seen[entry.ID]; dup {
				problem = fmt.Sprintf("id %d appears more than once", entry.ID)
			}
		}
		if problem != "" {
			return nil, services.Wrap(services.ErrValidation, "export", "validate article map", problem, ErrInvalidMap)
		}
		seen[entry.ID] = struct{}{}
	}
	sortByID(entries)
	return entries, nil
}

// ByID indexes entries by assignment ID.
func ByID(entries []Entry) map[int]Entry {
	index := make(map[int]Entry, len(entries))
	for _, entry := range entries {
		index[entry.ID] = entry
	}
	return index
}

// ByTitle groups entries by article title, each group in ID order.
func ByTitle(entries []Entry) map[string][]Entry {
	index := make(map[string][]Entry)
	for _, entry := range entries {
		index[entry.Title] = append(index[entry.Title], entry)
	}
	for _, group := range index {
		sortByID(group)
	}
	return index
}

func sortByID(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
}
