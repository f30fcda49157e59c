package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"coderdist/internal/fileutil"
)

// WriteCodingTemplate writes a CSV with one row per entry in ID order. When
// idColumn is set it leads the header and carries each row's assignment ID;
// every other column is left blank for the coder.
func WriteCodingTemplate(path, idColumn string, columns []string, entries []Entry) error {
	sorted := append([]Entry(nil), entries...)
	sortByID(sorted)

	header := make([]string, 0, len(columns)+1)
	if idColumn != "" {
		header = append(header, idColumn)
	}
	header = append(header, columns...)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write template header: %w", err)
	}
	for _, entry := range sorted {
		row := make([]string, len(header))
		if idColumn != "" {
			row[0] = strconv.Itoa(entry.ID)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write template row %d: %w", entry.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush coding template: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write coding template %s: %w", path, err)
	}
	return nil
}
