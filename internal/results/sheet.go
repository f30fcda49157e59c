package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"coderdist/internal/logging"
	"coderdist/internal/services"
)

// ErrMissingColumn reports a spreadsheet without a required column.
var ErrMissingColumn = errors.New("missing column")

// Row is one coded assignment keyed by spreadsheet header.
type Row struct {
	ID     int
	Line   int
	Values map[string]string
}

// Value returns the trimmed cell under header.
func (r Row) Value(header string) string {
	return strings.TrimSpace(r.Values[header])
}

// Sheet is a parsed coding results spreadsheet.
type Sheet struct {
	Header []string
	Rows   []Row
}

// HasColumn reports whether header is present.
func (s *Sheet) HasColumn(header string) bool {
	for _, h := range s.Header {
		if h == header {
			return true
		}
	}
	return false
}

// Index maps assignment IDs to rows. When an ID appears more than once the
// last row wins, matching a resubmitted answer replacing the earlier one.
func (s *Sheet) Index() map[int]Row {
	index := make(map[int]Row, len(s.Rows))
	for _, row := range s.Rows {
		index[row.ID] = row
	}
	return index
}

// Coded returns the sorted unique IDs of rows with any of columns filled in.
// At least one of columns must exist in the sheet.
func (s *Sheet) Coded(columns []string) ([]int, error) {
	present := make([]string, 0, len(columns))
	for _, column := range columns {
		if s.HasColumn(column) {
			present = append(present, column)
		}
	}
	if len(present) == 0 {
		return nil, services.Wrap(services.ErrValidation, "results", "coded columns",
			fmt.Sprintf("none of %s present", strings.Join(columns, ", ")), ErrMissingColumn)
	}
	seen := make(map[int]struct{})
	var ids []int
	for _, row := range s.Rows {
		if _, dup := seen[row.ID]; dup {
			continue
		}
		for _, column := range present {
			if row.Value(column) != "" {
				seen[row.ID] = struct{}{}
				ids = append(ids, row.ID)
				break
			}
		}
	}
	sort.Ints(ids)
	return ids, nil
}

// ReadSheet parses the spreadsheet at path. Rows with an empty ID cell are
// skipped; a non-numeric ID is an error naming the line.
func ReadSheet(path, idColumn string, logger *slog.Logger) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "results", "open", path, err)
		}
		return nil, fmt.Errorf("open results %s: %w", path, err)
	}
	defer f.Close()
	sheet, err := DecodeSheet(f, idColumn, logging.NewComponentLogger(logger, "results"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sheet, nil
}

// DecodeSheet parses a results spreadsheet from r.
func DecodeSheet(r io.Reader, idColumn string, logger *slog.Logger) (*Sheet, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, services.Wrap(services.ErrValidation, "results", "read header", "spreadsheet is empty", ErrMissingColumn)
		}
		return nil, services.Wrap(services.ErrValidation, "results", "read header", "", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	sheet := &Sheet{Header: header}
	idIdx := -1
	for i, h := range header {
		if h == idColumn {
			idIdx = i
			break
		}
	}
	if idIdx < 0 {
		return nil, services.Wrap(services.ErrValidation, "results", "read header",
			fmt.Sprintf("id column %q not found", idColumn), ErrMissingColumn)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "results", "read row", "", err)
		}
		line, _ := reader.FieldPos(0)
		if idIdx >= len(record) || strings.TrimSpace(record[idIdx]) == "" {
			logger.Debug("skipping row without id", logging.Int("line", line))
			continue
		}
		id, convErr := strconv.Atoi(strings.TrimSpace(record[idIdx]))
		if convErr != nil {
			return nil, services.Wrap(services.ErrValidation, "results", "read row",
				fmt.Sprintf("line %d: %s %q is not a number", line, idColumn, record[idIdx]), convErr)
		}
		values := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(record) {
				values[h] = record[i]
			}
		}
		sheet.Rows = append(sheet.Rows, Row{ID: id, Line: line, Values: values})
	}
	return sheet, nil
}
