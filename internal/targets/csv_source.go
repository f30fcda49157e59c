package targets

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"coderdist/internal/services"
)

// ErrExhausted is returned by Next once a source has no more targets.
var ErrExhausted = errors.New("source exhausted")

// Column names of scraper spreadsheets and old exports.
const (
	ColumnTitles    = "Titles"
	ColumnAddresses = "Addresses"
	ColumnTags      = "Tags"
	ColumnBody      = "Body"
)

// CSVSource reads targets from a spreadsheet with Titles, Addresses and Tags
// columns and an optional Body column. The Tags cell becomes the single tag.
type CSVSource struct {
	reader *csv.Reader
	closer io.Closer
	index  map[string]int
	next   []string
	err    error
}

// OpenCSV opens the spreadsheet at path. The returned source closes the file
// once it is drained.
func OpenCSV(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "targets", "open", path, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	src, err := newCSVSource(f, f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// NewCSVSource reads the header from r and prepares to yield its rows.
func NewCSVSource(r io.Reader) (*CSVSource, error) {
	return newCSVSource(r, nil)
}

func newCSVSource(r io.Reader, closer io.Closer) (*CSVSource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, services.Wrap(services.ErrCorpusIntegrity, "targets", "read header", "", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{ColumnTitles, ColumnAddresses, ColumnTags} {
		if _, ok := index[required]; !ok {
			return nil, services.Wrap(services.ErrCorpusIntegrity, "targets", "read header",
				fmt.Sprintf("missing column %q", required), nil)
		}
	}
	src := &CSVSource{reader: reader, closer: closer, index: index}
	src.advance()
	return src, nil
}

func (s *CSVSource) advance() {
	if s.next != nil || s.err != nil {
		return
	}
	record, err := s.reader.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		s.next = nil
		if s.closer != nil {
			_ = s.closer.Close()
			s.closer = nil
		}
		return
	}
	s.next = record
}

func (s *CSVSource) HasNext() bool {
	return s.next != nil || s.err != nil
}

func (s *CSVSource) Next(ctx context.Context) (Target, error) {
	if err := ctx.Err(); err != nil {
		return Target{}, err
	}
	if s.err != nil {
		err := s.err
		s.err = nil
		return Target{}, services.Wrap(services.ErrCorpusIntegrity, "targets", "read row", "", err)
	}
	if s.next == nil {
		return Target{}, ErrExhausted
	}
	record := s.next
	s.next = nil
	s.advance()

	target := Target{
		Title: s.cell(record, ColumnTitles),
		Link:  s.cell(record, ColumnAddresses),
		Body:  s.cell(record, ColumnBody),
	}
	if tag := s.cell(record, ColumnTags); tag != "" {
		target.Tags = []string{tag}
	}
	return target, nil
}

// Close releases the underlying file if the source was not drained.
func (s *CSVSource) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

func (s *CSVSource) cell(record []string, column string) string {
	idx, ok := s.index[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
