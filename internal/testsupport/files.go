package testsupport

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Row is one article in a corpus fixture.
type Row struct {
	Title string
	Body  string
}

// WriteCorpusCSV writes a Title/Body CSV named "<source>.csv" into dir.
func WriteCorpusCSV(t testing.TB, dir, sourceName string, rows []Row) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", dir, err)
	}
	path := filepath.Join(dir, sourceName+".csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Title", "Link", "Body"}); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for i, row := range rows {
		if err := w.Write([]string{row.Title, fmt.Sprintf("https://example.com/%d", i), row.Body}); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush %s: %v", path, err)
	}
	return path
}

// Rows builds n distinct articles titled "<prefix> N".
func Rows(prefix string, n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{
			Title: fmt.Sprintf("%s %d", prefix, i+1),
			Body:  fmt.Sprintf("Body of %s article %d.", prefix, i+1),
		}
	}
	return rows
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
