package corpus_test

import (
	"path/filepath"
	"testing"

	"coderdist/internal/corpus"
	"coderdist/internal/testsupport"
)

func TestAllowListFilter(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "titles.txt")
	testsupport.WriteFile(t, listPath, "  Senate passes infrastructure bill \n\nLocal bakery wins award\nLocal bakery wins award\nSenate passes the infrastructure bill today\n")

	list, err := corpus.ReadAllowList(listPath)
	if err != nil {
		t.Fatalf("ReadAllowList failed: %v", err)
	}
	if list.Len() != 3 {
		t.Fatalf("expected 3 distinct titles, got %d", list.Len())
	}

	sources := corpus.Sources{
		"Reuters": {
			{Source: "Reuters", Title: "Senate passes infrastructure bill", Body: "a"},
			{Source: "Reuters", Title: "Weather turns cold", Body: "b"},
		},
		"Vox": {
			{Source: "Vox", Title: "Markets rally", Body: "c"},
		},
	}

	filtered, misses := list.Filter(sources)
	if filtered.Count() != 1 {
		t.Fatalf("expected 1 article kept, got %d", filtered.Count())
	}
	if _, ok := filtered["Vox"]; ok {
		t.Fatal("expected source without matches to be dropped")
	}
	if len(misses) != 2 {
		t.Fatalf("expected 2 misses, got %+v", misses)
	}
	if misses[0].Title != "Local bakery wins award" || misses[0].Suggestion != "" {
		t.Fatalf("unexpected first miss: %+v", misses[0])
	}
	if misses[1].Suggestion != "Senate passes infrastructure bill" {
		t.Fatalf("expected suggestion for near miss, got %+v", misses[1])
	}
}

func TestReadAllowListMissingFile(t *testing.T) {
	if _, err := corpus.ReadAllowList(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing allow-list")
	}
}
