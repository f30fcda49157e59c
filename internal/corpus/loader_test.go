package corpus_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"coderdist/internal/corpus"
	"coderdist/internal/services"
	"coderdist/internal/source"
	"coderdist/internal/testsupport"
)

func newLoader(t *testing.T) *corpus.Loader {
	t.Helper()
	normalizer, err := source.NewNormalizer(map[string]string{"WSJ": "Wall Street Journal"}, "")
	if err != nil {
		t.Fatalf("NewNormalizer failed: %v", err)
	}
	return corpus.NewLoader(corpus.Options{Normalizer: normalizer})
}

func TestLoadDirGroupsBySource(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteCorpusCSV(t, dir, "WSJ", testsupport.Rows("Markets", 3))
	testsupport.WriteCorpusCSV(t, dir, "Reuters", []testsupport.Row{
		{Title: "  Café opens  ", Body: "The “best” coffee — allegedly."},
	})
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	sources, err := newLoader(t).LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	names := sources.Names()
	if len(names) != 2 || names[0] != "Reuters" || names[1] != "Wall Street Journal" {
		t.Fatalf("unexpected sources: %v", names)
	}
	if sources.Count() != 4 {
		t.Fatalf("expected 4 articles, got %d", sources.Count())
	}

	reuters := sources["Reuters"][0]
	if reuters.Title != "Cafe opens" {
		t.Fatalf("expected folded, trimmed title, got %q", reuters.Title)
	}
	if reuters.Body != `The "best" coffee - allegedly.` {
		t.Fatalf("expected folded body, got %q", reuters.Body)
	}

	flat := sources.Flatten()
	if flat[0].Source != "Reuters" || flat[1].Title != "Markets 1" || flat[3].Title != "Markets 3" {
		t.Fatalf("unexpected flatten order: %v", flat)
	}
}

func TestLoadDirRomanizesNonLatinText(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteCorpusCSV(t, dir, "Коммерсант", []testsupport.Row{
		{Title: "Москва и Путин", Body: "Αθήνα 北京"},
	})

	sources, err := newLoader(t).LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	articles, ok := sources["Kommersant"]
	if !ok || len(articles) != 1 {
		t.Fatalf("expected romanized source name, got %v", sources.Names())
	}
	article := articles[0]
	if article.Source != "Kommersant" {
		t.Fatalf("article source = %q", article.Source)
	}
	if article.Title != "Moskva i Putin" {
		t.Fatalf("title = %q, want romanized title", article.Title)
	}
	if article.Body != "Athena Bei Jing" {
		t.Fatalf("body = %q, want romanized body", article.Body)
	}
	if !article.Complete() {
		t.Fatal("expected romanized article to be complete")
	}
}

func TestLoadDirRejectsAmbiguousSources(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteCorpusCSV(t, dir, "WSJ", testsupport.Rows("A", 1))
	testsupport.WriteCorpusCSV(t, dir, "Wall Street Journal", testsupport.Rows("B", 1))

	_, err := newLoader(t).LoadDir(context.Background(), dir)
	if !errors.Is(err, source.ErrAmbiguousSource) {
		t.Fatalf("expected ErrAmbiguousSource, got %v", err)
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
}

func TestLoadDirMissingColumn(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "Vox.csv"), "Headline,Body\nA,B\n")

	_, err := newLoader(t).LoadDir(context.Background(), dir)
	if !errors.Is(err, corpus.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if !errors.Is(err, services.ErrCorpusIntegrity) {
		t.Fatalf("expected corpus integrity marker, got %v", err)
	}
}

func TestLoadDirMissingDirectoryAndEmptyMatch(t *testing.T) {
	loader := newLoader(t)
	if _, err := loader.LoadDir(context.Background(), filepath.Join(t.TempDir(), "none")); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for missing dir, got %v", err)
	}
	if _, err := loader.LoadDir(context.Background(), t.TempDir()); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for empty dir, got %v", err)
	}
}

func TestLoadDirKeepsIncompleteRows(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "Vox.csv"), "\ufeffTitle,Body\nHas title,\n,Has body\nShort\n")

	sources, err := newLoader(t).LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	articles := sources["Vox"]
	if len(articles) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(articles))
	}
	for _, article := range articles {
		if article.Complete() {
			t.Fatalf("expected incomplete article, got %v", article)
		}
	}
}

func TestLoadDirHonoursCancellation(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteCorpusCSV(t, dir, "Vox", testsupport.Rows("A", 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newLoader(t).LoadDir(ctx, dir); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadFileUsesPathForSource(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteCorpusCSV(t, dir, "WSJ", testsupport.Rows("A", 2))

	articles, err := newLoader(t).LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(articles) != 2 || articles[0].Source != "Wall Street Journal" {
		t.Fatalf("unexpected articles: %v", articles)
	}

	if _, err := newLoader(t).LoadFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("fixture vanished: %v", statErr)
	}
}
