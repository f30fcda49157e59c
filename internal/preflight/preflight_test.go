package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"coderdist/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCreatableDirectory(t *testing.T) {
	base := t.TempDir()
	result := CheckCreatableDirectory("output", filepath.Join(base, "a", "b"))
	if !result.Passed {
		t.Fatalf("expected missing dir under writable parent to pass, got: %s", result.Detail)
	}
	result = CheckCreatableDirectory("output", base)
	if !result.Passed {
		t.Fatalf("expected existing dir to pass, got: %s", result.Detail)
	}
}

func TestCheckFileReadable(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "titles.txt")
	if err := os.WriteFile(f, []byte("A title\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckFileReadable("titles", f); !result.Passed {
		t.Fatalf("expected readable file to pass, got: %s", result.Detail)
	}
	if result := CheckFileReadable("titles", dir); result.Passed {
		t.Fatal("expected directory to fail")
	}
	if result := CheckFileReadable("titles", filepath.Join(dir, "missing")); result.Passed {
		t.Fatal("expected missing file to fail")
	}
}

func TestRunAllReportsMissingCorpus(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CorpusDir = filepath.Join(base, "articles")
	cfg.Paths.OutputDir = filepath.Join(base, "coding")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.TitleAllowlist = filepath.Join(base, "titles.txt")

	results := RunAll(&cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 2 {
		t.Fatalf("expected corpus and allow-list failures, got %+v", failed)
	}
	if failed[0].Name != "Corpus directory" || failed[1].Name != "Title allow-list" {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestCheckSystemDepsUsesConfiguredEngine(t *testing.T) {
	bin := t.TempDir()
	stub := filepath.Join(bin, "latexmk")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'Latexmk, John Collins, Version 4.83'\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", bin)

	cfg := config.Default()
	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected engine and backend statuses, got %d", len(statuses))
	}
	if !statuses[0].Available {
		t.Fatalf("expected engine available: %#v", statuses[0])
	}
	if statuses[1].Available {
		t.Fatalf("expected pdflatex missing: %#v", statuses[1])
	}

	version := CheckEngineVersion(context.Background(), "latexmk")
	if !version.Passed || version.Detail != "Latexmk, John Collins, Version 4.83" {
		t.Fatalf("unexpected version result: %+v", version)
	}
}
