package main

import (
	"os"
	"path/filepath"
	"testing"

	"coderdist/internal/export"
	"coderdist/internal/targets"
	"coderdist/internal/testsupport"
)

const legacyExport = "Titles,Addresses,Tags,Body\n" +
	"Rates rise,https://example.com/1,WSJ,Body one.\n" +
	"Budget talks,https://example.com/2,\"NYT, Opinion\",Body two.\n" +
	"Markets fall,https://example.com/3,WSJ,Body three.\n" +
	"Letters on tax,https://example.com/4,\"Washington post, Opinion, Letters\",Body four.\n"

func TestImportLegacyWritesCorpusFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	exportPath := filepath.Join(env.baseDir, "old.csv")
	testsupport.WriteFile(t, exportPath, legacyExport)

	out, _, err := runCLI(t, []string{"import", "legacy", exportPath}, env.configPath)
	if err != nil {
		t.Fatalf("import legacy: %v", err)
	}
	requireContains(t, out, "Wall Street Journal")

	wsj := filepath.Join(env.cfg.Paths.CorpusDir, "Old Articles - Wall Street Journal.csv")
	data, err := os.ReadFile(wsj)
	if err != nil {
		t.Fatalf("expected %s: %v", wsj, err)
	}
	requireContains(t, string(data), "Title,Link,Body,Date,Notes,Author")
	requireContains(t, string(data), "Markets fall,https://example.com/3,Body three.,,,MISSING")

	_, _, err = runCLI(t, []string{"import", "legacy", exportPath}, env.configPath)
	if err == nil {
		t.Fatal("expected second import to refuse overwriting")
	}
	requireContains(t, err.Error(), "--overwrite")

	if _, _, err := runCLI(t, []string{"import", "legacy", "--overwrite", exportPath}, env.configPath); err != nil {
		t.Fatalf("import legacy --overwrite: %v", err)
	}
}

func TestImportedLegacyCorpusDistributes(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCoders(2, 1))
	exportPath := filepath.Join(env.baseDir, "old.csv")
	testsupport.WriteFile(t, exportPath, legacyExport)
	if _, _, err := runCLI(t, []string{"import", "legacy", exportPath}, env.configPath); err != nil {
		t.Fatalf("import legacy: %v", err)
	}

	if _, _, err := runCLI(t, []string{"distribute", "--no-render"}, env.configPath); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	entries, err := export.LoadArticleMap(env.cfg.ArticleMapPath())
	if err != nil {
		t.Fatalf("load article map: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 assignments, got %d", len(entries))
	}
}

func TestImportDumpAndTargetsRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t)
	exportPath := filepath.Join(env.baseDir, "old.csv")
	testsupport.WriteFile(t, exportPath, legacyExport)

	yamlBase := filepath.Join(env.baseDir, "targets")
	out, _, err := runCLI(t, []string{"import", "dump", exportPath, "--out", yamlBase}, "")
	if err != nil {
		t.Fatalf("import dump: %v", err)
	}
	requireContains(t, out, "Wrote 4 targets")

	list, err := targets.Load(yamlBase + targets.YAMLExt)
	if err != nil {
		t.Fatalf("load targets: %v", err)
	}
	if len(list) != 4 || list[1].PrimaryTag() != "NYT, Opinion" {
		t.Fatalf("unexpected targets %+v", list)
	}

	dest := filepath.Join(env.baseDir, "from-yaml")
	if _, _, err := runCLI(t, []string{"import", "targets", yamlBase + targets.YAMLExt, "--dest", dest}, env.configPath); err != nil {
		t.Fatalf("import targets: %v", err)
	}
	for _, name := range []string{"Wall Street Journal", "New York Times Opinion", "Washington Post Opinion Letters"} {
		if _, err := os.Stat(filepath.Join(dest, name+".csv")); err != nil {
			t.Fatalf("expected corpus file for %s: %v", name, err)
		}
	}
}
