package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coderdist/internal/config"
	"coderdist/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(base, "coderdist.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

// writeCorpus fills the corpus directory with ten articles over two sources.
func (env *cliTestEnv) writeCorpus(t *testing.T) {
	t.Helper()
	testsupport.WriteCorpusCSV(t, env.cfg.Paths.CorpusDir, "Wall Street Journal", testsupport.Rows("wsj", 6))
	testsupport.WriteCorpusCSV(t, env.cfg.Paths.CorpusDir, "New York Times", testsupport.Rows("nyt", 4))
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ncorpus_dir = %q\noutput_dir = %q\nstate_dir = %q\n\n"+
			"[assignment]\ncoders = %d\ncoders_per_article = %d\nseed = %d\nfirst_id = %d\n\n"+
			"[typesetting]\nengine = %q\nworkers = 2\n\n"+
			"[ledger]\nenabled = %t\n\n"+
			"[logging]\nlevel = \"error\"\n",
		cfg.Paths.CorpusDir,
		cfg.Paths.OutputDir,
		cfg.Paths.StateDir,
		cfg.Assignment.Coders,
		cfg.Assignment.CodersPerArticle,
		cfg.Assignment.Seed,
		cfg.Assignment.FirstID,
		cfg.Typesetting.Engine,
		cfg.Ledger.Enabled,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeResults writes a coding results sheet with the default columns. Each
// row is an ID followed by its Valence and Fears answers.
func writeResults(t *testing.T, path string, rows [][3]string) {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Article #", "Valence", "Hopes", "Fears", "Frame", "Credibility", "Detail"})
	for _, row := range rows {
		_ = w.Write([]string{row[0], row[1], "", row[2], "", "", ""})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("encode results: %v", err)
	}
	testsupport.WriteFile(t, path, buf.String())
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
