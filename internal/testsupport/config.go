package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"coderdist/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// Engine scripts used by WithStubbedEngine and WithFailingEngine. The stub
// copies its last argument (the .tex file) to the matching .pdf name.
const (
	stubEngineScript    = "#!/bin/sh\nfor last; do :; done\ncp \"$last\" \"${last%.tex}.pdf\"\n"
	failingEngineScript = "#!/bin/sh\necho '! LaTeX Error: File `missing.sty'\"'\"' not found.' >&2\nexit 12\n"
)

// NewConfig produces a config seeded with unique temp directories per test.
// The corpus directory exists and is empty; the output and state directories
// do not exist yet.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CorpusDir = filepath.Join(base, "articles")
	cfgVal.Paths.OutputDir = filepath.Join(base, "coding")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Assignment.Seed = 1
	if err := os.MkdirAll(cfgVal.Paths.CorpusDir, 0o755); err != nil {
		t.Fatalf("mkdir corpus dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCoders sets the number of coders and coders per article.
func WithCoders(coders, perArticle int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Assignment.Coders = coders
		b.cfg.Assignment.CodersPerArticle = perArticle
	}
}

// WithSeed sets the shuffle seed.
func WithSeed(seed uint64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Assignment.Seed = seed
	}
}

// WithoutLedger disables run history recording.
func WithoutLedger() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.Enabled = false
	}
}

// WithStubbedEngine installs a fake typesetting engine on PATH that turns the
// document source into the output file without compiling it.
func WithStubbedEngine() ConfigOption {
	return func(b *configBuilder) {
		installScript(b, "latexmk", stubEngineScript)
	}
}

// WithFailingEngine installs a typesetting engine on PATH that always exits non-zero.
func WithFailingEngine() ConfigOption {
	return func(b *configBuilder) {
		installScript(b, "latexmk", failingEngineScript)
	}
}

// WithStubbedBinaries writes no-op executables for the provided names and
// prepends them to PATH.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		for _, name := range names {
			installScript(b, name, "#!/bin/sh\nexit 0\n")
		}
	}
}

func installScript(b *configBuilder, name, script string) {
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		b.t.Fatalf("set PATH: %v", err)
	}
	b.t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// InstallStubEngine writes the stub engine into dir and returns its path.
func InstallStubEngine(t testing.TB, dir string) string {
	t.Helper()
	return writeScript(t, dir, "latexmk", stubEngineScript)
}

// InstallFailingEngine writes the failing engine into dir and returns its path.
func InstallFailingEngine(t testing.TB, dir string) string {
	t.Helper()
	return writeScript(t, dir, "latexmk", failingEngineScript)
}

func writeScript(t testing.TB, dir, name, script string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CorpusDir)
}
