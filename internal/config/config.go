package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input and output locations.
type Paths struct {
	CorpusDir      string `toml:"corpus_dir"`
	OutputDir      string `toml:"output_dir"`
	StateDir       string `toml:"state_dir"`
	TitleAllowlist string `toml:"title_allowlist"`
}

// Assignment contains the distribution parameters.
type Assignment struct {
	Coders           int    `toml:"coders"`
	CodersPerArticle int    `toml:"coders_per_article"`
	Seed             uint64 `toml:"seed"` // 0 draws a fresh seed per run
	FirstID          int    `toml:"first_id"`
}

// Corpus describes the layout of per-source article files.
type Corpus struct {
	Pattern     string `toml:"pattern"`
	TitleColumn string `toml:"title_column"`
	BodyColumn  string `toml:"body_column"`
}

// Sources contains source-name normalization settings.
type Sources struct {
	// NamePattern is an optional regular expression with one capture group
	// applied to file stems, e.g. "^(?:.* - )?(.+)$".
	NamePattern string            `toml:"name_pattern"`
	Aliases     map[string]string `toml:"aliases"`
}

// Typesetting contains configuration for the external document engine.
type Typesetting struct {
	Engine          string   `toml:"engine"`
	Args            []string `toml:"args"`
	OutputExtension string   `toml:"output_extension"`
	TimeoutSeconds  int      `toml:"timeout_seconds"`
	Workers         int      `toml:"workers"`
	DocumentTitle   string   `toml:"document_title"`
}

// Export contains file names for the metadata exports.
type Export struct {
	ArticleMap      string   `toml:"article_map"`
	CodingTemplate  string   `toml:"coding_template"`
	TemplateColumns []string `toml:"template_columns"`
}

// Results describes the filled-in coding results spreadsheet.
type Results struct {
	IDColumn     string            `toml:"id_column"`
	CodedColumns []string          `toml:"coded_columns"`
	Fields       map[string]string `toml:"fields"`
}

// Ledger controls the run history database.
type Ledger struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for coderdist.
//
// Configuration sections by subsystem:
//   - Paths: corpus, output and state directories
//   - Assignment: coder count, overlap and seed
//   - Corpus: CSV layout of the per-source files
//   - Sources: alias table and file name pattern
//   - Typesetting: document engine invocation
//   - Export: article map and coding template names
//   - Results: coding results spreadsheet layout
//   - Ledger: run history
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Assignment  Assignment  `toml:"assignment"`
	Corpus      Corpus      `toml:"corpus"`
	Sources     Sources     `toml:"sources"`
	Typesetting Typesetting `toml:"typesetting"`
	Export      Export      `toml:"export"`
	Results     Results     `toml:"results"`
	Ledger      Ledger      `toml:"ledger"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LedgerPath returns the location of the run history database.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.StateDir, "ledger.db")
}

// ArticleMapPath returns the article map location inside the output directory.
func (c *Config) ArticleMapPath() string {
	return filepath.Join(c.Paths.OutputDir, c.Export.ArticleMap)
}

// CodingTemplatePath returns the coding template location inside the output directory.
func (c *Config) CodingTemplatePath() string {
	return filepath.Join(c.Paths.OutputDir, c.Export.CodingTemplate)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "coderdist")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/state/coderdist"
	}
	return filepath.Join(home, ".local", "state", "coderdist")
}

// SampleConfig returns the embedded sample configuration text.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
