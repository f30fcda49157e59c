package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAssignment(); err != nil {
		return err
	}
	c.normalizeCorpus()
	c.normalizeSources()
	c.normalizeTypesetting()
	c.normalizeExport()
	c.normalizeResults()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CorpusDir) == "" {
		c.Paths.CorpusDir = defaultCorpusDir
	}
	if c.Paths.CorpusDir, err = expandPath(strings.TrimSpace(c.Paths.CorpusDir)); err != nil {
		return fmt.Errorf("paths.corpus_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.TitleAllowlist, err = expandPath(strings.TrimSpace(c.Paths.TitleAllowlist)); err != nil {
		return fmt.Errorf("paths.title_allowlist: %w", err)
	}
	return nil
}

func (c *Config) normalizeAssignment() error {
	if c.Assignment.Seed == 0 {
		if value, ok := os.LookupEnv("CODERDIST_SEED"); ok && strings.TrimSpace(value) != "" {
			seed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
			if err != nil {
				return fmt.Errorf("CODERDIST_SEED: %w", err)
			}
			c.Assignment.Seed = seed
		}
	}
	if c.Assignment.FirstID == 0 {
		c.Assignment.FirstID = defaultFirstID
	}
	return nil
}

func (c *Config) normalizeCorpus() {
	c.Corpus.Pattern = strings.TrimSpace(c.Corpus.Pattern)
	if c.Corpus.Pattern == "" {
		c.Corpus.Pattern = defaultCorpusPattern
	}
	c.Corpus.TitleColumn = strings.TrimSpace(c.Corpus.TitleColumn)
	if c.Corpus.TitleColumn == "" {
		c.Corpus.TitleColumn = defaultTitleColumn
	}
	c.Corpus.BodyColumn = strings.TrimSpace(c.Corpus.BodyColumn)
	if c.Corpus.BodyColumn == "" {
		c.Corpus.BodyColumn = defaultBodyColumn
	}
}

func (c *Config) normalizeSources() {
	c.Sources.NamePattern = strings.TrimSpace(c.Sources.NamePattern)
	if c.Sources.Aliases == nil {
		c.Sources.Aliases = DefaultSourceAliases()
		return
	}
	aliases := make(map[string]string, len(c.Sources.Aliases))
	for raw, canonical := range c.Sources.Aliases {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		aliases[raw] = strings.TrimSpace(canonical)
	}
	c.Sources.Aliases = aliases
}

func (c *Config) normalizeTypesetting() {
	c.Typesetting.Engine = strings.TrimSpace(c.Typesetting.Engine)
	if c.Typesetting.Engine == "" {
		if value, ok := os.LookupEnv("CODERDIST_ENGINE"); ok && strings.TrimSpace(value) != "" {
			c.Typesetting.Engine = strings.TrimSpace(value)
		} else {
			c.Typesetting.Engine = defaultEngine
		}
	}
	if c.Typesetting.Args == nil {
		c.Typesetting.Args = DefaultEngineArgs()
	}
	c.Typesetting.OutputExtension = strings.TrimSpace(c.Typesetting.OutputExtension)
	if c.Typesetting.OutputExtension == "" {
		c.Typesetting.OutputExtension = defaultOutputExtension
	}
	if !strings.HasPrefix(c.Typesetting.OutputExtension, ".") {
		c.Typesetting.OutputExtension = "." + c.Typesetting.OutputExtension
	}
	if c.Typesetting.TimeoutSeconds == 0 {
		c.Typesetting.TimeoutSeconds = defaultEngineTimeout
	}
	if c.Typesetting.Workers == 0 {
		c.Typesetting.Workers = defaultWorkers
	}
	if strings.TrimSpace(c.Typesetting.DocumentTitle) == "" {
		c.Typesetting.DocumentTitle = defaultDocumentTitle
	}
}

func (c *Config) normalizeExport() {
	c.Export.ArticleMap = strings.TrimSpace(c.Export.ArticleMap)
	if c.Export.ArticleMap == "" {
		c.Export.ArticleMap = defaultArticleMap
	}
	c.Export.CodingTemplate = strings.TrimSpace(c.Export.CodingTemplate)
	if c.Export.CodingTemplate == "" {
		c.Export.CodingTemplate = defaultCodingTemplate
	}
	c.Export.TemplateColumns = trimList(c.Export.TemplateColumns)
	if len(c.Export.TemplateColumns) == 0 {
		c.Export.TemplateColumns = DefaultCodingColumns()
	}
}

func (c *Config) normalizeResults() {
	c.Results.IDColumn = strings.TrimSpace(c.Results.IDColumn)
	if c.Results.IDColumn == "" {
		c.Results.IDColumn = defaultResultsIDColumn
	}
	c.Results.CodedColumns = trimList(c.Results.CodedColumns)
	if len(c.Results.CodedColumns) == 0 {
		c.Results.CodedColumns = append([]string(nil), c.Export.TemplateColumns...)
	}
	if len(c.Results.Fields) == 0 {
		c.Results.Fields = DefaultResultFields()
		return
	}
	fields := make(map[string]string, len(c.Results.Fields))
	for name, header := range c.Results.Fields {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		fields[name] = strings.TrimSpace(header)
	}
	c.Results.Fields = fields
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
