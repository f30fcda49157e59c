package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var titleVerb = regexp.MustCompile(`%[a-zA-Z]`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAssignment(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateTypesetting(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateResults(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAssignment() error {
	if c.Assignment.Coders <= 0 {
		return errors.New("assignment.coders must be positive")
	}
	if c.Assignment.CodersPerArticle <= 0 {
		return errors.New("assignment.coders_per_article must be positive")
	}
	if c.Assignment.CodersPerArticle > c.Assignment.Coders {
		return fmt.Errorf("assignment.coders_per_article (%d) must not exceed assignment.coders (%d)",
			c.Assignment.CodersPerArticle, c.Assignment.Coders)
	}
	if c.Assignment.FirstID < 1 {
		return errors.New("assignment.first_id must be >= 1")
	}
	return nil
}

func (c *Config) validateSources() error {
	if c.Sources.NamePattern != "" {
		re, err := regexp.Compile(c.Sources.NamePattern)
		if err != nil {
			return fmt.Errorf("sources.name_pattern: %w", err)
		}
		if re.NumSubexp() != 1 {
			return errors.New("sources.name_pattern must contain exactly one capture group")
		}
	}
	for raw, canonical := range c.Sources.Aliases {
		if canonical == "" {
			return fmt.Errorf("sources.aliases: alias %q maps to an empty name", raw)
		}
	}
	return nil
}

func (c *Config) validateTypesetting() error {
	if c.Typesetting.TimeoutSeconds < 0 {
		return errors.New("typesetting.timeout_seconds must be >= 0")
	}
	if c.Typesetting.Workers < 1 {
		return errors.New("typesetting.workers must be >= 1")
	}
	verbs := titleVerb.FindAllString(c.Typesetting.DocumentTitle, -1)
	if len(verbs) != 1 || verbs[0] != "%d" {
		return errors.New("typesetting.document_title must contain exactly one %d for the coder number and no other format verbs")
	}
	return nil
}

func (c *Config) validateExport() error {
	if strings.ContainsAny(c.Export.ArticleMap, `/\`) {
		return errors.New("export.article_map must be a file name, not a path")
	}
	if strings.ContainsAny(c.Export.CodingTemplate, `/\`) {
		return errors.New("export.coding_template must be a file name, not a path")
	}
	return nil
}

func (c *Config) validateResults() error {
	for name, header := range c.Results.Fields {
		if header == "" {
			return fmt.Errorf("results.fields.%s must name a column", name)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
