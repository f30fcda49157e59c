package preflight

import (
	"coderdist/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks a distribution run depends on.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryReadable("Corpus directory", cfg.Paths.CorpusDir),
		CheckCreatableDirectory("Output directory", cfg.Paths.OutputDir),
	}
	if cfg.Ledger.Enabled {
		results = append(results, CheckCreatableDirectory("State directory", cfg.Paths.StateDir))
	}
	if cfg.Paths.TitleAllowlist != "" {
		results = append(results, CheckFileReadable("Title allow-list", cfg.Paths.TitleAllowlist))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}
