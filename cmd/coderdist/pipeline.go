package main

import (
	"context"
	"log/slog"

	"coderdist/internal/config"
	"coderdist/internal/corpus"
	"coderdist/internal/logging"
	"coderdist/internal/services"
	"coderdist/internal/services/latexmk"
	"coderdist/internal/source"
	"coderdist/internal/typeset"
)

// loadCorpus reads every source file under dir and applies the title
// allow-list when one is configured.
func loadCorpus(ctx context.Context, cfg *config.Config, logger *slog.Logger, dir, allowlist string) (corpus.Sources, error) {
	normalizer, err := source.NewNormalizer(cfg.Sources.Aliases, cfg.Sources.NamePattern)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "sources", "name pattern", cfg.Sources.NamePattern, err)
	}
	loader := corpus.NewLoader(corpus.Options{
		Pattern:     cfg.Corpus.Pattern,
		TitleColumn: cfg.Corpus.TitleColumn,
		BodyColumn:  cfg.Corpus.BodyColumn,
		Normalizer:  normalizer,
		Logger:      logger,
	})
	sources, err := loader.LoadDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	if allowlist == "" {
		return sources, nil
	}

	list, err := corpus.ReadAllowList(allowlist)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "corpus", "allow-list", allowlist, err)
	}
	filtered, misses := list.Filter(sources)
	for _, miss := range misses {
		attrs := []logging.Attr{logging.String("title", miss.Title)}
		if miss.Suggestion != "" {
			attrs = append(attrs, logging.String("closest", miss.Suggestion))
		}
		logger.Warn("allow-listed title not found in corpus", logging.Args(attrs...)...)
	}
	logger.Info("applied title allow-list",
		logging.Int("listed", list.Len()),
		logging.Int("kept", filtered.Count()),
		logging.Int("missing", len(misses)),
	)
	return filtered, nil
}

func newGenerator(cfg *config.Config, logger *slog.Logger) (*typeset.Generator, error) {
	compiler, err := latexmk.New(
		cfg.Typesetting.Engine,
		cfg.Typesetting.Args,
		cfg.Typesetting.TimeoutSeconds,
		latexmk.WithOutputExtension(cfg.Typesetting.OutputExtension),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "typeset", "engine", cfg.Typesetting.Engine, err)
	}
	return typeset.NewGenerator(compiler, logger), nil
}
