package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"coderdist/internal/config"
	"coderdist/internal/corpus"
	"coderdist/internal/logging"
	"coderdist/internal/results"
	"coderdist/internal/services"
	"coderdist/internal/typeset"
)

type queryOutput struct {
	Field    string       `json:"field"`
	Header   string       `json:"header"`
	Term     string       `json:"term"`
	Document string       `json:"document"`
	Articles []queryMatch `json:"articles"`
}

type queryMatch struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	IDs    []int  `json:"ids"`
}

func newQueryCommand(ctx *commandContext) *cobra.Command {
	var resultsPath string
	var field string
	var term string
	var mapPath string
	var outputDir string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Render a document of the articles coded with a term in a field",
		Long: `Join the coding results with the article map and the corpus, and render
one document holding every article whose coded answer in --field equals or
contains --term.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if strings.TrimSpace(term) == "" {
				return services.Wrap(services.ErrValidation, "query", "flags", "--term must not be empty", nil)
			}

			sheet, err := results.ReadSheet(resultsPath, cfg.Results.IDColumn, logger)
			if err != nil {
				return err
			}
			header, err := results.ResolveField(cfg.Results.Fields, sheet, field)
			if err != nil {
				return err
			}
			entries, _, err := loadEntries(cmd.Context(), ctx, cfg, mapPath, "")
			if err != nil {
				return err
			}
			sources, err := loadCorpus(cmd.Context(), cfg, logger, cfg.Paths.CorpusDir, "")
			if err != nil {
				return err
			}

			matches := results.Query(sources.Flatten(), entries, sheet, header, term)
			if len(matches) == 0 {
				return services.Wrap(services.ErrNotFound, "query", "match",
					fmt.Sprintf("no articles have %q in %s", term, header), nil)
			}

			dir := cfg.Paths.OutputDir
			if strings.TrimSpace(outputDir) != "" {
				if dir, err = config.ExpandPath(outputDir); err != nil {
					return err
				}
			}
			dest := filepath.Join(dir, typeset.QueryFileName(field, term, cfg.Typesetting.OutputExtension))
			generator, err := newGenerator(cfg, logger)
			if err != nil {
				return err
			}
			queryCtx := services.WithStage(cmd.Context(), "query")
			if err := generator.GenerateQuery(queryCtx, field, term, queryEntries(matches), dest); err != nil {
				return err
			}
			logging.WithContext(queryCtx, logger).Info("query document rendered",
				logging.String("path", dest),
				logging.Int("articles", len(matches)),
			)

			out := queryOutput{Field: field, Header: header, Term: term, Document: dest}
			for _, match := range matches {
				out.Articles = append(out.Articles, queryMatch{Title: match.Title, Source: match.Source, IDs: match.IDs})
			}
			if jsonOutput {
				return writeJSON(cmd, out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d articles with %q in %s written to %s\n", len(matches), term, header, dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&resultsPath, "results", "r", "", "Filled-in coding results CSV")
	cmd.Flags().StringVarP(&field, "field", "f", "", "Field to search (a [results.fields] name or a spreadsheet header)")
	cmd.Flags().StringVarP(&term, "term", "t", "", "Coded answer to look for")
	cmd.Flags().StringVar(&mapPath, "map", "", "Article map (defaults to the one in the output directory)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for the query document (defaults to paths.output_dir)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the matches as JSON")
	_ = cmd.MarkFlagRequired("results")
	_ = cmd.MarkFlagRequired("field")
	_ = cmd.MarkFlagRequired("term")
	return cmd
}

func queryEntries(matches []*corpus.Article) []typeset.Entry {
	entries := make([]typeset.Entry, 0, len(matches))
	for _, match := range matches {
		entry := typeset.Entry{Title: match.Title, Body: match.Body, Source: match.Source}
		if len(match.IDs) > 0 {
			entry.ID = match.IDs[0]
		}
		entries = append(entries, entry)
	}
	return entries
}
