package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"coderdist/internal/config"
	"coderdist/internal/export"
	"coderdist/internal/ledger"
	"coderdist/internal/results"
)

type progressOutput struct {
	Source string          `json:"source"`
	Report *results.Report `json:"report"`
}

func newProgressCommand(ctx *commandContext) *cobra.Command {
	var resultsPath string
	var mapPath string
	var runID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Report how many assignments and articles have been coded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			entries, origin, err := loadEntries(cmd.Context(), ctx, cfg, mapPath, runID)
			if err != nil {
				return err
			}
			sheet, err := results.ReadSheet(resultsPath, cfg.Results.IDColumn, logger)
			if err != nil {
				return err
			}
			coded, err := sheet.Coded(cfg.Results.CodedColumns)
			if err != nil {
				return err
			}
			report, err := results.Progress(entries, coded)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, progressOutput{Source: origin, Report: report})
			}
			printProgress(cmd.OutOrStdout(), origin, report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&resultsPath, "results", "r", "", "Filled-in coding results CSV")
	cmd.Flags().StringVar(&mapPath, "map", "", "Article map (defaults to the one in the output directory)")
	cmd.Flags().StringVar(&runID, "run", "", "Take the assignments from this recorded run instead of an article map")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	_ = cmd.MarkFlagRequired("results")
	cmd.MarkFlagsMutuallyExclusive("map", "run")
	return cmd
}

// loadEntries returns the assignments from a recorded run or an article map,
// and a label naming where they came from.
func loadEntries(ctx context.Context, cmdCtx *commandContext, cfg *config.Config, mapPath, runID string) ([]export.Entry, string, error) {
	if runID = strings.TrimSpace(runID); runID != "" {
		var entries []export.Entry
		var label string
		err := cmdCtx.withLedger(func(store *ledger.Store) error {
			run, err := store.GetRun(ctx, runID)
			if err != nil {
				return err
			}
			assignments, err := store.Assignments(ctx, run.ID)
			if err != nil {
				return err
			}
			entries = make([]export.Entry, len(assignments))
			for i, a := range assignments {
				entries[i] = export.Entry{ID: a.ID, Coder: a.Coder, Title: a.Title, Source: a.Source}
			}
			label = "run " + run.ID
			return nil
		})
		return entries, label, err
	}

	path := strings.TrimSpace(mapPath)
	if path == "" {
		path = cfg.ArticleMapPath()
	} else {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return nil, "", err
		}
		path = expanded
	}
	entries, err := export.LoadArticleMap(path)
	return entries, path, err
}

func printProgress(out io.Writer, origin string, report *results.Report) {
	fmt.Fprintf(out, "Assignments from %s\n", origin)
	fmt.Fprintf(out, "Assignments coded:  %d / %d (%s)\n",
		report.CodedAssignments, report.Assignments, percent(report.CodedAssignments, report.Assignments))
	fmt.Fprintf(out, "Articles coded:     %d / %d (%s)\n",
		report.CodedArticles, report.Articles, percent(report.CodedArticles, report.Articles))
	if len(report.Sources) == 0 {
		return
	}
	fmt.Fprintln(out)

	rows := make([][]string, 0, len(report.Sources))
	for _, src := range report.Sources {
		rows = append(rows, []string{
			truncateCell(src.Source, titleWidth),
			fmt.Sprint(src.Coded),
			fmt.Sprint(src.Total),
			percent(src.Coded, src.Total),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Source", "Coded", "Articles", "Done"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
}
