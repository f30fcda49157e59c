package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"coderdist/internal/assign"
	"coderdist/internal/config"
	"coderdist/internal/deps"
	"coderdist/internal/export"
	"coderdist/internal/ledger"
	"coderdist/internal/logging"
	"coderdist/internal/preflight"
	"coderdist/internal/services"
	"coderdist/internal/typeset"
)

// lockFileName guards an output directory against concurrent runs.
const lockFileName = ".coderdist.lock"

type distributeOptions struct {
	coders     int
	perArticle int
	seed       uint64
	firstID    int
	corpusDir  string
	outputDir  string
	allowlist  string
	workers    int
	noRender   bool
	jsonOutput bool
}

type distributionSummary struct {
	RunID            string             `json:"run_id"`
	Seed             uint64             `json:"seed"`
	Coders           int                `json:"coders"`
	CodersPerArticle int                `json:"coders_per_article"`
	Sources          int                `json:"sources"`
	Articles         int                `json:"articles"`
	Assignments      int                `json:"assignments"`
	ArticleMap       string             `json:"article_map"`
	CodingTemplate   string             `json:"coding_template"`
	Documents        []coderSummary     `json:"documents"`
	Shortfalls       []shortfallSummary `json:"shortfalls,omitempty"`
}

type coderSummary struct {
	Coder    int    `json:"coder"`
	Articles int    `json:"articles"`
	FirstID  int    `json:"first_id"`
	LastID   int    `json:"last_id"`
	Path     string `json:"path,omitempty"`
	Error    string `json:"error,omitempty"`
}

type shortfallSummary struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	Got    int    `json:"got"`
	Want   int    `json:"want"`
}

func newDistributeCommand(ctx *commandContext) *cobra.Command {
	var opts distributeOptions

	cmd := &cobra.Command{
		Use:   "distribute",
		Short: "Assign articles to coders and render one document per coder",
		Long: `Load every source file from the corpus directory, shuffle the articles,
hand each coder a window of batches so every article reaches the requested
number of coders, and write the coder documents, article map and coding
template into the output directory.`,
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

			runCfg := *cfg
			if err := applyDistributeOverrides(cmd, &runCfg, &opts); err != nil {
				return err
			}

			summary, runErr := runDistribution(cmd.Context(), &runCfg, logger, opts)
			if summary != nil {
				if opts.jsonOutput {
					if err := writeJSON(cmd, summary); err != nil {
						return err
					}
				} else {
					printDistributionSummary(cmd.OutOrStdout(), summary)
				}
			}
			return runErr
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.coders, "coders", 0, "Number of coders (overrides assignment.coders)")
	flags.IntVarP(&opts.perArticle, "per-article", "k", 0, "Coders per article (overrides assignment.coders_per_article)")
	flags.Uint64Var(&opts.seed, "seed", 0, "Shuffle seed; 0 draws a fresh one")
	flags.IntVar(&opts.firstID, "first-id", 0, "First assignment ID (overrides assignment.first_id)")
	flags.StringVar(&opts.corpusDir, "corpus", "", "Corpus directory (overrides paths.corpus_dir)")
	flags.StringVarP(&opts.outputDir, "output", "o", "", "Output directory (overrides paths.output_dir)")
	flags.StringVar(&opts.allowlist, "allowlist", "", "Title allow-list file (overrides paths.title_allowlist)")
	flags.IntVar(&opts.workers, "workers", 0, "Documents rendered concurrently (overrides typesetting.workers)")
	flags.BoolVar(&opts.noRender, "no-render", false, "Write the article map and template without rendering documents")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}

func applyDistributeOverrides(cmd *cobra.Command, cfg *config.Config, opts *distributeOptions) error {
	flags := cmd.Flags()
	if flags.Changed("coders") {
		cfg.Assignment.Coders = opts.coders
	}
	if flags.Changed("per-article") {
		cfg.Assignment.CodersPerArticle = opts.perArticle
	}
	if flags.Changed("seed") {
		cfg.Assignment.Seed = opts.seed
	}
	if flags.Changed("first-id") {
		cfg.Assignment.FirstID = opts.firstID
	}
	if flags.Changed("workers") {
		cfg.Typesetting.Workers = opts.workers
	}
	paths := []struct {
		flag   string
		value  string
		target *string
	}{
		{"corpus", opts.corpusDir, &cfg.Paths.CorpusDir},
		{"output", opts.outputDir, &cfg.Paths.OutputDir},
		{"allowlist", opts.allowlist, &cfg.Paths.TitleAllowlist},
	}
	for _, p := range paths {
		if !flags.Changed(p.flag) {
			continue
		}
		expanded, err := config.ExpandPath(strings.TrimSpace(p.value))
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "distribute", "--"+p.flag, p.value, err)
		}
		*p.target = expanded
	}
	if err := cfg.Validate(); err != nil {
		return services.Wrap(services.ErrConfiguration, "distribute", "flags", "", err)
	}
	return nil
}

func runDistribution(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts distributeOptions) (*distributionSummary, error) {
	if failed := preflight.Failed(preflight.RunAll(cfg)); len(failed) > 0 {
		details := make([]string, 0, len(failed))
		for _, result := range failed {
			details = append(details, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
		return nil, services.Wrap(services.ErrConfiguration, "preflight", "check", strings.Join(details, "; "), nil)
	}
	if !opts.noRender {
		if status := deps.CheckEngine(cfg.Typesetting.Engine); !status.Available {
			return nil, services.Wrap(services.ErrExternalTool, "preflight", "engine", status.Detail, nil)
		}
	}

	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "distribute", "create output dir", cfg.Paths.OutputDir, err)
	}
	lock := flock.New(filepath.Join(cfg.Paths.OutputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock output directory: %w", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "distribute", "lock",
			"another distribution is writing to "+cfg.Paths.OutputDir, nil)
	}
	defer func() { _ = lock.Unlock() }()

	runID := ledger.NewRunID()
	ctx = services.WithStage(services.WithRunID(ctx, runID), "distribute")
	runLogger := logging.WithContext(ctx, logger)

	sources, err := loadCorpus(ctx, cfg, logger, cfg.Paths.CorpusDir, cfg.Paths.TitleAllowlist)
	if err != nil {
		return nil, err
	}
	articles := sources.Flatten()
	runLogger.Info("corpus loaded",
		logging.Int("sources", len(sources)),
		logging.Int("articles", len(articles)),
	)

	result, err := assign.NewEngine(logger).Run(ctx, articles, assign.Params{
		Coders:           cfg.Assignment.Coders,
		CodersPerArticle: cfg.Assignment.CodersPerArticle,
		Seed:             cfg.Assignment.Seed,
		FirstID:          cfg.Assignment.FirstID,
	})
	if err != nil {
		return nil, err
	}
	entries := export.Entries(result.Records())

	summary := newDistributionSummary(runID, cfg, len(sources), result)

	finish := func(runErr error) error { return runErr }
	if cfg.Ledger.Enabled {
		store, err := ledger.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open run history: %w", err)
		}
		defer store.Close()
		run := &ledger.Run{
			ID:               runID,
			Seed:             result.Params.Seed,
			Coders:           result.Params.Coders,
			CodersPerArticle: result.Params.CodersPerArticle,
			FirstID:          result.Params.FirstID,
			Articles:         len(result.Articles),
			Shortfalls:       len(result.Shortfalls),
			CorpusDir:        cfg.Paths.CorpusDir,
			OutputDir:        cfg.Paths.OutputDir,
		}
		if err := store.RecordRun(ctx, run, ledgerAssignments(entries)); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
		finish = func(runErr error) error {
			status, msg := ledger.StatusCompleted, ""
			if runErr != nil {
				status, msg = ledger.StatusFailed, runErr.Error()
			}
			if err := store.FinishRun(context.WithoutCancel(ctx), runID, status, msg); err != nil {
				runLogger.Warn("failed to update run history", logging.Error(err))
			}
			return runErr
		}
	}

	if err := export.WriteArticleMap(summary.ArticleMap, entries); err != nil {
		return nil, finish(err)
	}
	if err := export.WriteCodingTemplate(summary.CodingTemplate, cfg.Results.IDColumn, cfg.Export.TemplateColumns, entries); err != nil {
		return nil, finish(err)
	}
	runLogger.Info("exports written",
		logging.String("article_map", summary.ArticleMap),
		logging.String("coding_template", summary.CodingTemplate),
	)

	if opts.noRender {
		return summary, finish(nil)
	}

	generator, err := newGenerator(cfg, logger)
	if err != nil {
		return summary, finish(err)
	}
	jobs := typeset.CoderJobs(result, cfg.Typesetting.DocumentTitle, cfg.Paths.OutputDir, cfg.Typesetting.OutputExtension)
	outcomes, renderErr := generator.RenderAll(ctx, jobs, cfg.Typesetting.Workers)
	for _, outcome := range outcomes {
		doc := &summary.Documents[outcome.Coder-1]
		doc.Path = outcome.Path
		if outcome.Err != nil {
			doc.Error = outcome.Err.Error()
		}
	}
	return summary, finish(renderErr)
}

func newDistributionSummary(runID string, cfg *config.Config, sources int, result *assign.Result) *distributionSummary {
	summary := &distributionSummary{
		RunID:            runID,
		Seed:             result.Params.Seed,
		Coders:           result.Params.Coders,
		CodersPerArticle: result.Params.CodersPerArticle,
		Sources:          sources,
		Articles:         len(result.Articles),
		ArticleMap:       cfg.ArticleMapPath(),
		CodingTemplate:   cfg.CodingTemplatePath(),
		Documents:        make([]coderSummary, result.Params.Coders),
	}
	for i := range summary.Documents {
		coder := i + 1
		records := result.ByCoder[coder]
		doc := coderSummary{Coder: coder, Articles: len(records)}
		if len(records) > 0 {
			doc.FirstID = records[0].ID
			doc.LastID = records[len(records)-1].ID
		}
		summary.Documents[i] = doc
		summary.Assignments += len(records)
	}
	for _, shortfall := range result.Shortfalls {
		summary.Shortfalls = append(summary.Shortfalls, shortfallSummary{
			Title:  shortfall.Article.Title,
			Source: shortfall.Article.Source,
			Got:    shortfall.Got,
			Want:   shortfall.Want,
		})
	}
	return summary
}

func ledgerAssignments(entries []export.Entry) []ledger.Assignment {
	out := make([]ledger.Assignment, len(entries))
	for i, entry := range entries {
		out[i] = ledger.Assignment{ID: entry.ID, Coder: entry.Coder, Title: entry.Title, Source: entry.Source}
	}
	return out
}

func printDistributionSummary(out io.Writer, summary *distributionSummary) {
	fmt.Fprintf(out, "Run:          %s\n", summary.RunID)
	fmt.Fprintf(out, "Seed:         %d\n", summary.Seed)
	fmt.Fprintf(out, "Articles:     %d from %d sources\n", summary.Articles, summary.Sources)
	fmt.Fprintf(out, "Assignments:  %d (%d coders, %d per article)\n",
		summary.Assignments, summary.Coders, summary.CodersPerArticle)
	fmt.Fprintf(out, "Article map:  %s\n", summary.ArticleMap)
	fmt.Fprintf(out, "Template:     %s\n", summary.CodingTemplate)
	fmt.Fprintln(out)

	rows := make([][]string, 0, len(summary.Documents))
	for _, doc := range summary.Documents {
		ids := "-"
		if doc.Articles > 0 {
			ids = fmt.Sprintf("%d-%d", doc.FirstID, doc.LastID)
		}
		document := doc.Path
		switch {
		case doc.Error != "":
			document = "FAILED: " + truncateCell(doc.Error, titleWidth)
		case document == "":
			document = "-"
		}
		rows = append(rows, []string{fmt.Sprint(doc.Coder), fmt.Sprint(doc.Articles), ids, document})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Coder", "Articles", "IDs", "Document"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
	))

	for _, shortfall := range summary.Shortfalls {
		fmt.Fprintf(out, "Warning: %q (%s) reached %d of %d coders\n",
			truncateCell(shortfall.Title, titleWidth), shortfall.Source, shortfall.Got, shortfall.Want)
	}
}
