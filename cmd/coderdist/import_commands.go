package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"coderdist/internal/config"
	"coderdist/internal/services"
	"coderdist/internal/targets"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Convert scraped article exports into corpus files",
	}

	importCmd.AddCommand(newImportLegacyCommand(ctx))
	importCmd.AddCommand(newImportTargetsCommand(ctx))
	importCmd.AddCommand(newImportDumpCommand())

	return importCmd
}

func newImportLegacyCommand(ctx *commandContext) *cobra.Command {
	var dest string
	var author string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "legacy <export.csv>...",
		Short: "Split old scraper CSV exports into one corpus file per source",
		Long: `Read CSV exports with Titles, Addresses, Tags and Body columns, map the
first tag of each row to its source, and write "Old Articles - <source>.csv"
corpus files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := importDestination(ctx, dest)
			if err != nil {
				return err
			}
			groups := make(targets.Grouped)
			for _, path := range args {
				imported, err := targets.ImportCSV(cmd.Context(), path, author)
				if err != nil {
					return err
				}
				groups.Merge(imported)
			}
			return writeImportedCorpus(cmd.OutOrStdout(), dir, targets.LegacyPrefix, groups, overwrite)
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "", "Corpus directory to write into (defaults to paths.corpus_dir)")
	cmd.Flags().StringVar(&author, "author", targets.MissingAuthor, "Author value for imported rows")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing corpus files")
	return cmd
}

func newImportTargetsCommand(ctx *commandContext) *cobra.Command {
	var dest string
	var prefix string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "targets <targets.yml>...",
		Short: "Write YAML target lists as corpus files grouped by source",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := importDestination(ctx, dest)
			if err != nil {
				return err
			}
			groups := make(targets.Grouped)
			for _, path := range args {
				src, err := targets.FileSource(path)
				if err != nil {
					return err
				}
				list, err := targets.Drain(cmd.Context(), src)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				groups.Merge(targets.ConvertLegacy(list, ""))
			}
			return writeImportedCorpus(cmd.OutOrStdout(), dir, prefix, groups, overwrite)
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "", "Corpus directory to write into (defaults to paths.corpus_dir)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "File name prefix for the written corpus files")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing corpus files")
	return cmd
}

func newImportDumpCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:         "dump <export.csv>",
		Short:       "Convert an old scraper CSV export into a YAML target list",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := targets.OpenCSV(args[0])
			if err != nil {
				return err
			}
			defer src.Close()
			list, err := targets.Drain(cmd.Context(), src)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			target := strings.TrimSpace(out)
			if target == "" {
				target = strings.TrimSuffix(args[0], ".csv")
			}
			written, err := targets.Dump(target, list)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d targets to %s\n", len(list), written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination file (\""+targets.YAMLExt+"\" is appended when missing)")
	return cmd
}

func importDestination(ctx *commandContext, dest string) (string, error) {
	if dest = strings.TrimSpace(dest); dest != "" {
		return config.ExpandPath(dest)
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Paths.CorpusDir, nil
}

func writeImportedCorpus(out io.Writer, dir, prefix string, groups targets.Grouped, overwrite bool) error {
	if len(groups) == 0 {
		return services.Wrap(services.ErrCorpusIntegrity, "import", "convert", "no articles found in the input", nil)
	}
	if !overwrite {
		for _, name := range groups.Names() {
			path := targets.CorpusPath(dir, prefix, name)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("corpus file already exists at %s (use --overwrite to replace it)", path)
			}
		}
	}
	paths, err := targets.WriteCorpus(dir, prefix, groups)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(paths))
	for i, name := range groups.Names() {
		rows = append(rows, []string{name, strconv.Itoa(len(groups[name])), paths[i]})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Source", "Articles", "File"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	))
	return nil
}
