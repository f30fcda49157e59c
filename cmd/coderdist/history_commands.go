package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"coderdist/internal/ledger"
)

const shortIDLength = 8

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded distribution runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Run", "Created", "Status", "Seed", "Coders", "Per article", "Articles", "Assignments"},
					buildRunRows(runs),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var coder int

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a recorded run and its assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				assignments, err := store.Assignments(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if coder > 0 {
					filtered := assignments[:0]
					for _, a := range assignments {
						if a.Coder == coder {
							filtered = append(filtered, a)
						}
					}
					assignments = filtered
				}
				out := cmd.OutOrStdout()
				printRunDetails(out, run)
				if len(assignments) == 0 {
					fmt.Fprintln(out, "No assignments")
					return nil
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Coder", "Source", "Title"},
					buildAssignmentRows(assignments),
					[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&coder, "coder", 0, "Only list the assignments of this coder")
	return cmd
}

func buildRunRows(runs []ledger.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			formatTimestamp(run.CreatedAt),
			string(run.Status),
			strconv.FormatUint(run.Seed, 10),
			strconv.Itoa(run.Coders),
			strconv.Itoa(run.CodersPerArticle),
			strconv.Itoa(run.Articles),
			strconv.Itoa(run.Assignments),
		})
	}
	return rows
}

func buildAssignmentRows(assignments []ledger.Assignment) [][]string {
	rows := make([][]string, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, []string{
			strconv.Itoa(a.ID),
			strconv.Itoa(a.Coder),
			a.Source,
			truncateCell(a.Title, titleWidth),
		})
	}
	return rows
}

func printRunDetails(out io.Writer, run *ledger.Run) {
	fmt.Fprintf(out, "Run:          %s\n", run.ID)
	fmt.Fprintf(out, "Status:       %s\n", run.Status)
	fmt.Fprintf(out, "Created:      %s\n", formatTimestamp(run.CreatedAt))
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(out, "Finished:     %s\n", formatTimestamp(run.FinishedAt))
	}
	fmt.Fprintf(out, "Seed:         %d\n", run.Seed)
	fmt.Fprintf(out, "Coders:       %d (%d per article, first ID %d)\n", run.Coders, run.CodersPerArticle, run.FirstID)
	fmt.Fprintf(out, "Articles:     %d (%d assignments, %d short)\n", run.Articles, run.Assignments, run.Shortfalls)
	fmt.Fprintf(out, "Corpus:       %s\n", run.CorpusDir)
	fmt.Fprintf(out, "Output:       %s\n", run.OutputDir)
	if msg := strings.TrimSpace(run.ErrorMessage); msg != "" {
		fmt.Fprintf(out, "Error:        %s\n", msg)
	}
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}
