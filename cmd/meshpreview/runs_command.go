package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"meshpreview/internal/runs"
)

const (
	ansiBlue  = "\x1b[34m"
	ansiReset = "\x1b[0m"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the preview run journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(ctx, cmd, 20)
		},
	}

	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsPruneCommand(ctx))
	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(ctx, cmd, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}

func newRunsPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete finished journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runs.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run journal: %w", err)
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d finished runs older than %s\n", removed, olderThan)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 7*24*time.Hour, "Remove finished runs older than this")
	return cmd
}

func listRuns(ctx *commandContext, cmd *cobra.Command, limit int) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := runs.Open(cfg)
	if err != nil {
		return fmt.Errorf("open run journal: %w", err)
	}
	defer store.Close()

	listed, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	summary, err := store.Summarize(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(listed) == 0 {
		fmt.Fprintln(out, "No runs recorded yet")
		return nil
	}

	headline := fmt.Sprintf("Runs: %d total, %d done, %d failed, %d active", summary.Total, summary.Done, summary.Failed, summary.Active)
	if shouldColorize(out) {
		headline = ansiBlue + headline + ansiReset
	}
	fmt.Fprintln(out, headline)

	rows := make([][]string, 0, len(listed))
	for _, run := range listed {
		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			run.Filename,
			run.Status,
			strconv.Itoa(run.Frames),
			formatRunDuration(run),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(run.ErrorMessage, 60),
		})
	}
	headers := []string{"ID", "FILE", "STATUS", "FRAMES", "DURATION", "STARTED", "ERROR"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	return nil
}

func formatRunDuration(run runs.Run) string {
	if !run.Finished() {
		return "-"
	}
	return run.Duration.Round(outcomePrecision).String()
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	return value[:max-1] + "…"
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
