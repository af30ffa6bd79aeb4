package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sjellis/flowconv/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	DB    string // run record database path
	Limit int    // max records to list
	ID    string // show one record in full
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded conversion runs",
		Long: `List conversion run records from the database, newest first.

Records are appended by convert --record. --id prints one record's full
report JSON.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "run record database path")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "max records to list (0 = all)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show the record with this id")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	if opts.DB == "" {
		opts.DB = opts.Config().DB
	}
	if opts.DB == "" {
		return outputCommandError(formatter, ErrCodeStoreFailed, "no database given (use --db or the config file)")
	}
	if _, err := os.Stat(opts.DB); os.IsNotExist(err) {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.DB))
	}

	s, err := store.Open(opts.DB)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStoreFailed, err.Error())
	}
	defer s.Close()

	ctx := context.Background()

	if opts.ID != "" {
		run, err := s.GetRun(ctx, opts.ID)
		if err != nil {
			return outputCommandError(formatter, ErrCodeStoreFailed, err.Error())
		}
		if formatter.Format == "json" {
			return formatter.Success(run)
		}
		printRun(formatter, *run)
		fmt.Fprintln(formatter.Writer, run.ReportJSON)
		return nil
	}

	runs, err := s.ListRuns(ctx, opts.Limit)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStoreFailed, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}
	for _, run := range runs {
		printRun(formatter, run)
	}
	return nil
}

func printRun(formatter *OutputFormatter, run store.Run) {
	status := "✓"
	if !run.Success {
		status = "✗"
	}
	fmt.Fprintf(formatter.Writer, "%s %s  %s  %s  %d/%d node(s), %d error(s), %d warning(s)\n",
		status,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339),
		run.Source,
		run.ProcessedNodes, run.TotalNodes,
		run.ErrorCount, run.WarningCount)
}
