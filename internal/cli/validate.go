package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sjellis/flowconv/internal/convert"
)

// ValidationResult holds validation results for JSON output. The graph
// itself is deliberately omitted: validate is a dry run.
type ValidationResult struct {
	Valid          bool            `json:"valid"`
	Errors         []convert.Issue `json:"errors"`
	Warnings       []convert.Issue `json:"warnings"`
	ProcessedNodes int             `json:"processed_nodes"`
	SkippedNodes   int             `json:"skipped_nodes"`
	TotalNodes     int             `json:"total_nodes"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <workflow.json>",
		Short: "Validate a workflow without emitting a graph",
		Long: `Run the full conversion as a dry run and report diagnostics.

Identical checks to convert - document shape, catalog schemas, widget
counts, link integrity - but no graph is written. Exit code 1 means the
workflow has critical issues.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateWorkflow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Catalog, "catalog", "c", "", "node catalog file (object_info JSON)")

	return cmd
}

func runValidateWorkflow(opts *ConvertOptions, workflowPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	applyConvertConfig(opts)
	// Dry run: nothing is emitted or recorded.
	opts.Output = ""
	opts.Record = ""
	opts.ServerURL = ""
	opts.Timeout = time.Duration(0)

	report, _, err := convertWorkflow(opts, workflowPath, formatter)
	if err != nil {
		return err
	}

	result := ValidationResult{
		Valid:          report.Success,
		Errors:         report.Errors,
		Warnings:       report.Warnings,
		ProcessedNodes: report.ProcessedNodes,
		SkippedNodes:   report.SkippedNodes,
		TotalNodes:     report.TotalNodes,
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
		if !result.Valid {
			return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
		}
		return nil
	}

	if result.Valid {
		fmt.Fprintf(formatter.Writer, "✓ Workflow valid: %d node(s)\n", result.TotalNodes)
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	}
	printIssues(formatter, "Errors", result.Errors)
	printIssues(formatter, "Warnings", result.Warnings)

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}
	return nil
}
