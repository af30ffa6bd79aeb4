package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sjellis/flowconv/internal/convert"
	"github.com/sjellis/flowconv/internal/schema"
	"github.com/sjellis/flowconv/internal/store"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	Catalog     string        // node catalog path
	Output      string        // output file path for the API graph
	IncludeMeta bool          // carry node titles into _meta
	ServerURL   string        // recorded on the report
	Timeout     time.Duration // recorded on the report
	Record      string        // run record database path
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <workflow.json>",
		Short: "Convert a workflow to an API-format graph",
		Long: `Convert a UI workflow document to an executable API-format graph.

Each node's positional widget values are mapped to named inputs using
the catalog schema for its class; link edges become node references.
Nodes with missing schemas or broken required links are skipped and
reported; the rest convert. Exit code 1 means the report carries
critical issues, 2 means the command itself failed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Catalog, "catalog", "c", "", "node catalog file (object_info JSON)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the API graph to this file")
	cmd.Flags().BoolVar(&opts.IncludeMeta, "include-meta", false, "carry node titles into _meta")
	cmd.Flags().StringVar(&opts.ServerURL, "server-url", "", "server URL recorded on the report")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "timeout recorded on the report")
	cmd.Flags().StringVar(&opts.Record, "record", "", "append a run record to this database")

	return cmd
}

func runConvert(opts *ConvertOptions, workflowPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	applyConvertConfig(opts)

	report, _, err := convertWorkflow(opts, workflowPath, formatter)
	if err != nil {
		return err
	}

	if opts.Output != "" {
		data, err := json.MarshalIndent(report.APIData, "", "  ")
		if err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("marshaling graph: %v", err))
		}
		data = append(data, '\n')
		if err := os.WriteFile(opts.Output, data, 0644); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing %s: %v", opts.Output, err))
		}
		formatter.VerboseLog("Wrote API graph to %s", opts.Output)
	}

	if opts.Record != "" {
		if err := recordRun(opts.Record, workflowPath, report); err != nil {
			return outputCommandError(formatter, ErrCodeStoreFailed, err.Error())
		}
		formatter.VerboseLog("Recorded run in %s", opts.Record)
	}

	return outputReport(formatter, report)
}

// convertWorkflow loads the catalog and workflow and runs the conversion.
// Shared by convert, validate, inspect, and graph.
func convertWorkflow(opts *ConvertOptions, workflowPath string, formatter *OutputFormatter) (*convert.Report, *schema.Registry, error) {
	reg, warnings, err := LoadCatalog(opts.Catalog)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, nil, outputCommandError(formatter, loadErr.Code, loadErr.Message)
		}
		return nil, nil, outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	formatter.VerboseLog("Loaded %d node class(es) from %s", reg.Len(), opts.Catalog)
	for _, w := range warnings {
		formatter.VerboseLog("Catalog: skipped class %s: %s", w.ClassType, w.Message)
	}

	data, err := LoadWorkflow(workflowPath)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, nil, outputCommandError(formatter, loadErr.Code, loadErr.Message)
		}
		return nil, nil, outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}

	report := convert.ConvertDocument(data, reg, convert.Options{
		IncludeMeta: opts.IncludeMeta,
		ServerURL:   opts.ServerURL,
		Timeout:     opts.Timeout,
	})
	return report, reg, nil
}

// applyConvertConfig fills unset flags from the config file.
func applyConvertConfig(opts *ConvertOptions) {
	cfg := opts.Config()
	if opts.Catalog == "" {
		opts.Catalog = cfg.Catalog
	}
	if opts.ServerURL == "" {
		opts.ServerURL = cfg.ServerURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Duration(cfg.Timeout)
	}
	if !opts.IncludeMeta {
		opts.IncludeMeta = cfg.IncludeMeta
	}
	if opts.Record == "" {
		opts.Record = cfg.DB
	}
}

func recordRun(dbPath, source string, report *convert.Report) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	_, err = s.SaveRun(context.Background(), source, report)
	return err
}

// outputReport renders a conversion report and maps its success state to an
// exit code.
func outputReport(formatter *OutputFormatter, report *convert.Report) error {
	if formatter.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
		if !report.Success {
			return NewExitError(ExitFailure, fmt.Sprintf("conversion failed with %d error(s)", len(report.Errors)))
		}
		return nil
	}

	if report.Success {
		fmt.Fprintf(formatter.Writer, "✓ Converted %d/%d node(s)", report.ProcessedNodes, report.TotalNodes)
	} else {
		fmt.Fprintf(formatter.Writer, "✗ Conversion failed: %d/%d node(s) converted", report.ProcessedNodes, report.TotalNodes)
	}
	if report.SkippedNodes > 0 {
		fmt.Fprintf(formatter.Writer, ", %d skipped", report.SkippedNodes)
	}
	fmt.Fprintln(formatter.Writer)

	printIssues(formatter, "Errors", report.Errors)
	printIssues(formatter, "Warnings", report.Warnings)

	if !report.Success {
		return NewExitError(ExitFailure, fmt.Sprintf("conversion failed with %d error(s)", len(report.Errors)))
	}
	return nil
}

func printIssues(formatter *OutputFormatter, heading string, issues []convert.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(formatter.Writer, "\n%s:\n", heading)
	for _, issue := range issues {
		if issue.NodeID != "" {
			fmt.Fprintf(formatter.Writer, "  [%s] node %s: %s\n", issue.Category, issue.NodeID, issue.Message)
		} else {
			fmt.Fprintf(formatter.Writer, "  [%s] %s\n", issue.Category, issue.Message)
		}
	}
}

// outputCommandError outputs a command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
