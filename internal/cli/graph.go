package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sjellis/flowconv/internal/dag"
)

// GraphOptions holds flags for the graph command.
type GraphOptions struct {
	*ConvertOptions
	Render string // "dot" | "mermaid" | "topo"
}

// NewGraphCommand creates the graph command.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GraphOptions{ConvertOptions: &ConvertOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "graph <workflow.json>",
		Short: "Render the dependency graph of a converted workflow",
		Long: `Convert a workflow and render its node dependency graph.

--render dot emits Graphviz DOT, mermaid emits a Mermaid flowchart, and
topo prints one node id per line in a valid execution order. A cycle in
the graph fails topo with exit code 1.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Catalog, "catalog", "c", "", "node catalog file (object_info JSON)")
	cmd.Flags().StringVar(&opts.Render, "render", "dot", "rendering (dot|mermaid|topo)")

	return cmd
}

func runGraph(opts *GraphOptions, workflowPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	applyConvertConfig(opts.ConvertOptions)

	report, _, err := convertWorkflow(opts.ConvertOptions, workflowPath, formatter)
	if err != nil {
		return err
	}
	for _, issue := range report.Errors {
		formatter.VerboseLog("Conversion: %s", issue.Message)
	}

	d := dag.Build(report.APIData)

	switch opts.Render {
	case "dot":
		fmt.Fprint(formatter.Writer, d.DOT(report.APIData))
	case "mermaid":
		fmt.Fprint(formatter.Writer, d.Mermaid(report.APIData))
	case "topo":
		order, err := d.Topo()
		if err != nil {
			var cycleErr *dag.CycleError
			if errors.As(err, &cycleErr) {
				_ = formatter.Error(ErrCodeGraphHasCycle, err.Error(), cycleErr.Cycle)
				return NewExitError(ExitFailure, err.Error())
			}
			return outputCommandError(formatter, ErrCodeGeneric, err.Error())
		}
		for _, id := range order {
			fmt.Fprintln(formatter.Writer, id)
		}
	default:
		return outputCommandError(formatter, ErrCodeGeneric,
			fmt.Sprintf("invalid rendering %q: must be dot, mermaid, or topo", opts.Render))
	}
	return nil
}
