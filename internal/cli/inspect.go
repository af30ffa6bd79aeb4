package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sjellis/flowconv/internal/api"
	"github.com/sjellis/flowconv/internal/model"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*ConvertOptions
	Type string // restrict to one class type
	ID   string // restrict to one node id
	Impl string // graph model implementation (indexed|scan)
}

// NodeView is the JSON shape for a single inspected node.
type NodeView struct {
	ID        string            `json:"id"`
	ClassType string            `json:"class_type"`
	Widgets   map[string]string `json:"widgets"` // name -> rendered value
	Title     string            `json:"title,omitempty"`
}

// InspectResult is the JSON payload for the inspect command.
type InspectResult struct {
	Types map[string]int `json:"types,omitempty"`
	Nodes []NodeView     `json:"nodes,omitempty"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{ConvertOptions: &ConvertOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "inspect <workflow.json>",
		Short: "Query the converted graph",
		Long: `Convert a workflow and query the result through the graph model.

With no selector, lists class types and their node counts. --type lists
the nodes of one class with their widget values; --id shows a single
node. Conversion diagnostics do not block inspection: whatever
converted is inspectable.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Catalog, "catalog", "c", "", "node catalog file (object_info JSON)")
	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "show nodes of this class type")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show the node with this id")
	cmd.Flags().StringVar(&opts.Impl, "model", "", "graph model implementation (indexed|scan)")

	return cmd
}

func runInspect(opts *InspectOptions, workflowPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	applyConvertConfig(opts.ConvertOptions)
	if opts.Impl == "" {
		opts.Impl = opts.Config().Model
	}

	m, err := buildModel(opts, workflowPath, formatter)
	if err != nil {
		return err
	}

	switch {
	case opts.ID != "":
		return inspectByID(formatter, m, opts.ID)
	case opts.Type != "":
		return inspectByType(formatter, m, opts.Type)
	default:
		return inspectTypes(formatter, m)
	}
}

// buildModel converts the workflow and wraps the result in a graph model.
func buildModel(opts *InspectOptions, workflowPath string, formatter *OutputFormatter) (model.Model, error) {
	report, reg, err := convertWorkflow(opts.ConvertOptions, workflowPath, formatter)
	if err != nil {
		return nil, err
	}
	for _, issue := range report.Errors {
		formatter.VerboseLog("Conversion: %s", issue.Message)
	}

	impl, err := model.ParseImpl(opts.Impl)
	if err != nil {
		return nil, outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	m, err := model.New(report.APIData, reg, model.Options{Impl: impl})
	if err != nil {
		return nil, outputCommandError(formatter, ErrCodeModelQuery, err.Error())
	}
	return m, nil
}

func inspectTypes(formatter *OutputFormatter, m model.Model) error {
	types := m.Types()
	counts := make(map[string]int, len(types))
	for _, t := range types {
		counts[t] = m.ByType(t).Len()
	}

	if formatter.Format == "json" {
		return formatter.Success(InspectResult{Types: counts})
	}

	if len(types) == 0 {
		fmt.Fprintln(formatter.Writer, "No nodes converted")
		return nil
	}
	for _, t := range types {
		fmt.Fprintf(formatter.Writer, "%s: %d node(s)\n", t, counts[t])
	}
	return nil
}

func inspectByType(formatter *OutputFormatter, m model.Model, classType string) error {
	group := m.ByType(classType)
	views := make([]NodeView, 0, group.Len())
	for _, node := range group.Members() {
		views = append(views, nodeView(node))
	}

	if formatter.Format == "json" {
		return formatter.Success(InspectResult{Nodes: views})
	}

	if len(views) == 0 {
		fmt.Fprintf(formatter.Writer, "No nodes of type %s\n", classType)
		return nil
	}
	for _, v := range views {
		printNodeView(formatter, v)
	}
	return nil
}

func inspectByID(formatter *OutputFormatter, m model.Model, id string) error {
	node, err := m.ByID(id)
	if err != nil {
		return outputCommandError(formatter, ErrCodeModelQuery, err.Error())
	}
	v := nodeView(node)

	if formatter.Format == "json" {
		return formatter.Success(InspectResult{Nodes: []NodeView{v}})
	}
	printNodeView(formatter, v)
	return nil
}

func nodeView(node *model.Node) NodeView {
	v := NodeView{
		ID:        node.ID(),
		ClassType: node.ClassType(),
		Widgets:   map[string]string{},
		Title:     node.API().Meta["title"],
	}
	for _, name := range node.WidgetNames() {
		lookup, err := node.Widget(name)
		if err != nil {
			continue
		}
		rendered, err := api.MarshalValue(lookup.Value())
		if err != nil {
			continue
		}
		v.Widgets[name] = string(rendered)
	}
	return v
}

func printNodeView(formatter *OutputFormatter, v NodeView) {
	fmt.Fprintf(formatter.Writer, "%s (%s)", v.ID, v.ClassType)
	if v.Title != "" {
		fmt.Fprintf(formatter.Writer, " %q", v.Title)
	}
	fmt.Fprintln(formatter.Writer)
	for _, name := range sortedKeys(v.Widgets) {
		fmt.Fprintf(formatter.Writer, "  %s = %s\n", name, v.Widgets[name])
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
