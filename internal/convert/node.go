package convert

import (
	"fmt"

	"github.com/sjellis/flowconv/internal/api"
	"github.com/sjellis/flowconv/internal/schema"
	"github.com/sjellis/flowconv/internal/workflow"
)

// convertNode converts one UI node against its class schema and the link
// table. It returns the API node (nil when the node must be skipped) and the
// issues it raised, in the order they were detected.
//
// Skip semantics: a node is skipped only for a missing schema or a failed
// required link. A missing required widget value is critical and fails the
// run, but the node still converts with that parameter absent, so callers
// can see everything else that mapped.
func convertNode(node workflow.Node, cls *schema.ClassSchema, table *LinkTable, includeMeta bool) (*api.Node, []Issue) {
	if cls == nil {
		return nil, []Issue{{
			Category: CategorySchema,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("no schema registered for node type %q", node.Type),
			NodeID:   node.ID,
			Details:  map[string]string{"class_type": node.Type},
		}}
	}

	var issues []Issue
	out := &api.Node{ClassType: node.Type, Inputs: make(map[string]api.Value)}

	widgetSpecs := cls.Widgets()
	issues = append(issues, consumeWidgets(node, widgetSpecs, out)...)

	linkIssues, failed := resolveLinks(node, cls.Links(), table, out)
	issues = append(issues, linkIssues...)
	if failed {
		return nil, issues
	}

	if includeMeta && node.Title != "" {
		out.Meta = map[string]string{"title": node.Title}
	}
	return out, issues
}

// consumeWidgets maps the node's positional widget values onto the ordered
// widget specs. Surplus values are dropped with a single warning; a deficit
// substitutes the schema default when one exists, raises a critical issue
// for a required default-less spec, and is silent for an optional one.
func consumeWidgets(node workflow.Node, specs []schema.ParamSpec, out *api.Node) []Issue {
	var issues []Issue

	for i, spec := range specs {
		if i < len(node.Widgets) {
			out.Inputs[spec.Name] = node.Widgets[i]
			continue
		}
		if spec.HasDefault() {
			out.Inputs[spec.Name] = spec.Default
			continue
		}
		if spec.Required {
			issues = append(issues, Issue{
				Category: CategoryValidation,
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("missing required widget value for %q", spec.Name),
				NodeID:   node.ID,
				Details:  map[string]string{"class_type": node.Type, "input": spec.Name},
			})
		}
		// Optional and default-less: omitted silently.
	}

	if surplus := len(node.Widgets) - len(specs); surplus > 0 {
		issues = append(issues, Issue{
			Category: CategoryValidation,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("dropping %d surplus widget value(s) beyond the %d declared", surplus, len(specs)),
			NodeID:   node.ID,
			Details:  map[string]string{"class_type": node.Type},
		})
	}
	return issues
}

// resolveLinks matches link specs by name against the node's declared inputs
// and resolves each through the table. The second return is true when a
// required link failed, which skips the node.
func resolveLinks(node workflow.Node, specs []schema.ParamSpec, table *LinkTable, out *api.Node) ([]Issue, bool) {
	declared := make(map[string]*int, len(node.Inputs))
	for _, in := range node.Inputs {
		declared[in.Name] = in.Link
	}

	var issues []Issue
	failed := false
	for _, spec := range specs {
		linkID, ok := declared[spec.Name]
		if !ok || linkID == nil {
			if spec.Required {
				issues = append(issues, Issue{
					Category: CategoryValidation,
					Severity: SeverityCritical,
					Message:  fmt.Sprintf("required link input %q is not connected", spec.Name),
					NodeID:   node.ID,
					Details:  map[string]string{"class_type": node.Type, "input": spec.Name},
				})
				failed = true
			}
			continue
		}
		ref, ok := table.Resolve(*linkID)
		if !ok {
			if spec.Required {
				issues = append(issues, Issue{
					Category: CategoryValidation,
					Severity: SeverityCritical,
					Message:  fmt.Sprintf("required link input %q references unresolvable link %d", spec.Name, *linkID),
					NodeID:   node.ID,
					Details:  map[string]string{"class_type": node.Type, "input": spec.Name},
				})
				failed = true
			}
			continue
		}
		out.Inputs[spec.Name] = ref
	}
	return issues, failed
}
