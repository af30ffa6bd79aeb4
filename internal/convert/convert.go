package convert

import (
	"fmt"
	"time"

	"github.com/sjellis/flowconv/internal/api"
	"github.com/sjellis/flowconv/internal/schema"
	"github.com/sjellis/flowconv/internal/workflow"
)

// Options controls a conversion run.
type Options struct {
	// IncludeMeta attaches a display-only _meta block (the UI title) to each
	// converted node. Nothing in the converter ever reads it back.
	IncludeMeta bool

	// ServerURL and Timeout are recorded onto the report for observability.
	// The converter performs no network activity; submitting the produced
	// graph is the transport collaborator's capability.
	ServerURL string
	Timeout   time.Duration
}

// Convert transforms a parsed UI workflow into an API-format graph,
// validating every node against the registry and accumulating structured
// diagnostics. Nodes are processed in the workflow's own order, so identical
// inputs yield byte-identical reports.
//
// Conversion is fail-soft: a critical failure on one node skips that node
// and continues with the rest.
func Convert(wf *workflow.Workflow, reg *schema.Registry, opts Options) *Report {
	report := newReport()
	report.ServerURL = opts.ServerURL
	report.Timeout = opts.Timeout
	report.TotalNodes = len(wf.Nodes)

	nodeIDs := make(map[string]bool, len(wf.Nodes))
	for _, node := range wf.Nodes {
		nodeIDs[node.ID] = true
	}

	table, linkIssues := BuildLinkTable(wf.Links, nodeIDs)
	for _, issue := range linkIssues {
		report.record(issue)
	}

	for _, node := range wf.Nodes {
		apiNode, issues := safeConvertNode(node, reg, table, opts.IncludeMeta)
		for _, issue := range issues {
			report.record(issue)
		}
		if apiNode == nil {
			report.SkippedNodes++
			continue
		}
		report.APIData.Put(node.ID, apiNode)
		report.ProcessedNodes++
	}

	return report.finalize()
}

// safeConvertNode guards the per-node conversion so an invariant violation
// surfaces as a structured internal issue instead of an escaping panic.
func safeConvertNode(node workflow.Node, reg *schema.Registry, table *LinkTable, includeMeta bool) (apiNode *api.Node, issues []Issue) {
	defer func() {
		if r := recover(); r != nil {
			apiNode = nil
			issues = append(issues, Issue{
				Category: CategoryInternal,
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("invariant violation while converting node: %v", r),
				NodeID:   node.ID,
				Details:  map[string]string{"class_type": node.Type},
			})
		}
	}()

	var cls *schema.ClassSchema
	if found, ok := reg.Lookup(node.Type); ok {
		cls = found
	}
	return convertNode(node, cls, table, includeMeta)
}

// ConvertDocument runs the full pipeline on a raw workflow document: shape
// check, parse, convert. A document that fails the shape check yields an
// empty report with a single critical validation issue, mirroring how a
// malformed node yields a skipped node rather than an aborted run.
func ConvertDocument(data []byte, reg *schema.Registry, opts Options) *Report {
	if err := workflow.CheckDocument(data); err != nil {
		report := newReport()
		report.record(Issue{
			Category: CategoryValidation,
			Severity: SeverityCritical,
			Message:  err.Error(),
		})
		return report.finalize()
	}

	wf, err := workflow.Parse(data)
	if err != nil {
		report := newReport()
		report.record(Issue{
			Category: CategoryValidation,
			Severity: SeverityCritical,
			Message:  err.Error(),
		})
		return report.finalize()
	}

	return Convert(wf, reg, opts)
}
