package convert

import (
	"fmt"
	"time"

	"github.com/sjellis/flowconv/internal/api"
)

// Category classifies what went wrong.
type Category string

const (
	// CategorySchema marks an unknown or missing type definition.
	CategorySchema Category = "schema"
	// CategoryValidation marks malformed structure: dangling links, arity
	// mismatches, wrong-kind parameter access.
	CategoryValidation Category = "validation"
	// CategoryNetwork marks transport failures. The converter itself never
	// produces these; the constant exists for the transport collaborator so
	// its issues land in the same taxonomy.
	CategoryNetwork Category = "network"
	// CategoryInternal marks invariant violations that should not occur on
	// well-formed input. They surface as structured issues, never as a
	// panic escaping the converter.
	CategoryInternal Category = "internal"
)

// Severity grades an issue. Critical forces success=false and, for schema
// and link failures, skips the offending node; warnings never prevent a node
// from counting as processed.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Issue is one structured diagnostic. Issues accumulate in insertion order
// and are never deduplicated.
type Issue struct {
	Category Category          `json:"category"`
	Severity Severity          `json:"severity"`
	Message  string            `json:"message"`
	NodeID   string            `json:"node_id,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

// Error implements the error interface so an Issue can travel through error
// channels at the CLI boundary.
func (i Issue) Error() string {
	if i.NodeID != "" {
		return fmt.Sprintf("%s/%s: %s (node=%s)", i.Category, i.Severity, i.Message, i.NodeID)
	}
	return fmt.Sprintf("%s/%s: %s", i.Category, i.Severity, i.Message)
}

// Report is the full outcome of a conversion. Field order matters: it is the
// wire contract any transport or CLI layer reproduces verbatim.
//
// Invariants: ProcessedNodes + SkippedNodes == TotalNodes, and Success holds
// exactly when Errors is empty.
type Report struct {
	Success        bool       `json:"success"`
	Errors         []Issue    `json:"errors"`
	Warnings       []Issue    `json:"warnings"`
	APIData        *api.Graph `json:"api_data"`
	ProcessedNodes int        `json:"processed_nodes"`
	SkippedNodes   int        `json:"skipped_nodes"`
	TotalNodes     int        `json:"total_nodes"`

	// ServerURL and Timeout are opaque pass-through values recorded for
	// observability. The converter never dials out with them; submission is
	// the transport collaborator's job.
	ServerURL string        `json:"-"`
	Timeout   time.Duration `json:"-"`
}

// newReport returns a report with non-nil slices and graph so the wire form
// always carries [] and {} rather than null.
func newReport() *Report {
	return &Report{
		Errors:   []Issue{},
		Warnings: []Issue{},
		APIData:  api.NewGraph(),
	}
}

// record routes an issue to the error or warning list by severity alone;
// category never affects routing.
func (r *Report) record(issue Issue) {
	if issue.Severity == SeverityCritical {
		r.Errors = append(r.Errors, issue)
	} else {
		r.Warnings = append(r.Warnings, issue)
	}
}

// finalize settles the success flag from the error list.
func (r *Report) finalize() *Report {
	r.Success = len(r.Errors) == 0
	return r
}
