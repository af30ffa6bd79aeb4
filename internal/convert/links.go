package convert

import (
	"fmt"
	"strconv"

	"github.com/sjellis/flowconv/internal/api"
	"github.com/sjellis/flowconv/internal/workflow"
)

// LinkTable resolves the UI edge list into id-keyed lookups. Links whose
// endpoints reference nonexistent nodes are dropped at build time with one
// warning each; construction never fails.
type LinkTable struct {
	byID map[int]workflow.Link
}

// BuildLinkTable indexes links against the given node id set. Each dangling
// link produces exactly one validation warning naming the missing endpoint.
func BuildLinkTable(links []workflow.Link, nodeIDs map[string]bool) (*LinkTable, []Issue) {
	table := &LinkTable{byID: make(map[int]workflow.Link, len(links))}
	var issues []Issue

	for _, link := range links {
		var missing string
		switch {
		case !nodeIDs[link.Origin]:
			missing = link.Origin
		case !nodeIDs[link.Target]:
			missing = link.Target
		}
		if missing != "" {
			issues = append(issues, Issue{
				Category: CategoryValidation,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("dropping link %d: endpoint references nonexistent node %s", link.ID, missing),
				Details: map[string]string{
					"link_id":      strconv.Itoa(link.ID),
					"missing_node": missing,
				},
			})
			continue
		}
		table.byID[link.ID] = link
	}
	return table, issues
}

// Resolve returns the origin of linkID as a NodeRef, or false when the link
// is unknown or was dropped as dangling.
func (t *LinkTable) Resolve(linkID int) (api.NodeRef, bool) {
	link, ok := t.byID[linkID]
	if !ok {
		return api.NodeRef{}, false
	}
	return api.NodeRef{NodeID: link.Origin, Slot: link.OriginSlot}, true
}

// Len returns the number of retained links.
func (t *LinkTable) Len() int {
	return len(t.byID)
}
