package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjellis/flowconv/internal/api"
	"github.com/sjellis/flowconv/internal/workflow"
)

func TestBuildLinkTable(t *testing.T) {
	links := []workflow.Link{
		{ID: 1, Origin: "a", OriginSlot: 0, Target: "b", TargetSlot: 0},
		{ID: 2, Origin: "b", OriginSlot: 1, Target: "c", TargetSlot: 0},
	}
	nodes := map[string]bool{"a": true, "b": true, "c": true}

	table, issues := BuildLinkTable(links, nodes)
	assert.Empty(t, issues)
	assert.Equal(t, 2, table.Len())

	ref, ok := table.Resolve(2)
	require.True(t, ok)
	assert.Equal(t, api.NodeRef{NodeID: "b", Slot: 1}, ref)

	_, ok = table.Resolve(99)
	assert.False(t, ok)
}

func TestBuildLinkTableDropsDangling(t *testing.T) {
	links := []workflow.Link{
		{ID: 1, Origin: "ghost", Target: "b"},
		{ID: 2, Origin: "a", Target: "phantom"},
		{ID: 3, Origin: "a", Target: "b"},
	}
	nodes := map[string]bool{"a": true, "b": true}

	table, issues := BuildLinkTable(links, nodes)
	require.Len(t, issues, 2)
	for _, issue := range issues {
		assert.Equal(t, CategoryValidation, issue.Category)
		assert.Equal(t, SeverityWarning, issue.Severity)
	}
	assert.Equal(t, "ghost", issues[0].Details["missing_node"])
	assert.Equal(t, "phantom", issues[1].Details["missing_node"])

	assert.Equal(t, 1, table.Len())
	_, ok := table.Resolve(1)
	assert.False(t, ok)
	_, ok = table.Resolve(3)
	assert.True(t, ok)
}
