package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjellis/flowconv/internal/api"
)

// chainGraph: 1 -> 2 -> 3, plus 1 -> 3 directly.
func chainGraph() *api.Graph {
	g := api.NewGraph()
	g.Put("1", &api.Node{ClassType: "Loader", Inputs: map[string]api.Value{}})
	g.Put("2", &api.Node{ClassType: "Encoder", Inputs: map[string]api.Value{
		"model": api.NodeRef{NodeID: "1", Slot: 0},
	}})
	g.Put("3", &api.Node{ClassType: "Sampler", Inputs: map[string]api.Value{
		"model":  api.NodeRef{NodeID: "1", Slot: 0},
		"latent": api.NodeRef{NodeID: "2", Slot: 0},
		"seed":   api.Int(42),
	}})
	return g
}

func TestBuildEdges(t *testing.T) {
	d := Build(chainGraph())

	assert.Equal(t, []Edge{
		{From: "1", To: "2", Input: "model"},
		{From: "2", To: "3", Input: "latent"},
		{From: "1", To: "3", Input: "model"},
	}, d.Edges())
	assert.Empty(t, d.Dangling())
	assert.Empty(t, d.Deps("1"))
	assert.Equal(t, []string{"1"}, d.Deps("2"))
	assert.Equal(t, []string{"2", "1"}, d.Deps("3"))
}

func TestBuildCollectsDangling(t *testing.T) {
	g := api.NewGraph()
	g.Put("2", &api.Node{ClassType: "T", Inputs: map[string]api.Value{
		"src": api.NodeRef{NodeID: "ghost", Slot: 0},
	}})

	d := Build(g)
	assert.Empty(t, d.Edges())
	require.Len(t, d.Dangling(), 1)
	assert.Equal(t, Edge{From: "ghost", To: "2", Input: "src"}, d.Dangling()[0])
}

func TestAncestors(t *testing.T) {
	d := Build(chainGraph())

	assert.Empty(t, d.Ancestors("1"))
	assert.Equal(t, []string{"1"}, d.Ancestors("2"))
	assert.Equal(t, []string{"2", "1"}, d.Ancestors("3"))
}

func TestTopo(t *testing.T) {
	d := Build(chainGraph())
	order, err := d.Topo()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, order)
}

func TestTopoTieBreaksByInsertionOrder(t *testing.T) {
	g := api.NewGraph()
	g.Put("b", &api.Node{ClassType: "T", Inputs: map[string]api.Value{}})
	g.Put("a", &api.Node{ClassType: "T", Inputs: map[string]api.Value{}})
	g.Put("c", &api.Node{ClassType: "T", Inputs: map[string]api.Value{
		"x": api.NodeRef{NodeID: "a", Slot: 0},
	}})

	order, err := Build(g).Topo()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, order)
}

func TestTopoCycle(t *testing.T) {
	g := api.NewGraph()
	g.Put("1", &api.Node{ClassType: "T", Inputs: map[string]api.Value{
		"x": api.NodeRef{NodeID: "2", Slot: 0},
	}})
	g.Put("2", &api.Node{ClassType: "T", Inputs: map[string]api.Value{
		"x": api.NodeRef{NodeID: "1", Slot: 0},
	}})

	_, err := Build(g).Topo()
	require.Error(t, err)
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.NotEmpty(t, cycleErr.Cycle)
	assert.Contains(t, err.Error(), "dependency cycle")
}

func TestDOT(t *testing.T) {
	g := chainGraph()
	out := Build(g).DOT(g)

	assert.Contains(t, out, "digraph flow {")
	assert.Contains(t, out, `"1" [label="1\\nLoader"];`)
	assert.Contains(t, out, `"1" -> "2" [label="model"];`)
	assert.Contains(t, out, `"2" -> "3" [label="latent"];`)
}

func TestMermaid(t *testing.T) {
	g := chainGraph()
	out := Build(g).Mermaid(g)

	assert.Contains(t, out, "flowchart LR")
	assert.Contains(t, out, `n1["1: Loader"]`)
	assert.Contains(t, out, "n1 -->|model| n2")
	assert.Contains(t, out, "n2 -->|latent| n3")
}
