package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjellis/flowconv/internal/api"
)

func TestParseBasicWorkflow(t *testing.T) {
	doc := `{
		"nodes": [
			{"id": 1, "type": "Loader", "widgets": ["model.bin"]},
			{"id": 2, "type": "Sampler", "widgets": [42, 0.5],
			 "inputs": [{"name": "model", "link": 7}],
			 "title": "My Sampler"}
		],
		"links": [
			[7, 1, 0, 2, 0, "MODEL"]
		]
	}`

	wf, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, wf.Nodes, 2)
	require.Len(t, wf.Links, 1)

	n1 := wf.Nodes[0]
	assert.Equal(t, "1", n1.ID)
	assert.Equal(t, "Loader", n1.Type)
	require.Len(t, n1.Widgets, 1)
	assert.True(t, api.Equal(api.String("model.bin"), n1.Widgets[0]))

	n2 := wf.Nodes[1]
	assert.Equal(t, "2", n2.ID)
	assert.Equal(t, "My Sampler", n2.Title)
	require.Len(t, n2.Widgets, 2)
	assert.True(t, api.Equal(api.Int(42), n2.Widgets[0]))
	assert.True(t, api.Equal(api.Float(0.5), n2.Widgets[1]))
	require.Len(t, n2.Inputs, 1)
	assert.Equal(t, "model", n2.Inputs[0].Name)
	require.NotNil(t, n2.Inputs[0].Link)
	assert.Equal(t, 7, *n2.Inputs[0].Link)

	link := wf.Links[0]
	assert.Equal(t, 7, link.ID)
	assert.Equal(t, "1", link.Origin)
	assert.Equal(t, 0, link.OriginSlot)
	assert.Equal(t, "2", link.Target)
	assert.Equal(t, 0, link.TargetSlot)
	assert.Equal(t, "MODEL", link.Type)
}

func TestParseLinkObjectForm(t *testing.T) {
	doc := `{
		"nodes": [{"id": "a", "type": "T"}],
		"links": [
			{"id": 3, "origin": "a", "origin_slot": 1, "target": "b", "target_slot": 2, "type": "LATENT"}
		]
	}`

	wf, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, wf.Links, 1)

	link := wf.Links[0]
	assert.Equal(t, 3, link.ID)
	assert.Equal(t, "a", link.Origin)
	assert.Equal(t, 1, link.OriginSlot)
	assert.Equal(t, "b", link.Target)
	assert.Equal(t, 2, link.TargetSlot)
	assert.Equal(t, "LATENT", link.Type)
}

func TestParseLegacyWidgetsValuesKey(t *testing.T) {
	doc := `{"nodes": [{"id": 1, "type": "T", "widgets_values": [7]}], "links": []}`

	wf, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, wf.Nodes, 1)
	require.Len(t, wf.Nodes[0].Widgets, 1)
	assert.True(t, api.Equal(api.Int(7), wf.Nodes[0].Widgets[0]))
}

func TestParseNumericAndStringIDs(t *testing.T) {
	// Numeric ids normalize to their string form so every downstream lookup
	// works on one representation.
	doc := `{
		"nodes": [{"id": 10, "type": "A"}, {"id": "x1", "type": "B"}],
		"links": [[1, 10, 0, "x1", 0]]
	}`

	wf, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "10", wf.Nodes[0].ID)
	assert.Equal(t, "x1", wf.Nodes[1].ID)
	assert.Equal(t, "10", wf.Links[0].Origin)
	assert.Equal(t, "x1", wf.Links[0].Target)
}

func TestParseDropsNoiseEntries(t *testing.T) {
	doc := `{
		"nodes": [42, {"id": 1, "type": "T"}, "junk"],
		"links": [null, [1, 1, 0, 1, 0], "junk", [2]]
	}`

	wf, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Len(t, wf.Nodes, 1)
	assert.Len(t, wf.Links, 1)
}

func TestParseRejectsBrokenJSON(t *testing.T) {
	_, err := Parse([]byte(`{"nodes": [`))
	assert.Error(t, err)
}

func TestParseDisconnectedInput(t *testing.T) {
	doc := `{"nodes": [{"id": 1, "type": "T", "inputs": [{"name": "model", "link": null}]}], "links": []}`

	wf, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, wf.Nodes[0].Inputs, 1)
	assert.Nil(t, wf.Nodes[0].Inputs[0].Link)
}
