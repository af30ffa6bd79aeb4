package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliCatalog = `{
	"TestNode": {"input": {"required": {"value": ["INT"]}}},
	"Source": {}
}`

const cliWorkflow = `{
	"nodes": [{"id": 1, "type": "TestNode", "widgets": [42]}],
	"links": []
}`

const cliBadWorkflow = `{
	"nodes": [{"id": 2, "type": "NoSuchType"}],
	"links": []
}`

// writeFixtures lays out catalog and workflow files in a temp dir.
func writeFixtures(t *testing.T, workflow string) (catalogPath, workflowPath string) {
	t.Helper()
	dir := t.TempDir()
	catalogPath = filepath.Join(dir, "catalog.json")
	workflowPath = filepath.Join(dir, "flow.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(cliCatalog), 0644))
	require.NoError(t, os.WriteFile(workflowPath, []byte(workflow), 0644))
	return catalogPath, workflowPath
}

func execute(t *testing.T, args ...string) (stdout string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func TestConvertCommandSuccess(t *testing.T) {
	catalog, flow := writeFixtures(t, cliWorkflow)

	out, err := execute(t, "convert", flow, "--catalog", catalog)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Converted 1/1 node(s)")
}

func TestConvertCommandWritesGraph(t *testing.T) {
	catalog, flow := writeFixtures(t, cliWorkflow)
	outPath := filepath.Join(filepath.Dir(flow), "graph.json")

	_, err := execute(t, "convert", flow, "--catalog", catalog, "--output", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var graph map[string]any
	require.NoError(t, json.Unmarshal(data, &graph))
	require.Contains(t, graph, "1")
}

func TestConvertCommandFailure(t *testing.T) {
	catalog, flow := writeFixtures(t, cliBadWorkflow)

	out, err := execute(t, "convert", flow, "--catalog", catalog)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Conversion failed")
	assert.Contains(t, out, "NoSuchType")
}

func TestConvertCommandJSONOutput(t *testing.T) {
	catalog, flow := writeFixtures(t, cliWorkflow)

	out, err := execute(t, "--format", "json", "convert", flow, "--catalog", catalog)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestConvertCommandMissingWorkflow(t *testing.T) {
	catalog, _ := writeFixtures(t, cliWorkflow)

	_, err := execute(t, "convert", "/no/such/flow.json", "--catalog", catalog)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConvertCommandMissingCatalog(t *testing.T) {
	_, flow := writeFixtures(t, cliWorkflow)

	_, err := execute(t, "convert", flow)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateCommand(t *testing.T) {
	catalog, flow := writeFixtures(t, cliWorkflow)

	out, err := execute(t, "validate", flow, "--catalog", catalog)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Workflow valid")
}

func TestValidateCommandFailure(t *testing.T) {
	catalog, flow := writeFixtures(t, cliBadWorkflow)

	out, err := execute(t, "validate", flow, "--catalog", catalog)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
}

func TestInspectCommandTypes(t *testing.T) {
	catalog, flow := writeFixtures(t, cliWorkflow)

	out, err := execute(t, "inspect", flow, "--catalog", catalog)
	require.NoError(t, err)
	assert.Contains(t, out, "TestNode: 1 node(s)")
}

func TestInspectCommandByID(t *testing.T) {
	catalog, flow := writeFixtures(t, cliWorkflow)

	out, err := execute(t, "inspect", flow, "--catalog", catalog, "--id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1 (TestNode)")
	assert.Contains(t, out, "value = 42")
}

func TestGraphCommandDOT(t *testing.T) {
	catalog, flow := writeFixtures(t, cliWorkflow)

	out, err := execute(t, "graph", flow, "--catalog", catalog)
	require.NoError(t, err)
	assert.Contains(t, out, "digraph flow {")
}

func TestGraphCommandTopo(t *testing.T) {
	catalog, flow := writeFixtures(t, cliWorkflow)

	out, err := execute(t, "graph", flow, "--catalog", catalog, "--render", "topo")
	require.NoError(t, err)
	assert.Contains(t, out, "1\n")
}

func TestGraphCommandBadRender(t *testing.T) {
	catalog, flow := writeFixtures(t, cliWorkflow)

	_, err := execute(t, "graph", flow, "--catalog", catalog, "--render", "ascii")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConvertRecordAndRunsList(t *testing.T) {
	catalog, flow := writeFixtures(t, cliWorkflow)
	dbPath := filepath.Join(filepath.Dir(flow), "runs.db")

	_, err := execute(t, "convert", flow, "--catalog", catalog, "--record", dbPath)
	require.NoError(t, err)

	out, err := execute(t, "runs", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "flow.json")
	assert.Contains(t, out, "1/1 node(s)")
}

func TestRunsCommandMissingDB(t *testing.T) {
	_, err := execute(t, "runs", "--db", "/no/such/runs.db")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
