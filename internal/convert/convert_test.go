package convert

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjellis/flowconv/internal/api"
	"github.com/sjellis/flowconv/internal/schema"
)

const testCatalog = `{
	"TestNode": {
		"input": {
			"required": {
				"value": ["INT"]
			}
		}
	},
	"Defaulted": {
		"input": {
			"required": {
				"seed": ["INT", {"default": 7}],
				"text": ["STRING"]
			}
		}
	},
	"Consumer": {
		"input": {
			"required": {
				"model": ["MODEL"],
				"strength": ["FLOAT", {"default": 1.0}]
			},
			"optional": {
				"mask": ["MASK"]
			}
		}
	},
	"Source": {}
}`

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg, warns, err := schema.ParseCatalog([]byte(testCatalog))
	require.NoError(t, err)
	require.Empty(t, warns)
	return reg
}

func TestConvertSingleValidNode(t *testing.T) {
	doc := `{"nodes": [{"id": 1, "type": "TestNode", "widgets": [42]}], "links": []}`
	report := ConvertDocument([]byte(doc), testRegistry(t), Options{})

	assert.True(t, report.Success)
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, 1, report.ProcessedNodes)
	assert.Equal(t, 0, report.SkippedNodes)
	assert.Equal(t, 1, report.TotalNodes)

	n := report.APIData.Get("1")
	require.NotNil(t, n)
	assert.Equal(t, "TestNode", n.ClassType)
	assert.True(t, api.Equal(api.Int(42), n.Inputs["value"]))
}

func TestConvertUnknownTypeSkipsNode(t *testing.T) {
	doc := `{"nodes": [{"id": 2, "type": "InvalidNode"}], "links": []}`
	report := ConvertDocument([]byte(doc), testRegistry(t), Options{})

	assert.False(t, report.Success)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, CategorySchema, report.Errors[0].Category)
	assert.Equal(t, SeverityCritical, report.Errors[0].Severity)
	assert.Equal(t, "2", report.Errors[0].NodeID)
	assert.Equal(t, 0, report.ProcessedNodes)
	assert.Equal(t, 1, report.SkippedNodes)
	assert.Equal(t, 1, report.TotalNodes)
	assert.Equal(t, 0, report.APIData.Len())
}

func TestConvertUnknownTypeWithDeclaredLink(t *testing.T) {
	// A schema-less node skips on the missing schema alone, even when it
	// declares an input whose link resolves nowhere.
	doc := `{"nodes": [
		{"id": 2, "type": "InvalidNode",
		 "inputs": [{"name": "bad_input", "link": 999}]}
	], "links": []}`
	report := ConvertDocument([]byte(doc), testRegistry(t), Options{})

	assert.False(t, report.Success)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, CategorySchema, report.Errors[0].Category)
	assert.Equal(t, SeverityCritical, report.Errors[0].Severity)
	assert.Equal(t, "2", report.Errors[0].NodeID)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, 1, report.SkippedNodes)
	assert.Equal(t, 0, report.APIData.Len())
}

func TestConvertPartialSuccess(t *testing.T) {
	// One valid node, one without a schema: the valid node still converts.
	doc := `{"nodes": [
		{"id": 1, "type": "TestNode", "widgets": [42]},
		{"id": 2, "type": "InvalidNode"}
	], "links": []}`
	report := ConvertDocument([]byte(doc), testRegistry(t), Options{})

	assert.False(t, report.Success)
	assert.Equal(t, 1, report.ProcessedNodes)
	assert.Equal(t, 1, report.SkippedNodes)
	assert.Equal(t, 2, report.TotalNodes)
	assert.NotNil(t, report.APIData.Get("1"))
	assert.Nil(t, report.APIData.Get("2"))
}

func TestConvertDefaultSubstitution(t *testing.T) {
	// A missing widget with a declared default fills in silently; a missing
	// required default-less widget is critical but the node still converts.
	doc := `{"nodes": [{"id": 1, "type": "Defaulted", "widgets": []}], "links": []}`
	report := ConvertDocument([]byte(doc), testRegistry(t), Options{})

	assert.False(t, report.Success)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "text")

	// Deficit is not a skip: the node converted with what it had.
	assert.Equal(t, 1, report.ProcessedNodes)
	n := report.APIData.Get("1")
	require.NotNil(t, n)
	assert.True(t, api.Equal(api.Int(7), n.Inputs["seed"]))
	_, hasText := n.Inputs["text"]
	assert.False(t, hasText)
}

func TestConvertSurplusWidgets(t *testing.T) {
	doc := `{"nodes": [{"id": 1, "type": "TestNode", "widgets": [42, "extra", true]}], "links": []}`
	report := ConvertDocument([]byte(doc), testRegistry(t), Options{})

	assert.True(t, report.Success)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0].Message, "2 surplus")
	assert.Equal(t, 1, report.ProcessedNodes)
}

func TestConvertLinkResolution(t *testing.T) {
	doc := `{"nodes": [
		{"id": 1, "type": "Source"},
		{"id": 2, "type": "Consumer", "widgets": [0.5],
		 "inputs": [{"name": "model", "link": 9}]}
	], "links": [[9, 1, 0, 2, 0, "MODEL"]]}`
	report := ConvertDocument([]byte(doc), testRegistry(t), Options{})

	assert.True(t, report.Success)
	assert.Equal(t, 2, report.ProcessedNodes)

	n := report.APIData.Get("2")
	require.NotNil(t, n)
	ref, ok := n.Inputs["model"].(api.NodeRef)
	require.True(t, ok)
	assert.Equal(t, api.NodeRef{NodeID: "1", Slot: 0}, ref)
	assert.True(t, api.Equal(api.Float(0.5), n.Inputs["strength"]))
}

func TestConvertMissingRequiredLinkSkipsNode(t *testing.T) {
	doc := `{"nodes": [{"id": 2, "type": "Consumer", "widgets": [0.5]}], "links": []}`
	report := ConvertDocument([]byte(doc), testRegistry(t), Options{})

	assert.False(t, report.Success)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "model")
	assert.Equal(t, 1, report.SkippedNodes)
	assert.Nil(t, report.APIData.Get("2"))
}

func TestConvertOptionalLinkAbsentIsSilent(t *testing.T) {
	doc := `{"nodes": [
		{"id": 1, "type": "Source"},
		{"id": 2, "type": "Consumer", "widgets": [0.5],
		 "inputs": [{"name": "model", "link": 9}, {"name": "mask", "link": null}]}
	], "links": [[9, 1, 0, 2, 0, "MODEL"]]}`
	report := ConvertDocument([]byte(doc), testRegistry(t), Options{})

	assert.True(t, report.Success)
	assert.Empty(t, report.Warnings)
	n := report.APIData.Get("2")
	require.NotNil(t, n)
	_, hasMask := n.Inputs["mask"]
	assert.False(t, hasMask)
}

func TestConvertDanglingLinkWarnsOnce(t *testing.T) {
	// A link whose origin does not exist is dropped at table build with
	// exactly one warning; the consumer then fails its required link.
	doc := `{"nodes": [
		{"id": 2, "type": "Consumer", "widgets": [0.5],
		 "inputs": [{"name": "model", "link": 9}]}
	], "links": [[9, 77, 0, 2, 0, "MODEL"]]}`
	report := ConvertDocument([]byte(doc), testRegistry(t), Options{})

	assert.False(t, report.Success)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, CategoryValidation, report.Warnings[0].Category)
	assert.Contains(t, report.Warnings[0].Message, "77")
	assert.Equal(t, "9", report.Warnings[0].Details["link_id"])
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "unresolvable link 9")
}

func TestConvertIncludeMeta(t *testing.T) {
	doc := `{"nodes": [{"id": 1, "type": "TestNode", "widgets": [42], "title": "Answer"}], "links": []}`

	with := ConvertDocument([]byte(doc), testRegistry(t), Options{IncludeMeta: true})
	require.NotNil(t, with.APIData.Get("1"))
	assert.Equal(t, "Answer", with.APIData.Get("1").Meta["title"])

	without := ConvertDocument([]byte(doc), testRegistry(t), Options{})
	assert.Nil(t, without.APIData.Get("1").Meta)
}

func TestConvertDocumentShapeFailure(t *testing.T) {
	report := ConvertDocument([]byte(`{"nodes": "wrong"}`), testRegistry(t), Options{})

	assert.False(t, report.Success)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, CategoryValidation, report.Errors[0].Category)
	assert.Equal(t, 0, report.TotalNodes)
	assert.Equal(t, 0, report.APIData.Len())
}

func TestConvertRecordsServerContext(t *testing.T) {
	doc := `{"nodes": [], "links": []}`
	report := ConvertDocument([]byte(doc), testRegistry(t), Options{ServerURL: "http://127.0.0.1:8188"})

	assert.Equal(t, "http://127.0.0.1:8188", report.ServerURL)

	// Pass-through only: the wire form never carries it.
	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "8188")
}

func TestReportWireShape(t *testing.T) {
	// Empty reports must marshal [] and {}, never null.
	doc := `{"nodes": [], "links": []}`
	report := ConvertDocument([]byte(doc), testRegistry(t), Options{})

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Equal(t,
		`{"success":true,"errors":[],"warnings":[],"api_data":{},"processed_nodes":0,"skipped_nodes":0,"total_nodes":0}`,
		string(data))
}

func TestConvertDeterministic(t *testing.T) {
	doc := `{"nodes": [
		{"id": 1, "type": "TestNode", "widgets": [42]},
		{"id": 2, "type": "InvalidNode"},
		{"id": 3, "type": "Source"}
	], "links": []}`
	reg := testRegistry(t)

	first, err := json.Marshal(ConvertDocument([]byte(doc), reg, Options{}))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := json.Marshal(ConvertDocument([]byte(doc), reg, Options{}))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestReportGolden(t *testing.T) {
	doc := `{"nodes": [
		{"id": 1, "type": "TestNode", "widgets": [42]},
		{"id": 2, "type": "InvalidNode"}
	], "links": []}`
	report := ConvertDocument([]byte(doc), testRegistry(t), Options{})

	data, err := json.Marshal(report)
	require.NoError(t, err)

	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, "partial_success_report", data)
}
