package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = original })
}

func sampleView() schema.ResultsView {
	metrics, _ := schema.StructuredValue([]byte(`{"loc":1200}`))
	return schema.BuildResultsView(
		schema.CompletedStatus,
		schema.Findings{
			{Category: "code_smells", Value: schema.TextValue("none found")},
			{Category: "metrics", Value: metrics},
		},
		[]string{"Add tests"},
	)
}

func TestWriteResultsText(t *testing.T) {
	noColor(t)
	cfg := &contract.Config{Width: 100}

	var buf bytes.Buffer
	require.NoError(t, writeResultsText(&buf, "abc-123", sampleView(), cfg))
	out := buf.String()

	assert.Contains(t, out, schema.AppTitle)
	assert.Contains(t, out, "Analysis ID: abc-123")
	assert.Contains(t, out, "Status: Completed")
	assert.Contains(t, out, "CODE SMELLS")
	assert.Contains(t, out, "none found")
	assert.Contains(t, out, "METRICS")
	assert.Contains(t, out, `"loc": 1200`)
	assert.Contains(t, out, "✓ Add tests")
	assert.Less(t, strings.Index(out, "CODE SMELLS"), strings.Index(out, "METRICS"))
}

func TestWriteResultsTextPlaceholder(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	require.NoError(t, writeResultsText(&buf, "", schema.ViewOf(schema.NewIdleSession()), &contract.Config{}))
	assert.Contains(t, buf.String(), PlaceholderMessage)
	assert.NotContains(t, buf.String(), "Status:")
}

func TestWriteResultsTextSectionsHidden(t *testing.T) {
	noColor(t)
	view := schema.BuildResultsView(schema.AnalyzingStatus, nil, []string{})

	var buf bytes.Buffer
	require.NoError(t, writeResultsText(&buf, "abc", view, &contract.Config{Width: 80}))
	out := buf.String()
	assert.Contains(t, out, "Status: Analyzing")
	assert.NotContains(t, out, "Findings")
	assert.NotContains(t, out, "Recommendations")
}

func TestWriteResultsTextKeepsFullBody(t *testing.T) {
	noColor(t)
	body := strings.Repeat("The service layer mixes transport and storage concerns. ", 6) + "END-OF-FINDING"
	view := schema.BuildResultsView(schema.CompletedStatus, schema.Findings{
		{Category: "architecture", Value: schema.TextValue(body)},
	}, nil)

	for _, width := range []int{60, 200} {
		var buf bytes.Buffer
		require.NoError(t, writeResultsText(&buf, "abc", view, &contract.Config{Width: width}))
		out := buf.String()
		assert.Contains(t, out, "END-OF-FINDING", "width %d", width)
		assert.NotContains(t, out, "...", "width %d", width)
		assert.Equal(t, 6, strings.Count(out, "transport"), "width %d", width)
	}
}

func TestWriteResultsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResultsCSV(&buf, sampleView()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"section", "position", "label", "category", "kind", "value"}, records[0])
	assert.Equal(t, []string{"finding", "0", "CODE SMELLS", "code_smells", "text", "none found"}, records[1])
	assert.Equal(t, "structured", records[2][4])
	assert.Equal(t, []string{"recommendation", "0", "", "", "text", "Add tests"}, records[3])
}

func TestWriteResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResultsJSON(&buf, "abc", sampleView()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "abc", got["analysis_id"])
	assert.Equal(t, "completed", got["status"])
	findings, ok := got["findings"].([]any)
	require.True(t, ok)
	assert.Len(t, findings, 2)
	assert.Equal(t, []any{"Add tests"}, got["recommendations"])
}

func TestWriteResultsJSONWithoutID(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResultsJSON(&buf, "", schema.ViewOf(schema.NewIdleSession())))
	assert.Contains(t, buf.String(), `"analysis_id": null`)
	assert.Contains(t, buf.String(), `"findings": null`)
}

func TestWriteSessionResultsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.parquet")
	cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: path}
	session := schema.AnalysisSession{
		AnalysisID:      "abc",
		Status:          schema.CompletedStatus,
		Findings:        schema.Findings{{Category: "summary", Value: schema.TextValue("ok")}},
		Recommendations: []string{"Ship it"},
	}
	require.NoError(t, WriteSessionResults(session, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteSessionResultsToFile(t *testing.T) {
	noColor(t)
	path := filepath.Join(t.TempDir(), "results.csv")
	ow := NewOutWriter()
	require.NoError(t, ow.WriteSession(schema.AnalysisSession{
		AnalysisID:      "abc",
		Status:          schema.FailedStatus,
		Recommendations: []string{},
	}, &contract.Config{Output: schema.CSVOut, OutputFile: path}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "section,position,label,category,kind,value\n", string(content))
}

func TestWriteHealth(t *testing.T) {
	noColor(t)
	dir := t.TempDir()

	textPath := filepath.Join(dir, "health.txt")
	ow := NewOutWriter()
	require.NoError(t, ow.WriteHealth(schema.HealthResponse{Status: "healthy", Service: "analyzer"},
		"http://localhost:8000", &contract.Config{Output: schema.TextOut, OutputFile: textPath}))
	content, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Equal(t, "✓ Backend reachable at http://localhost:8000 (status: healthy, service: analyzer)\n", string(content))

	jsonPath := filepath.Join(dir, "health.json")
	require.NoError(t, ow.WriteHealth(schema.HealthResponse{}, "http://api", &contract.Config{Output: schema.JSONOut, OutputFile: jsonPath}))
	content, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(content, &got))
	assert.Equal(t, true, got["reachable"])
	assert.Equal(t, "http://api", got["api_url"])
}

func TestGetMaxDetailWidth(t *testing.T) {
	assert.Equal(t, 80, GetTerminalWidth(&contract.Config{Width: 80}))
	assert.Equal(t, 80-12-7, GetMaxDetailWidth(&contract.Config{Width: 80}, 12))
	assert.Equal(t, minDetailWidth, GetMaxDetailWidth(&contract.Config{Width: 30}, 20))
	assert.Equal(t, maxDetailWidth, GetMaxDetailWidth(&contract.Config{Width: 400}, 10))
}
