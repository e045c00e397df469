package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/huangsam/codearchitect/internal/apiclient"
	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/internal/iocache"
	mcp_internal "github.com/huangsam/codearchitect/internal/mcp"
	"github.com/huangsam/codearchitect/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	exists bool
	err    error
}

func (f fakeVerifier) BranchExists(context.Context, string, string) (bool, error) {
	return f.exists, f.err
}

func callTool(t *testing.T, deps mcp_internal.Dependencies, cfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, deps)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestStartAnalysis(t *testing.T) {
	client := &apiclient.MockAnalysisClient{}
	client.On("Start", mock.Anything, schema.AnalysisRequest{
		RepositoryURL: "https://github.com/acme/widgets",
		Branch:        "main",
		FocusAreas:    []string{"security", "performance"},
		Depth:         4,
	}).Return(schema.StartResponse{AnalysisID: "abc", Status: schema.AnalyzingStatus}, nil)

	res := callTool(t, mcp_internal.Dependencies{Client: client}, &contract.Config{}, "start_analysis", map[string]any{
		"repository_url": "  https://github.com/acme/widgets ",
		"focus_areas":    "security, performance",
		"depth":          4.0,
	})
	assert.False(t, res.IsError)

	var got schema.StartResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, "abc", got.AnalysisID)
	assert.Equal(t, schema.AnalyzingStatus, got.Status)
	client.AssertExpectations(t)
}

func TestStartAnalysisDefaults(t *testing.T) {
	client := &apiclient.MockAnalysisClient{}
	client.On("Start", mock.Anything, schema.AnalysisRequest{
		RepositoryURL: "https://github.com/acme/widgets",
		Branch:        schema.DefaultBranch,
		FocusAreas:    schema.DefaultFocusAreas(),
		Depth:         schema.DefaultDepth,
	}).Return(schema.StartResponse{AnalysisID: "abc", Status: schema.PendingStatus}, nil)

	res := callTool(t, mcp_internal.Dependencies{Client: client}, &contract.Config{}, "start_analysis", map[string]any{
		"repository_url": "https://github.com/acme/widgets",
	})
	assert.False(t, res.IsError)
	client.AssertExpectations(t)
}

func TestStartAnalysisErrors(t *testing.T) {
	t.Run("missing repository url", func(t *testing.T) {
		client := &apiclient.MockAnalysisClient{}
		res := callTool(t, mcp_internal.Dependencies{Client: client}, &contract.Config{}, "start_analysis", map[string]any{
			"repository_url": "   ",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "repository URL is required")
		client.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
	})

	t.Run("backend error message", func(t *testing.T) {
		client := &apiclient.MockAnalysisClient{}
		client.On("Start", mock.Anything, mock.Anything).
			Return(schema.StartResponse{}, &apiclient.APIError{StatusCode: 400, Message: "Invalid repository"})
		res := callTool(t, mcp_internal.Dependencies{Client: client}, &contract.Config{}, "start_analysis", map[string]any{
			"repository_url": "https://github.com/acme/widgets",
		})
		assert.True(t, res.IsError)
		assert.Equal(t, "Invalid repository", resultText(t, res))
	})

	t.Run("branch not found", func(t *testing.T) {
		client := &apiclient.MockAnalysisClient{}
		deps := mcp_internal.Dependencies{Client: client, Verifier: fakeVerifier{exists: false}}
		res := callTool(t, deps, &contract.Config{VerifyBranch: true}, "start_analysis", map[string]any{
			"repository_url": "https://github.com/acme/widgets",
			"branch":         "develop",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), `branch "develop" not found`)
		client.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
	})
}

func TestStartAnalysisRecordsHistory(t *testing.T) {
	client := &apiclient.MockAnalysisClient{}
	client.On("Start", mock.Anything, mock.Anything).
		Return(schema.StartResponse{AnalysisID: "abc", Status: schema.AnalyzingStatus}, nil)

	store := &iocache.MockHistoryStore{}
	store.On("BeginSession", "abc", mock.Anything, mock.Anything).Return(nil)
	mgr := &iocache.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(store)

	res := callTool(t, mcp_internal.Dependencies{Client: client, History: mgr}, &contract.Config{}, "start_analysis", map[string]any{
		"repository_url": "https://github.com/acme/widgets",
	})
	assert.False(t, res.IsError)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "EndSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAnalysisStatus(t *testing.T) {
	client := &apiclient.MockAnalysisClient{}
	client.On("GetStatus", mock.Anything, "abc").Return(schema.StatusResponse{
		Status:          schema.CompletedStatus,
		Findings:        schema.Findings{{Category: "code_smells", Value: schema.TextValue("none found")}},
		Recommendations: []string{"Add tests"},
	}, nil)

	store := &iocache.MockHistoryStore{}
	store.On("EndSession", "abc", mock.Anything, mock.Anything).Return(nil)
	mgr := &iocache.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(store)

	res := callTool(t, mcp_internal.Dependencies{Client: client, History: mgr}, &contract.Config{}, "get_analysis_status", map[string]any{
		"analysis_id": "abc",
	})
	assert.False(t, res.IsError)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, "abc", got["analysis_id"])
	assert.Equal(t, "completed", got["status"])
	findings := got["findings"].([]any)
	require.Len(t, findings, 1)
	assert.Equal(t, "CODE SMELLS", findings[0].(map[string]any)["label"])
	store.AssertExpectations(t)
}

func TestGetAnalysisStatusErrors(t *testing.T) {
	client := &apiclient.MockAnalysisClient{}
	res := callTool(t, mcp_internal.Dependencies{Client: client}, &contract.Config{}, "get_analysis_status", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "analysis_id is required")

	client.On("GetStatus", mock.Anything, "missing").
		Return(schema.StatusResponse{}, &apiclient.APIError{StatusCode: 404, Message: "Analysis not found"})
	res = callTool(t, mcp_internal.Dependencies{Client: client}, &contract.Config{}, "get_analysis_status", map[string]any{
		"analysis_id": "missing",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Analysis not found")
}

func TestHealthCheck(t *testing.T) {
	client := &apiclient.MockAnalysisClient{}
	client.On("Health", mock.Anything).Return(schema.HealthResponse{Status: "healthy"}, nil).Once()
	client.On("Health", mock.Anything).Return(schema.HealthResponse{}, assert.AnError).Once()

	res := callTool(t, mcp_internal.Dependencies{Client: client}, &contract.Config{}, "health_check", nil)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "healthy")

	res = callTool(t, mcp_internal.Dependencies{Client: client}, &contract.Config{}, "health_check", nil)
	assert.True(t, res.IsError)
	assert.Equal(t, contract.BackendUnavailableMessage, resultText(t, res))
}
