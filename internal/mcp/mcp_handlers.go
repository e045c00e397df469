package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/internal/form"
	"github.com/huangsam/codearchitect/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	client   contract.AnalysisClient
	history  contract.HistoryManager
	verifier contract.BranchVerifier
}

func (h *toolHandler) historyStore() contract.HistoryStore {
	if h.history == nil {
		return nil
	}
	return h.history.GetHistoryStore()
}

func (h *toolHandler) handleStartAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	values := form.Values{
		RepositoryURL: request.GetString("repository_url", ""),
		Branch:        request.GetString("branch", ""),
		FocusAreas:    request.GetString("focus_areas", ""),
		Depth:         strconv.Itoa(request.GetInt("depth", 0)),
	}
	req, err := form.Normalize(values)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid request: %v", err)), nil
	}

	if h.baseCfg.VerifyBranch && h.verifier != nil {
		ok, err := h.verifier.BranchExists(ctx, req.RepositoryURL, req.Branch)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("branch check failed: %v", err)), nil
		}
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("branch %q not found in %s", req.Branch, req.RepositoryURL)), nil
		}
	}

	resp, err := h.client.Start(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(contract.SubmissionErrorMessage(err)), nil
	}

	if store := h.historyStore(); store != nil && resp.AnalysisID != "" {
		_ = store.BeginSession(resp.AnalysisID, req, time.Now())
		if resp.Status.IsTerminal() {
			_ = store.EndSession(resp.AnalysisID, time.Now(), sessionOf(resp.AnalysisID, resp.Status, resp.Findings, resp.Recommendations))
		}
	}

	jsonData, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetAnalysisStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	analysisID := strings.TrimSpace(request.GetString("analysis_id", ""))
	if analysisID == "" {
		return mcp.NewToolResultError("analysis_id is required"), nil
	}

	resp, err := h.client.GetStatus(ctx, analysisID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status check failed: %v", err)), nil
	}

	final := sessionOf(analysisID, resp.Status, resp.Findings, resp.Recommendations)
	if store := h.historyStore(); store != nil && resp.Status.IsTerminal() {
		_ = store.EndSession(analysisID, time.Now(), final)
	}

	out := struct {
		AnalysisID string `json:"analysis_id"`
		schema.ResultsView
	}{analysisID, schema.ViewOf(final)}
	jsonData, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleHealthCheck(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := h.client.Health(ctx)
	if err != nil {
		return mcp.NewToolResultError(contract.BackendUnavailableMessage), nil
	}
	jsonData, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func sessionOf(id string, status schema.Status, findings schema.Findings, recs []string) schema.AnalysisSession {
	if recs == nil {
		recs = []string{}
	}
	return schema.AnalysisSession{
		AnalysisID:      id,
		Status:          status,
		Findings:        findings,
		Recommendations: recs,
	}
}
