// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Dependencies are the collaborators the tools call into. History and
// Verifier are optional.
type Dependencies struct {
	Client   contract.AnalysisClient
	History  contract.HistoryManager
	Verifier contract.BranchVerifier
}

// NewMCPServer initializes and configures the Code Architect MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, deps Dependencies) *server.MCPServer {
	s := server.NewMCPServer(
		"codearchitect",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		client:   deps.Client,
		history:  deps.History,
		verifier: deps.Verifier,
	}

	s.AddTool(mcp.NewTool("start_analysis",
		mcp.WithDescription("Submit a repository for autonomous code analysis. Returns the analysis id and initial status."),
		mcp.WithString("repository_url", mcp.Description("URL of the Git repository to analyze."), mcp.Required()),
		mcp.WithString("branch", mcp.Description("Branch to analyze. Defaults to 'main'.")),
		mcp.WithString("focus_areas", mcp.Description("Comma-separated focus areas. Defaults to 'architecture,performance,security'.")),
		mcp.WithNumber("depth", mcp.Description("Analysis depth from 1 to 5. Defaults to 3.")),
	), h.handleStartAnalysis)

	s.AddTool(mcp.NewTool("get_analysis_status",
		mcp.WithDescription("Fetch the status, findings and recommendations of an analysis."),
		mcp.WithString("analysis_id", mcp.Description("Identifier returned by start_analysis."), mcp.Required()),
	), h.handleGetAnalysisStatus)

	s.AddTool(mcp.NewTool("health_check",
		mcp.WithDescription("Check that the analysis backend is reachable."),
	), h.handleHealthCheck)

	return s
}

// StartMCPServer starts the Code Architect MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, deps Dependencies) error {
	s := NewMCPServer(baseCfg, deps)
	return server.ServeStdio(s)
}
