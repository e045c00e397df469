// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/codearchitect/schema"
)

// AnalysisClient defines the remote operations of the analysis backend.
// This allows the controller and the MCP server to be tested without a backend.
type AnalysisClient interface {
	// Start submits a new analysis request.
	Start(ctx context.Context, req schema.AnalysisRequest) (schema.StartResponse, error)

	// GetStatus fetches the current state of an analysis.
	GetStatus(ctx context.Context, analysisID string) (schema.StatusResponse, error)

	// Health confirms that the backend is reachable.
	Health(ctx context.Context) (schema.HealthResponse, error)
}

// BranchVerifier checks that a branch exists on a remote repository before
// an analysis is submitted.
type BranchVerifier interface {
	BranchExists(ctx context.Context, repoURL, branch string) (bool, error)
}

// HistoryManager defines the interface for managing the history store.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for recording analysis sessions.
type HistoryStore interface {
	// BeginSession records a submitted request under its backend identifier.
	BeginSession(analysisID string, req schema.AnalysisRequest, startTime time.Time) error

	// EndSession records the terminal state of a session, with its findings
	// and recommendations.
	EndSession(analysisID string, endTime time.Time, final schema.AnalysisSession) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
