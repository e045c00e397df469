// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSession renders a session snapshot using the configured output format.
func (ow *OutWriter) WriteSession(s schema.AnalysisSession, cfg *contract.Config) error {
	return WriteSessionResults(s, cfg)
}

// WriteHealth renders a health check result.
func (ow *OutWriter) WriteHealth(resp schema.HealthResponse, apiURL string, cfg *contract.Config) error {
	return WriteHealthResult(resp, apiURL, cfg)
}
