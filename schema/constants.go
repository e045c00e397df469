// Package schema has the wire models, session state and output constants for codearchitect.
package schema

import "time"

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// Status represents the status of an analysis session.
	Status string

	// DatabaseBackend represents the database backend for analysis history.
	DatabaseBackend string

	// FindingKind tags the variant held by a FindingValue.
	FindingKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All session statuses. Idle is client-side only; the backend reports
// pending, analyzing, completed and failed.
const (
	IdleStatus      Status = "idle"
	PendingStatus   Status = "pending"
	AnalyzingStatus Status = "analyzing"
	CompletedStatus Status = "completed"
	FailedStatus    Status = "failed"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// Finding variants.
const (
	TextFinding       FindingKind = "text"
	StructuredFinding FindingKind = "structured"
)

// Request defaults applied by the submission form.
const (
	DefaultBranch = "main"
	DefaultDepth  = 3
	MinDepth      = 1
	MaxDepth      = 5
)

// Client defaults.
const (
	DefaultAPIURL       = "http://localhost:8000"
	DefaultPollInterval = 3000 * time.Millisecond
	AppTitle            = "Code Architect"
)

// DefaultFocusAreas returns a fresh copy of the default focus areas.
func DefaultFocusAreas() []string {
	return []string{"architecture", "performance", "security"}
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidHistoryBackends lists all valid history backends.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// IsTerminal reports whether no further transitions follow this status
// without an explicit reset.
func (s Status) IsTerminal() bool {
	return s == CompletedStatus || s == FailedStatus
}

// IsPolling reports whether a session in this status is polled. Only
// analyzing is; pending and unknown values stop the timer like terminal ones.
func (s Status) IsPolling() bool {
	return s == AnalyzingStatus
}
