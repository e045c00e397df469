package schema

import "time"

// HistoryStatus represents the status of the analysis history store.
type HistoryStatus struct {
	Backend         string           `json:"backend"`
	Connected       bool             `json:"connected"`
	TotalSessions   int              `json:"total_sessions"`
	LastAnalysisID  string           `json:"last_analysis_id"`
	LastSessionTime time.Time        `json:"last_session_time"`
	OldestTime      time.Time        `json:"oldest_session_time"`
	TotalFindings   int              `json:"total_findings"`
	TableSizes      map[string]int64 `json:"table_sizes"`
}
