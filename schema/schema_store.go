package schema

import "time"

// SessionRecord represents a row from the codearchitect_sessions table.
type SessionRecord struct {
	AnalysisID      string
	RepositoryURL   string
	Branch          string
	FocusAreas      string // comma-joined
	Depth           int32
	StartTime       time.Time
	EndTime         *time.Time
	FinalStatus     *string
	FindingCount    int32
	Recommendations int32
}

// FindingRecord represents a row from the codearchitect_findings table.
// Recommendations are stored here too with Section set to "recommendation".
type FindingRecord struct {
	AnalysisID string
	Section    string
	Position   int32
	Category   string
	Kind       string
	Body       string
}

// Record sections.
const (
	FindingSection        = "finding"
	RecommendationSection = "recommendation"
)
