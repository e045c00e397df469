package schema

// AnalysisRequest is the normalized body of a start-analysis call.
type AnalysisRequest struct {
	RepositoryURL string   `json:"repository_url"`
	Branch        string   `json:"branch"`
	FocusAreas    []string `json:"focus_areas"`
	Depth         int      `json:"depth"`
}

// StartResponse is returned by POST /api/gemini/analyze.
type StartResponse struct {
	AnalysisID      string   `json:"analysis_id"`
	Status          Status   `json:"status"`
	RepositoryURL   string   `json:"repository_url,omitempty"`
	Findings        Findings `json:"findings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	GeneratedCode   *string  `json:"generated_code,omitempty"`
}

// StatusResponse is returned by GET /api/gemini/analyze/{id}. Nil findings
// or recommendations mean the backend did not send them.
type StatusResponse struct {
	Status          Status   `json:"status"`
	Findings        Findings `json:"findings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// HealthResponse is the payload of GET /health. Any success response counts
// as reachable, whatever its content.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// AnalysisSession is a snapshot of the client-side session state.
// An empty AnalysisID means no identifier has been assigned.
type AnalysisSession struct {
	AnalysisID      string   `json:"analysis_id"`
	Status          Status   `json:"status"`
	Findings        Findings `json:"findings"`
	Recommendations []string `json:"recommendations"`
}

// HasID reports whether the backend has assigned an identifier.
func (s AnalysisSession) HasID() bool {
	return s.AnalysisID != ""
}

// NewIdleSession returns the initial session state.
func NewIdleSession() AnalysisSession {
	return AnalysisSession{
		Status:          IdleStatus,
		Recommendations: []string{},
	}
}
