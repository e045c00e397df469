package schema

import "strings"

// FindingPanel adds presentation data to a Finding.
type FindingPanel struct {
	Label    string      `json:"label"`
	Category string      `json:"category"`
	Kind     FindingKind `json:"kind"`
	Body     string      `json:"body"`
}

// ResultsView is everything the results display shows. Panels is nil when
// there are no findings, Recommendations is empty when there are none.
type ResultsView struct {
	Status          Status         `json:"status"`
	Panels          []FindingPanel `json:"findings"`
	Recommendations []string       `json:"recommendations"`
}

// ShowFindings reports whether the findings section is rendered.
func (v ResultsView) ShowFindings() bool {
	return v.Panels != nil
}

// ShowRecommendations reports whether the recommendations section is rendered.
func (v ResultsView) ShowRecommendations() bool {
	return len(v.Recommendations) > 0
}

// FindingLabel turns a category key into its display label:
// "code_smells" becomes "CODE SMELLS".
func FindingLabel(category string) string {
	return strings.ToUpper(strings.ReplaceAll(category, "_", " "))
}

// StatusLabel capitalizes a status for display.
func StatusLabel(status Status) string {
	s := string(status)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// EnrichFindings builds one panel per finding, in order.
func EnrichFindings(findings Findings) []FindingPanel {
	if findings == nil {
		return nil
	}
	panels := make([]FindingPanel, len(findings))
	for i, f := range findings {
		panels[i] = FindingPanel{
			Label:    FindingLabel(f.Category),
			Category: f.Category,
			Kind:     f.Value.Kind,
			Body:     f.Value.Body(),
		}
	}
	return panels
}

// BuildResultsView is the pure mapping from session state to display data.
func BuildResultsView(status Status, findings Findings, recommendations []string) ResultsView {
	recs := make([]string, len(recommendations))
	copy(recs, recommendations)
	return ResultsView{
		Status:          status,
		Panels:          EnrichFindings(findings),
		Recommendations: recs,
	}
}

// ViewOf builds the results view for a session snapshot.
func ViewOf(s AnalysisSession) ResultsView {
	return BuildResultsView(s.Status, s.Findings, s.Recommendations)
}
