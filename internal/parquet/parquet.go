// Package parquet provides data structures and functions for exporting
// analysis sessions and findings to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/codearchitect/schema"
	"github.com/parquet-go/parquet-go"
)

// Session represents one submitted analysis request and its outcome.
// This struct maps to the codearchitect_sessions database table.
type Session struct {
	// AnalysisID is the identifier assigned by the backend
	AnalysisID string `parquet:"analysis_id,snappy"`

	RepositoryURL string `parquet:"repository_url,snappy"`
	Branch        string `parquet:"branch,snappy"`

	// FocusAreas is the comma-joined list sent with the request
	FocusAreas string `parquet:"focus_areas,snappy"`
	Depth      int32  `parquet:"depth,snappy"`

	// StartTime is when the backend accepted the request
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when a terminal status was observed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// FinalStatus is completed or failed (nullable while in flight)
	FinalStatus *string `parquet:"final_status,optional,snappy"`

	FindingCount        int32 `parquet:"finding_count,snappy"`
	RecommendationCount int32 `parquet:"recommendation_count,snappy"`
}

// Finding represents one finding or recommendation of a session.
// This struct maps to the codearchitect_findings database table.
type Finding struct {
	AnalysisID string `parquet:"analysis_id,snappy"`

	// Section is "finding" or "recommendation"
	Section string `parquet:"section,snappy"`

	// Position keeps the order the backend sent
	Position int32 `parquet:"position,snappy"`

	// Category is the finding key; empty for recommendations
	Category string `parquet:"category,snappy"`

	// Kind is "text" or "structured" for findings
	Kind string `parquet:"kind,snappy"`

	// Body is the text, or the pretty-printed structural value
	Body string `parquet:"body,snappy"`
}

// writeParquet writes rows of T to outputPath, inferring the schema from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteSessionsParquet writes sessions to a Parquet file.
func WriteSessionsParquet(data []Session, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteFindingsParquet writes findings to a Parquet file.
func WriteFindingsParquet(data []Finding, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertSessionRecords converts schema.SessionRecord to Session for Parquet export.
func ConvertSessionRecords(records []schema.SessionRecord) []Session {
	result := make([]Session, len(records))
	for i, r := range records {
		result[i] = Session{
			AnalysisID:          r.AnalysisID,
			RepositoryURL:       r.RepositoryURL,
			Branch:              r.Branch,
			FocusAreas:          r.FocusAreas,
			Depth:               r.Depth,
			StartTime:           r.StartTime,
			EndTime:             r.EndTime,
			FinalStatus:         r.FinalStatus,
			FindingCount:        r.FindingCount,
			RecommendationCount: r.Recommendations,
		}
	}
	return result
}

// ConvertFindingRecords converts schema.FindingRecord to Finding for Parquet export.
func ConvertFindingRecords(records []schema.FindingRecord) []Finding {
	result := make([]Finding, len(records))
	for i, r := range records {
		result[i] = Finding(r)
	}
	return result
}

// FromResultsView flattens a results view into finding rows.
func FromResultsView(analysisID string, view schema.ResultsView) []Finding {
	rows := make([]Finding, 0, len(view.Panels)+len(view.Recommendations))
	for i, p := range view.Panels {
		rows = append(rows, Finding{
			AnalysisID: analysisID,
			Section:    schema.FindingSection,
			Position:   int32(i),
			Category:   p.Category,
			Kind:       string(p.Kind),
			Body:       p.Body,
		})
	}
	for i, rec := range view.Recommendations {
		rows = append(rows, Finding{
			AnalysisID: analysisID,
			Section:    schema.RecommendationSection,
			Position:   int32(i),
			Kind:       string(schema.TextFinding),
			Body:       rec,
		})
	}
	return rows
}
