package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/internal/parquet"
	"github.com/huangsam/codearchitect/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PlaceholderMessage is shown instead of results while no analysis exists.
const PlaceholderMessage = "Submit a repository URL to start analysis"

// WriteSessionResults outputs a session snapshot, dispatching based on the output format configured.
func WriteSessionResults(s schema.AnalysisSession, cfg *contract.Config) error {
	view := schema.ViewOf(s)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeResultsJSON(w, s.AnalysisID, view)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeResultsCSV(w, view)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeResultsParquet(s.AnalysisID, view, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeResultsText(w, s.AnalysisID, view, cfg)
		}, "Wrote results")
	}
	return nil
}

// writeResultsText renders the human-readable results display.
func writeResultsText(w io.Writer, analysisID string, view schema.ResultsView, cfg *contract.Config) error {
	if _, err := fmt.Fprintln(w, contract.TitleColor.Sprint(schema.AppTitle)); err != nil {
		return err
	}
	if analysisID == "" {
		_, err := fmt.Fprintln(w, PlaceholderMessage)
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis ID: %s\nStatus: %s\n", analysisID, contract.GetColorStatus(view.Status)); err != nil {
		return err
	}

	if view.ShowFindings() {
		if _, err := fmt.Fprintln(w, "\nFindings"); err != nil {
			return err
		}
		if err := writeFindingsTable(w, view.Panels, cfg); err != nil {
			return err
		}
	}

	if view.ShowRecommendations() {
		if _, err := fmt.Fprintln(w, "\nRecommendations"); err != nil {
			return err
		}
		for _, rec := range view.Recommendations {
			if _, err := fmt.Fprintf(w, "%s %s\n", contract.CheckColor.Sprint("✓"), rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeFindingsTable writes one row per finding panel, keeping backend order.
func writeFindingsTable(w io.Writer, panels []schema.FindingPanel, cfg *contract.Config) error {
	labelWidth := 0
	for _, p := range panels {
		labelWidth = max(labelWidth, len([]rune(p.Label)))
	}
	maxDetail := GetMaxDetailWidth(cfg, labelWidth)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Finding", "Detail"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
		// Bodies are shown in full, wrapped at word boundaries
		cfg.Row.Formatting.AutoWrap = tw.WrapNormal
		cfg.Row.ColMaxWidths.PerColumn = tw.NewMapper[int, int]().Set(1, maxDetail)
	})

	data := make([][]string, 0, len(panels))
	for _, p := range panels {
		data = append(data, []string{p.Label, p.Body})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeResultsCSV writes findings then recommendations, one record per item.
func writeResultsCSV(w io.Writer, view schema.ResultsView) error {
	header := []string{"section", "position", "label", "category", "kind", "value"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, p := range view.Panels {
			if err := cw.Write([]string{
				schema.FindingSection, strconv.Itoa(i), p.Label, p.Category, string(p.Kind), p.Body,
			}); err != nil {
				return err
			}
		}
		for i, rec := range view.Recommendations {
			if err := cw.Write([]string{
				schema.RecommendationSection, strconv.Itoa(i), "", "", string(schema.TextFinding), rec,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeResultsJSON writes the results view with the analysis identifier.
func writeResultsJSON(w io.Writer, analysisID string, view schema.ResultsView) error {
	type jsonResults struct {
		AnalysisID *string `json:"analysis_id"`
		schema.ResultsView
	}
	out := jsonResults{ResultsView: view}
	if analysisID != "" {
		out.AnalysisID = &analysisID
	}
	return writeJSON(w, out)
}

// writeResultsParquet flattens the view into finding rows and writes them to outputFile.
func writeResultsParquet(analysisID string, view schema.ResultsView, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("parquet output requires an output file")
	}
	if err := parquet.WriteFindingsParquet(parquet.FromResultsView(analysisID, view), outputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputFile)
	return nil
}

// WriteHealthResult outputs a successful health check.
func WriteHealthResult(resp schema.HealthResponse, apiURL string, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if cfg.Output == schema.JSONOut {
			return writeJSON(w, struct {
				APIURL    string `json:"api_url"`
				Reachable bool   `json:"reachable"`
				schema.HealthResponse
			}{apiURL, true, resp})
		}
		status := defaultText(resp.Status, "ok")
		if _, err := fmt.Fprintf(w, "%s Backend reachable at %s (status: %s", contract.CheckColor.Sprint("✓"), apiURL, status); err != nil {
			return err
		}
		if resp.Service != "" {
			if _, err := fmt.Fprintf(w, ", service: %s", resp.Service); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w, ")")
		return err
	}, "Wrote health")
}

func defaultText(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
