package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/internal/parquet"
	"github.com/huangsam/codearchitect/schema"
)

// historyReader is the read side of the SQL-backed history store.
type historyReader interface {
	contract.HistoryStore
	GetAllSessions() ([]schema.SessionRecord, error)
	GetAllFindings() ([]schema.FindingRecord, error)
}

// ExecuteHistoryExport writes every recorded session and finding to Parquet
// files named <outputFile>.sessions.parquet and <outputFile>.findings.parquet.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	reader, ok := store.(historyReader)
	if !ok || store == nil {
		return fmt.Errorf("history export: %w", contract.ErrNotConfigured)
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if !status.Connected {
		return fmt.Errorf("history export: %w", contract.ErrNotConfigured)
	}
	if status.TotalSessions == 0 {
		return errors.New("no analysis history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total sessions: %d\n", status.TotalSessions)
	_, _ = fmt.Fprintf(w, "Total finding records: %d\n", status.TableSizes[findingsTable])

	sessions, err := reader.GetAllSessions()
	if err != nil {
		return fmt.Errorf("failed to retrieve sessions: %w", err)
	}
	findings, err := reader.GetAllFindings()
	if err != nil {
		return fmt.Errorf("failed to retrieve findings: %w", err)
	}

	sessionsFile := outputFile + ".sessions.parquet"
	parquetSessions := parquet.ConvertSessionRecords(sessions)
	if err := parquet.WriteSessionsParquet(parquetSessions, sessionsFile); err != nil {
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d sessions to: %s\n", len(parquetSessions), sessionsFile)

	findingsFile := outputFile + ".findings.parquet"
	parquetFindings := parquet.ConvertFindingRecords(findings)
	if err := parquet.WriteFindingsParquet(parquetFindings, findingsFile); err != nil {
		return fmt.Errorf("failed to write findings: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d finding records to: %s\n", len(parquetFindings), findingsFile)

	return nil
}
