package iocache

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/codearchitect/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *HistoryStoreImpl {
	t.Helper()
	store, err := NewHistoryStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	impl, ok := store.(*HistoryStoreImpl)
	require.True(t, ok)
	return impl
}

func sampleRequest() schema.AnalysisRequest {
	return schema.AnalysisRequest{
		RepositoryURL: "https://github.com/acme/widgets",
		Branch:        "main",
		FocusAreas:    []string{"architecture", "security"},
		Depth:         3,
	}
}

func completedSession(id string) schema.AnalysisSession {
	metrics, _ := schema.StructuredValue([]byte(`{"loc": 1200}`))
	return schema.AnalysisSession{
		AnalysisID: id,
		Status:     schema.CompletedStatus,
		Findings: schema.Findings{
			{Category: "code_smells", Value: schema.TextValue("none found")},
			{Category: "metrics", Value: metrics},
		},
		Recommendations: []string{"Add tests"},
	}
}

func TestHistoryStore_NoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.BeginSession("abc", sampleRequest(), time.Now()))
	assert.NoError(t, store.EndSession("abc", time.Now(), completedSession("abc")))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestHistoryStore_UnsupportedBackend(t *testing.T) {
	_, err := NewHistoryStore(schema.DatabaseBackend("oracle"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestHistoryStore_InvalidMySQLDSN(t *testing.T) {
	_, err := NewHistoryStore(schema.MySQLBackend, "not a dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid MySQL connection string")
}

func TestHistoryStore_SQLiteLifecycle(t *testing.T) {
	store := newSQLiteStore(t)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(6 * time.Second)

	require.NoError(t, store.BeginSession("abc", sampleRequest(), start))

	sessions, err := store.GetAllSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "architecture,security", sessions[0].FocusAreas)
	assert.Nil(t, sessions[0].EndTime)
	assert.Nil(t, sessions[0].FinalStatus)
	assert.True(t, start.Equal(sessions[0].StartTime))

	require.NoError(t, store.EndSession("abc", end, completedSession("abc")))

	sessions, err = store.GetAllSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].EndTime)
	assert.True(t, end.Equal(*sessions[0].EndTime))
	require.NotNil(t, sessions[0].FinalStatus)
	assert.Equal(t, "completed", *sessions[0].FinalStatus)
	assert.Equal(t, int32(2), sessions[0].FindingCount)
	assert.Equal(t, int32(1), sessions[0].Recommendations)

	findings, err := store.GetAllFindings()
	require.NoError(t, err)
	require.Len(t, findings, 3)
	assert.Equal(t, schema.FindingRecord{
		AnalysisID: "abc", Section: schema.FindingSection, Position: 0,
		Category: "code_smells", Kind: "text", Body: "none found",
	}, findings[0])
	assert.Equal(t, "metrics", findings[1].Category)
	assert.Equal(t, "{\n  \"loc\": 1200\n}", findings[1].Body)
	assert.Equal(t, schema.RecommendationSection, findings[2].Section)
	assert.Equal(t, "Add tests", findings[2].Body)
}

func TestHistoryStore_EndSessionReplacesFindings(t *testing.T) {
	store := newSQLiteStore(t)
	now := time.Now()

	require.NoError(t, store.BeginSession("abc", sampleRequest(), now))
	require.NoError(t, store.EndSession("abc", now, completedSession("abc")))
	require.NoError(t, store.EndSession("abc", now, schema.AnalysisSession{
		AnalysisID:      "abc",
		Status:          schema.FailedStatus,
		Recommendations: []string{},
	}))

	findings, err := store.GetAllFindings()
	require.NoError(t, err)
	assert.Empty(t, findings)

	sessions, err := store.GetAllSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "failed", *sessions[0].FinalStatus)
	assert.Equal(t, int32(0), sessions[0].FindingCount)
}

func TestHistoryStore_EndSessionWithoutBegin(t *testing.T) {
	store := newSQLiteStore(t)
	end := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.EndSession("attached", end, completedSession("attached")))

	sessions, err := store.GetAllSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "attached", sessions[0].AnalysisID)
	assert.Empty(t, sessions[0].RepositoryURL)
	assert.True(t, end.Equal(sessions[0].StartTime))
}

func TestHistoryStore_BeginSessionReplacesExisting(t *testing.T) {
	store := newSQLiteStore(t)
	now := time.Now()

	require.NoError(t, store.BeginSession("abc", sampleRequest(), now))
	require.NoError(t, store.EndSession("abc", now, completedSession("abc")))

	req := sampleRequest()
	req.Branch = "develop"
	require.NoError(t, store.BeginSession("abc", req, now))

	sessions, err := store.GetAllSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "develop", sessions[0].Branch)
	assert.Nil(t, sessions[0].FinalStatus)

	findings, err := store.GetAllFindings()
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestHistoryStore_GetStatus(t *testing.T) {
	store := newSQLiteStore(t)
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalSessions)

	require.NoError(t, store.BeginSession("one", sampleRequest(), first))
	require.NoError(t, store.EndSession("one", first, completedSession("one")))
	require.NoError(t, store.BeginSession("two", sampleRequest(), second))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 2, status.TotalSessions)
	assert.Equal(t, "two", status.LastAnalysisID)
	assert.True(t, second.Equal(status.LastSessionTime))
	assert.True(t, first.Equal(status.OldestTime))
	assert.Equal(t, 2, status.TotalFindings)
	assert.Equal(t, int64(2), status.TableSizes[sessionsTable])
	assert.Equal(t, int64(3), status.TableSizes[findingsTable])

	var buf bytes.Buffer
	PrintHistoryStatus(&buf, status)
	out := buf.String()
	assert.Contains(t, out, "History Backend: sqlite")
	assert.Contains(t, out, "Last Analysis ID: two")
	assert.Contains(t, out, "codearchitect_findings: 3 rows")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(findingsTable)), bytes.Index(buf.Bytes(), []byte(sessionsTable)))
}

func TestPrintHistoryStatusDisconnected(t *testing.T) {
	var buf bytes.Buffer
	PrintHistoryStatus(&buf, schema.HistoryStatus{Backend: "none"})
	assert.Equal(t, "History Backend: none\nConnected: false\n", buf.String())
}

func TestBindPlaceholders(t *testing.T) {
	pg := &HistoryStoreImpl{backend: schema.PostgreSQLBackend}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.bind("SELECT * FROM t WHERE a = ? AND b = ?"))

	my := &HistoryStoreImpl{backend: schema.MySQLBackend}
	assert.Equal(t, "a = ?", my.bind("a = ?"))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`codearchitect_sessions`", quoteTableName(sessionsTable, schema.MySQLBackend))
	assert.Equal(t, `"codearchitect_sessions"`, quoteTableName(sessionsTable, schema.PostgreSQLBackend))
	assert.Equal(t, `"codearchitect_sessions"`, quoteTableName(sessionsTable, schema.SQLiteBackend))
}
