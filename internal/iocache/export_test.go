package iocache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteHistoryExport(t *testing.T) {
	store := newSQLiteStore(t)
	now := time.Now()
	require.NoError(t, store.BeginSession("abc", sampleRequest(), now))
	require.NoError(t, store.EndSession("abc", now, completedSession("abc")))

	out := filepath.Join(t.TempDir(), "history")
	var buf bytes.Buffer
	require.NoError(t, ExecuteHistoryExport(&buf, store, out))

	for _, suffix := range []string{".sessions.parquet", ".findings.parquet"} {
		info, err := os.Stat(out + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Contains(t, buf.String(), "Exported 1 sessions")
	assert.Contains(t, buf.String(), "Exported 3 finding records")
}

func TestExecuteHistoryExportErrors(t *testing.T) {
	t.Run("missing output file", func(t *testing.T) {
		err := ExecuteHistoryExport(&bytes.Buffer{}, newSQLiteStore(t), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--output-file")
	})

	t.Run("disabled history", func(t *testing.T) {
		store, err := NewHistoryStore(schema.NoneBackend, "")
		require.NoError(t, err)
		err = ExecuteHistoryExport(&bytes.Buffer{}, store, "out")
		assert.ErrorIs(t, err, contract.ErrNotConfigured)
	})

	t.Run("mock store", func(t *testing.T) {
		err := ExecuteHistoryExport(&bytes.Buffer{}, &MockHistoryStore{}, "out")
		assert.ErrorIs(t, err, contract.ErrNotConfigured)
	})

	t.Run("empty history", func(t *testing.T) {
		err := ExecuteHistoryExport(&bytes.Buffer{}, newSQLiteStore(t), filepath.Join(t.TempDir(), "x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no analysis history")
	})
}

func TestClearHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine
	assert.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	assert.Error(t, ClearHistory(schema.DatabaseBackend("oracle"), "", ""))
}

func TestHistoryStoreManager(t *testing.T) {
	store := &MockHistoryStore{}
	mgr := &HistoryStoreManager{history: store}
	assert.Same(t, store, mgr.GetHistoryStore())

	mockMgr := &MockHistoryManager{}
	mockMgr.On("GetHistoryStore").Return(store)
	assert.Same(t, store, mockMgr.GetHistoryStore())
	mockMgr.AssertExpectations(t)
}
