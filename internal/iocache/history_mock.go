package iocache

import (
	"time"

	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginSession implements the HistoryStore interface.
func (m *MockHistoryStore) BeginSession(analysisID string, req schema.AnalysisRequest, startTime time.Time) error {
	args := m.Called(analysisID, req, startTime)
	return args.Error(0)
}

// EndSession implements the HistoryStore interface.
func (m *MockHistoryStore) EndSession(analysisID string, endTime time.Time, final schema.AnalysisSession) error {
	args := m.Called(analysisID, endTime, final)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
