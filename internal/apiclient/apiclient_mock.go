package apiclient

import (
	"context"

	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/schema"
	"github.com/stretchr/testify/mock"
)

// MockAnalysisClient is a mock implementation of AnalysisClient for testing.
type MockAnalysisClient struct {
	mock.Mock
}

var _ contract.AnalysisClient = &MockAnalysisClient{} // Compile-time check

// Start implements the AnalysisClient interface.
func (m *MockAnalysisClient) Start(ctx context.Context, req schema.AnalysisRequest) (schema.StartResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(schema.StartResponse), args.Error(1)
}

// GetStatus implements the AnalysisClient interface.
func (m *MockAnalysisClient) GetStatus(ctx context.Context, analysisID string) (schema.StatusResponse, error) {
	args := m.Called(ctx, analysisID)
	return args.Get(0).(schema.StatusResponse), args.Error(1)
}

// Health implements the AnalysisClient interface.
func (m *MockAnalysisClient) Health(ctx context.Context) (schema.HealthResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.HealthResponse), args.Error(1)
}
