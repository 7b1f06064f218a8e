// test/mock/audit_service.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/frontendfixll/laundry-abac/audit"
)

// MockAuditService is a mock implementation of audit.Service
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogDecision(ctx context.Context, entry audit.DecisionLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditService) QueryLogs(ctx context.Context, filter audit.Filter, page, limit int) ([]audit.DecisionLogEntry, audit.Pagination, error) {
	args := m.Called(ctx, filter, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(audit.Pagination), args.Error(2)
	}
	return args.Get(0).([]audit.DecisionLogEntry), args.Get(1).(audit.Pagination), args.Error(2)
}

func (m *MockAuditService) GetDecision(ctx context.Context, decisionID string) (*audit.DecisionLogEntry, error) {
	args := m.Called(ctx, decisionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.DecisionLogEntry), args.Error(1)
}

func (m *MockAuditService) ExportLogs(ctx context.Context, filter audit.Filter) ([]byte, string, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockAuditService) Stats(ctx context.Context, filter audit.Filter) (audit.DecisionStats, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(audit.DecisionStats), args.Error(1)
}
