// test/mock/decision_service.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/frontendfixll/laundry-abac/audit"
	pdp_model "github.com/frontendfixll/laundry-abac/pdp/model"
)

// MockDecisionService is a mock implementation of service.IDecisionService
type MockDecisionService struct {
	mock.Mock
}

func (m *MockDecisionService) EvaluateAccess(ctx context.Context, request *pdp_model.AccessRequest) (*audit.DecisionLogEntry, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.DecisionLogEntry), args.Error(1)
}
