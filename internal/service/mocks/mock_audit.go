package mocks

import (
	"context"

	"complyapi/internal/model"
	"complyapi/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockAuditRecorder records calls without asserting by default: most tests
// care that the primary mutation happened, not the trail. Tests that do care
// set expectations explicitly.
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, actor model.Actor, action, entityType, entityID, entityName, description string) {
	m.Called(ctx, actor, action, entityType, entityID, entityName, description)
}

type MockActivityService struct {
	MockAuditRecorder
}

func (m *MockActivityService) List(ctx context.Context, entityType, entityID string, limit, offset int) (*service.ActivityListResult, error) {
	args := m.Called(ctx, entityType, entityID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ActivityListResult), args.Error(1)
}
