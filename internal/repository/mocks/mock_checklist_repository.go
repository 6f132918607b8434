package mocks

import (
	"context"

	"complyapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockChecklistRepository struct {
	mock.Mock
}

func (m *MockChecklistRepository) UpsertAbsent(ctx context.Context, item *model.ChecklistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockChecklistRepository) FindByID(ctx context.Context, id string) (*model.ChecklistItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChecklistItem), args.Error(1)
}

func (m *MockChecklistRepository) FindByRequirement(ctx context.Context, controlID string, requirementID int) (*model.ChecklistItem, error) {
	args := m.Called(ctx, controlID, requirementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChecklistItem), args.Error(1)
}

func (m *MockChecklistRepository) ListByControl(ctx context.Context, controlID string) ([]model.ChecklistItem, error) {
	args := m.Called(ctx, controlID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChecklistItem), args.Error(1)
}

func (m *MockChecklistRepository) Update(ctx context.Context, item *model.ChecklistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
