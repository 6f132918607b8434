package mocks

import (
	"context"
	"io"

	"complyapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockChecklistService struct {
	mock.Mock
}

func (m *MockChecklistService) Initialize(ctx context.Context, controlID string) ([]model.ChecklistItem, error) {
	args := m.Called(ctx, controlID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChecklistItem), args.Error(1)
}

func (m *MockChecklistService) AttachFile(ctx context.Context, controlID string, requirementID int, r io.Reader, fileName, contentType string, size int64, notes string, actor model.Actor) (*model.ChecklistItem, error) {
	args := m.Called(ctx, controlID, requirementID, r, fileName, contentType, size, notes, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChecklistItem), args.Error(1)
}

func (m *MockChecklistService) LinkForm(ctx context.Context, controlID string, requirementID int, formID string, actor model.Actor) (*model.ChecklistItem, error) {
	args := m.Called(ctx, controlID, requirementID, formID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChecklistItem), args.Error(1)
}

func (m *MockChecklistService) RemoveEvidence(ctx context.Context, itemID string, actor model.Actor) (*model.ChecklistItem, error) {
	args := m.Called(ctx, itemID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChecklistItem), args.Error(1)
}

func (m *MockChecklistService) EvidenceURL(ctx context.Context, itemID string) (string, error) {
	args := m.Called(ctx, itemID)
	return args.String(0), args.Error(1)
}

func (m *MockChecklistService) Progress(ctx context.Context, controlID string) (*model.Progress, error) {
	args := m.Called(ctx, controlID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Progress), args.Error(1)
}
