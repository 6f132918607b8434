package mocks

import (
	"context"
	"encoding/json"
	"io"

	"complyapi/internal/model"
	"complyapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockEvidenceFormService struct {
	mock.Mock
}

func (m *MockEvidenceFormService) Create(ctx context.Context, formType, controlID string, formData json.RawMessage, actor model.Actor) (*model.EvidenceForm, error) {
	args := m.Called(ctx, formType, controlID, formData, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidenceForm), args.Error(1)
}

func (m *MockEvidenceFormService) Sign(ctx context.Context, id, role, comment string, actor model.Actor) (*model.EvidenceForm, error) {
	args := m.Called(ctx, id, role, comment, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidenceForm), args.Error(1)
}

func (m *MockEvidenceFormService) Reject(ctx context.Context, id, role, reason string, actor model.Actor) (*model.EvidenceForm, error) {
	args := m.Called(ctx, id, role, reason, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidenceForm), args.Error(1)
}

func (m *MockEvidenceFormService) AddAttachment(ctx context.Context, id string, r io.Reader, fileName, category, contentType string, size int64, actor model.Actor) (*model.EvidenceForm, error) {
	args := m.Called(ctx, id, r, fileName, category, contentType, size, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidenceForm), args.Error(1)
}

func (m *MockEvidenceFormService) DownloadAttachment(ctx context.Context, id string, index int) (io.ReadCloser, *model.FormAttachment, error) {
	args := m.Called(ctx, id, index)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.FormAttachment), args.Error(2)
}

func (m *MockEvidenceFormService) Get(ctx context.Context, id string) (*model.EvidenceForm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidenceForm), args.Error(1)
}

func (m *MockEvidenceFormService) List(ctx context.Context, controlID, formType string, limit, offset int) (*service.FormListResult, error) {
	args := m.Called(ctx, controlID, formType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormListResult), args.Error(1)
}
