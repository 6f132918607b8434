package mocks

import (
	"context"

	"complyapi/internal/model"
	"complyapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockEvidenceFormRepository struct {
	mock.Mock
}

func (m *MockEvidenceFormRepository) Create(ctx context.Context, form *model.EvidenceForm) (*model.EvidenceForm, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidenceForm), args.Error(1)
}

func (m *MockEvidenceFormRepository) FindByID(ctx context.Context, id string) (*model.EvidenceForm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidenceForm), args.Error(1)
}

func (m *MockEvidenceFormRepository) List(ctx context.Context, controlID, formType string, pq repository.PageQuery) (*repository.PageResult[model.EvidenceForm], error) {
	args := m.Called(ctx, controlID, formType, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.EvidenceForm]), args.Error(1)
}

func (m *MockEvidenceFormRepository) Update(ctx context.Context, form *model.EvidenceForm) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}
