package mocks

import (
	"context"

	"complyapi/internal/model"
	"complyapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Append(ctx context.Context, act *model.Activity) error {
	args := m.Called(ctx, act)
	return args.Error(0)
}

func (m *MockActivityRepository) List(ctx context.Context, entityType, entityID string, pq repository.PageQuery) (*repository.PageResult[model.Activity], error) {
	args := m.Called(ctx, entityType, entityID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Activity]), args.Error(1)
}
