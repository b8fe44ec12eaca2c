package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"freight-cost-approval/internal/domain"
)

type CostRequestRepository struct {
	mock.Mock
}

func (m *CostRequestRepository) Create(ctx context.Context, req *domain.CostRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *CostRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CostRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CostRequest), args.Error(1)
}

func (m *CostRequestRepository) List(ctx context.Context, filter domain.CostRequestFilter, params domain.PaginationParams) ([]domain.CostRequest, int64, error) {
	args := m.Called(ctx, filter, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.CostRequest), args.Get(1).(int64), args.Error(2)
}

func (m *CostRequestRepository) ListAll(ctx context.Context) ([]domain.CostRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CostRequest), args.Error(1)
}

func (m *CostRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, patch *domain.StatusPatch, expected domain.CostRequestStatus) error {
	args := m.Called(ctx, id, patch, expected)
	return args.Error(0)
}

func (m *CostRequestRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
