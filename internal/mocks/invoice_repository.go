package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"freight-cost-approval/internal/domain"
)

type InvoiceRepository struct {
	mock.Mock
}

func (m *InvoiceRepository) FindByNumber(ctx context.Context, query string, limit int) ([]domain.Invoice, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *InvoiceRepository) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
