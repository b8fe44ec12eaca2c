package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"freight-cost-approval/internal/domain"
)

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	args := m.Called(ctx, notif)
	return args.Error(0)
}

func (m *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationRepository) ListForAudience(ctx context.Context, audience domain.Audience, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, audience, unreadOnly, params)
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *NotificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID, audience domain.Audience) error {
	args := m.Called(ctx, id, audience)
	return args.Error(0)
}

func (m *NotificationRepository) MarkAllAsRead(ctx context.Context, audience domain.Audience) error {
	args := m.Called(ctx, audience)
	return args.Error(0)
}

func (m *NotificationRepository) CountUnread(ctx context.Context, audience domain.Audience) (int64, error) {
	args := m.Called(ctx, audience)
	return args.Get(0).(int64), args.Error(1)
}
