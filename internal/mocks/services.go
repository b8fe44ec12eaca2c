package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"freight-cost-approval/internal/domain"
)

type AttachmentService struct {
	mock.Mock
}

func (m *AttachmentService) Upload(ctx context.Context, upload *domain.AttachmentUpload) (*domain.Attachment, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attachment), args.Error(1)
}

func (m *AttachmentService) Remove(ctx context.Context, attachment *domain.Attachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) List(ctx context.Context, user *domain.User, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, user, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID, user *domain.User) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *NotificationService) GetUnreadCount(ctx context.Context, user *domain.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) NotifyRequestCreated(ctx context.Context, cr *domain.CostRequest) (*domain.Notification, error) {
	args := m.Called(ctx, cr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationService) NotifyRequestResolved(ctx context.Context, cr *domain.CostRequest) (*domain.Notification, error) {
	args := m.Called(ctx, cr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendRequestStatusEmail(ctx context.Context, to *domain.User, cr *domain.CostRequest) error {
	args := m.Called(ctx, to, cr)
	return args.Error(0)
}

type DashboardInvalidator struct {
	mock.Mock
}

func (m *DashboardInvalidator) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
