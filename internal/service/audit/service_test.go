package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-cost-approval/internal/domain"
	"freight-cost-approval/internal/mocks"
)

func TestGetRecentActivities_DefaultsLimit(t *testing.T) {
	repo := new(mocks.HistoryRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("RecentActivity", ctx, 20).Return([]domain.HistoryEntry{{Action: domain.HistoryApproved, Actor: "Bruno"}}, nil).Twice()

	entries, err := svc.GetRecentActivities(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = svc.GetRecentActivities(ctx, 5000)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetRecentActivities_StoreError(t *testing.T) {
	repo := new(mocks.HistoryRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("RecentActivity", ctx, 5).Return(nil, errors.New("db down")).Once()

	_, err := svc.GetRecentActivities(ctx, 5)

	assert.ErrorIs(t, err, domain.ErrStorage)
}
