package audit

import (
	"context"

	"freight-cost-approval/internal/domain"
	"freight-cost-approval/internal/repository"
)

const defaultActivityLimit = 20

// Service exposes the cost request history as an activity feed.
type Service interface {
	GetRecentActivities(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}

type service struct {
	historyRepo repository.HistoryRepository
}

func NewService(historyRepo repository.HistoryRepository) Service {
	return &service{
		historyRepo: historyRepo,
	}
}

func (s *service) GetRecentActivities(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 || limit > domain.MaxPageSize {
		limit = defaultActivityLimit
	}

	entries, err := s.historyRepo.RecentActivity(ctx, limit)
	if err != nil {
		return nil, domain.NewStorageError("recent activity", err)
	}
	return entries, nil
}
