package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"freight-cost-approval/internal/domain"
)

// HistoryRepository reads the append-only trail of a cost request. Writes go
// through CostRequestRepository so they share its transaction.
type HistoryRepository interface {
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]domain.HistoryEntry, error)
	ListByRequests(ctx context.Context, requestIDs []uuid.UUID) (map[uuid.UUID][]domain.HistoryEntry, error)
	RecentActivity(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}

type historyRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func appendHistory(ctx context.Context, ext sqlx.ExtContext, entry domain.HistoryEntry) error {
	query := `
		INSERT INTO cost_request_history (request_id, seq, action, actor, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := ext.ExecContext(ctx, query,
		entry.RequestID, entry.Seq, entry.Action, entry.Actor, entry.Comment, entry.Timestamp,
	)
	return err
}

func (r *historyRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]domain.HistoryEntry, error) {
	entries := []domain.HistoryEntry{}
	query := `
		SELECT request_id, seq, action, actor, comment, created_at
		FROM cost_request_history
		WHERE request_id = $1
		ORDER BY seq ASC`

	err := r.db.SelectContext(ctx, &entries, query, requestID)
	return entries, err
}

func (r *historyRepository) ListByRequests(ctx context.Context, requestIDs []uuid.UUID) (map[uuid.UUID][]domain.HistoryEntry, error) {
	result := make(map[uuid.UUID][]domain.HistoryEntry, len(requestIDs))
	if len(requestIDs) == 0 {
		return result, nil
	}

	ids := make([]string, len(requestIDs))
	for i, id := range requestIDs {
		ids[i] = id.String()
	}

	var entries []domain.HistoryEntry
	query := `
		SELECT request_id, seq, action, actor, comment, created_at
		FROM cost_request_history
		WHERE request_id = ANY($1::uuid[])
		ORDER BY request_id, seq ASC`

	if err := r.db.SelectContext(ctx, &entries, query, pq.Array(ids)); err != nil {
		return nil, err
	}

	for _, e := range entries {
		result[e.RequestID] = append(result[e.RequestID], e)
	}
	return result, nil
}

func (r *historyRepository) RecentActivity(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	entries := []domain.HistoryEntry{}
	query := `
		SELECT request_id, seq, action, actor, comment, created_at
		FROM cost_request_history
		ORDER BY created_at DESC
		LIMIT $1`

	err := r.db.SelectContext(ctx, &entries, query, limit)
	return entries, err
}
