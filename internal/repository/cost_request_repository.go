package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"freight-cost-approval/internal/domain"
)

type CostRequestRepository interface {
	Create(ctx context.Context, req *domain.CostRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CostRequest, error)
	List(ctx context.Context, filter domain.CostRequestFilter, params domain.PaginationParams) ([]domain.CostRequest, int64, error)
	ListAll(ctx context.Context) ([]domain.CostRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, patch *domain.StatusPatch, expected domain.CostRequestStatus) error
	CountPending(ctx context.Context) (int64, error)
}

type costRequestRepository struct {
	db      *sqlx.DB
	history HistoryRepository
}

func NewCostRequestRepository(db *sqlx.DB, history HistoryRepository) CostRequestRepository {
	return &costRequestRepository{db: db, history: history}
}

const costRequestColumns = `
	request_id, invoice_number, invoice_value, recipient, destination_city, volume_count,
	extra_cost_type, extra_cost_description, extra_cost_amount, attachment_url, attachment_name,
	requested_by, requested_by_id, requested_at, status,
	resolved_by, resolved_by_id, resolved_at, resolution_comment`

// Create inserts the request together with its initial history rows.
func (r *costRequestRepository) Create(ctx context.Context, req *domain.CostRequest) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO cost_requests (
			request_id, invoice_number, invoice_value, recipient, destination_city, volume_count,
			extra_cost_type, extra_cost_description, extra_cost_amount, attachment_url, attachment_name,
			requested_by, requested_by_id, requested_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = tx.ExecContext(ctx, query,
		req.ID, req.InvoiceNumber, req.InvoiceValue, req.Recipient, req.DestinationCity, req.VolumeCount,
		req.ExtraCostType, req.ExtraCostDescription, req.ExtraCostAmount, req.AttachmentURL, req.AttachmentName,
		req.RequestedBy, req.RequestedByID, req.RequestedAt, req.Status,
	)
	if err != nil {
		return fmt.Errorf("insert cost request: %w", err)
	}

	for _, entry := range req.History {
		if err := appendHistory(ctx, tx, entry); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
	}

	return tx.Commit()
}

func (r *costRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CostRequest, error) {
	var req domain.CostRequest
	query := `SELECT ` + costRequestColumns + ` FROM cost_requests WHERE request_id = $1`

	err := r.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	history, err := r.history.ListByRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	req.History = history

	return &req, nil
}

func (r *costRequestRepository) List(ctx context.Context, filter domain.CostRequestFilter, params domain.PaginationParams) ([]domain.CostRequest, int64, error) {
	params.Validate()

	var total int64
	requests := []domain.CostRequest{}

	if filter.Status != nil {
		countQuery := `SELECT COUNT(*) FROM cost_requests WHERE status = $1`
		if err := r.db.GetContext(ctx, &total, countQuery, *filter.Status); err != nil {
			return nil, 0, err
		}

		query := `SELECT ` + costRequestColumns + ` FROM cost_requests
			WHERE status = $1
			ORDER BY requested_at DESC
			LIMIT $2 OFFSET $3`
		if err := r.db.SelectContext(ctx, &requests, query, *filter.Status, params.PageSize, params.Offset()); err != nil {
			return nil, 0, err
		}
	} else {
		countQuery := `SELECT COUNT(*) FROM cost_requests`
		if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
			return nil, 0, err
		}

		query := `SELECT ` + costRequestColumns + ` FROM cost_requests
			ORDER BY requested_at DESC
			LIMIT $1 OFFSET $2`
		if err := r.db.SelectContext(ctx, &requests, query, params.PageSize, params.Offset()); err != nil {
			return nil, 0, err
		}
	}

	if err := r.attachHistory(ctx, requests); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// ListAll returns every request without history, for aggregation.
func (r *costRequestRepository) ListAll(ctx context.Context) ([]domain.CostRequest, error) {
	requests := []domain.CostRequest{}
	query := `SELECT ` + costRequestColumns + ` FROM cost_requests ORDER BY requested_at DESC`

	err := r.db.SelectContext(ctx, &requests, query)
	return requests, err
}

// UpdateStatus applies patch only while the stored status is still expected.
// A lost race returns domain.ErrConflict and writes nothing.
func (r *costRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, patch *domain.StatusPatch, expected domain.CostRequestStatus) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		UPDATE cost_requests
		SET status = $3, resolved_by = $4, resolved_by_id = $5, resolved_at = $6, resolution_comment = $7
		WHERE request_id = $1 AND status = $2`

	res, err := tx.ExecContext(ctx, query,
		id, expected, patch.Status, patch.ResolvedBy, patch.ResolvedByID, patch.ResolvedAt, patch.ResolutionComment,
	)
	if err != nil {
		return fmt.Errorf("update cost request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrConflict
	}

	if err := appendHistory(ctx, tx, patch.Entry); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	return tx.Commit()
}

func (r *costRequestRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM cost_requests WHERE status = $1`
	err := r.db.GetContext(ctx, &count, query, domain.StatusPending)
	return count, err
}

func (r *costRequestRepository) attachHistory(ctx context.Context, requests []domain.CostRequest) error {
	ids := make([]uuid.UUID, len(requests))
	for i := range requests {
		ids[i] = requests[i].ID
	}

	byRequest, err := r.history.ListByRequests(ctx, ids)
	if err != nil {
		return err
	}

	for i := range requests {
		requests[i].History = byRequest[requests[i].ID]
	}
	return nil
}
