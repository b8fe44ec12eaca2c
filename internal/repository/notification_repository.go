package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"freight-cost-approval/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListForAudience(ctx context.Context, audience domain.Audience, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID, audience domain.Audience) error
	MarkAllAsRead(ctx context.Context, audience domain.Audience) error
	CountUnread(ctx context.Context, audience domain.Audience) (int64, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

const audienceClause = `(recipient_id = $1 OR recipient_role = ANY($2))`

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, kind, title, message, related_request_id, recipient_id, recipient_role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.Kind, notif.Title, notif.Message,
		notif.RelatedRequestID, notif.RecipientID, notif.RecipientRole,
	).Scan(&notif.CreatedAt)
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notif domain.Notification
	query := `SELECT * FROM notifications WHERE notification_id = $1`

	err := r.db.GetContext(ctx, &notif, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &notif, nil
}

func (r *notificationRepository) ListForAudience(ctx context.Context, audience domain.Audience, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	where := audienceClause
	if unreadOnly {
		where += ` AND is_read = false`
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM notifications WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, audience.UserID, pq.Array(audience.Roles)); err != nil {
		return nil, 0, err
	}

	notifications := []domain.Notification{}
	query := `
		SELECT * FROM notifications
		WHERE ` + where + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	err := r.db.SelectContext(ctx, &notifications, query,
		audience.UserID, pq.Array(audience.Roles), params.PageSize, params.Offset())
	return notifications, total, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID, audience domain.Audience) error {
	query := `
		UPDATE notifications SET is_read = true, read_at = NOW()
		WHERE notification_id = $3 AND ` + audienceClause + ` AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, audience.UserID, pq.Array(audience.Roles), id)
	return err
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, audience domain.Audience) error {
	query := `UPDATE notifications SET is_read = true, read_at = NOW() WHERE ` + audienceClause + ` AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, audience.UserID, pq.Array(audience.Roles))
	return err
}

func (r *notificationRepository) CountUnread(ctx context.Context, audience domain.Audience) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE ` + audienceClause + ` AND is_read = false`
	err := r.db.GetContext(ctx, &count, query, audience.UserID, pq.Array(audience.Roles))
	return count, err
}
