package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Invoice      InvoiceRepository
	CostRequest  CostRequestRepository
	History      HistoryRepository
	Notification NotificationRepository
	Session      SessionRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	history := NewHistoryRepository(db)

	return &Repositories{
		User:         NewUserRepository(db),
		Invoice:      NewInvoiceRepository(db),
		CostRequest:  NewCostRequestRepository(db, history),
		History:      history,
		Notification: NewNotificationRepository(db),
		Session:      NewSessionRepository(db),
	}
}
