package handler

import (
	"github.com/gofiber/fiber/v2"

	"freight-cost-approval/internal/domain"
	"freight-cost-approval/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Invoice      *InvoiceHandler
	CostRequest  *CostRequestHandler
	Notification *NotificationHandler
	Dashboard    *DashboardHandler
	Audit        *AuditHandler
}

func NewHandlers(services *service.Services, maxAttachmentSize int64) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		User:         NewUserHandler(services.User),
		Invoice:      NewInvoiceHandler(services.Invoice),
		CostRequest:  NewCostRequestHandler(services.CostRequest, services.Invoice, maxAttachmentSize),
		Notification: NewNotificationHandler(services.Notification),
		Dashboard:    NewDashboardHandler(services.Dashboard),
		Audit:        NewAuditHandler(services.Audit),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.PaginationParams{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", domain.DefaultPageSize),
	}
	params.Validate()
	return params
}
