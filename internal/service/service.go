package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"freight-cost-approval/internal/config"
	"freight-cost-approval/internal/repository"
	"freight-cost-approval/internal/service/attachment"
	"freight-cost-approval/internal/service/audit"
	"freight-cost-approval/internal/service/auth"
	"freight-cost-approval/internal/service/costrequest"
	"freight-cost-approval/internal/service/dashboard"
	"freight-cost-approval/internal/service/email"
	"freight-cost-approval/internal/service/invoice"
	"freight-cost-approval/internal/service/notification"
	"freight-cost-approval/internal/service/user"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Invoice      invoice.Service
	CostRequest  costrequest.Service
	Attachment   attachment.Service
	Email        email.Service
	Audit        audit.Service
	Notification notification.Service
	Dashboard    dashboard.Service
}

func NewServices(repos *repository.Repositories, redis *redis.Client, minioClient *minio.Client, cfg *config.Config) *Services {
	var store attachment.ObjectStore
	if minioClient != nil {
		store = minioClient
	}

	emailService := email.NewService(cfg)
	authService := auth.NewService(repos.User, repos.Session, cfg)
	userService := user.NewService(repos.User)
	invoiceService := invoice.NewService(repos.Invoice)
	attachmentService := attachment.NewService(store, cfg)
	auditService := audit.NewService(repos.History)
	notificationService := notification.NewService(repos.Notification, repos.User, emailService, cfg.Locale)
	dashboardService := dashboard.NewService(repos.CostRequest, redis, cfg.SLA())

	costRequestService := costrequest.NewService(
		repos.CostRequest,
		invoiceService,
		attachmentService,
		notificationService,
		dashboardService,
	)

	return &Services{
		Auth:         authService,
		User:         userService,
		Invoice:      invoiceService,
		CostRequest:  costRequestService,
		Attachment:   attachmentService,
		Email:        emailService,
		Audit:        auditService,
		Notification: notificationService,
		Dashboard:    dashboardService,
	}
}
