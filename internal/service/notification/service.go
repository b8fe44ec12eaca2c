package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"freight-cost-approval/internal/domain"
	"freight-cost-approval/internal/pkg/i18n"
	"freight-cost-approval/internal/repository"
	"freight-cost-approval/internal/service/email"
)

type Service interface {
	List(ctx context.Context, user *domain.User, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, id uuid.UUID, user *domain.User) error
	MarkAllAsRead(ctx context.Context, user *domain.User) error
	GetUnreadCount(ctx context.Context, user *domain.User) (int64, error)

	NotifyRequestCreated(ctx context.Context, cr *domain.CostRequest) (*domain.Notification, error)
	NotifyRequestResolved(ctx context.Context, cr *domain.CostRequest) (*domain.Notification, error)
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	emailSvc  email.Service
	locale    string
	spawn     func(func())
}

func NewService(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	emailSvc email.Service,
	locale string,
) Service {
	if locale == "" {
		locale = i18n.DefaultLocale
	}
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
		locale:    locale,
		spawn:     func(f func()) { go f() },
	}
}

func (s *service) List(ctx context.Context, user *domain.User, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	params.Validate()

	notifications, total, err := s.notifRepo.ListForAudience(ctx, domain.AudienceFor(user), unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, id uuid.UUID, user *domain.User) error {
	return s.notifRepo.MarkAsRead(ctx, id, domain.AudienceFor(user))
}

func (s *service) MarkAllAsRead(ctx context.Context, user *domain.User) error {
	return s.notifRepo.MarkAllAsRead(ctx, domain.AudienceFor(user))
}

func (s *service) GetUnreadCount(ctx context.Context, user *domain.User) (int64, error) {
	return s.notifRepo.CountUnread(ctx, domain.AudienceFor(user))
}

// NotifyRequestCreated stores the info notification shown to resolvers.
func (s *service) NotifyRequestCreated(ctx context.Context, cr *domain.CostRequest) (*domain.Notification, error) {
	notif := BuildCreated(cr, s.locale)
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notif, nil
}

// NotifyRequestResolved stores the success/error notification addressed to
// the requester and mails them in the background.
func (s *service) NotifyRequestResolved(ctx context.Context, cr *domain.CostRequest) (*domain.Notification, error) {
	notif := BuildResolved(cr, s.locale)
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if s.emailSvc != nil && s.userRepo != nil {
		snapshot := cr.Clone()
		s.spawn(func() {
			ctx := context.Background()
			requester, err := s.userRepo.GetByID(ctx, snapshot.RequestedByID)
			if err != nil || requester == nil {
				return
			}
			if err := s.emailSvc.SendRequestStatusEmail(ctx, requester, snapshot); err != nil {
				log.Printf("Failed to send status email for request %s: %v", snapshot.ID, err)
			}
		})
	}

	return notif, nil
}

// BuildCreated derives the notification for a newly submitted request.
func BuildCreated(cr *domain.CostRequest, locale string) *domain.Notification {
	role := string(domain.RoleApprover)
	requestID := cr.ID

	return &domain.Notification{
		ID:               uuid.New(),
		Kind:             domain.NotifInfo,
		Title:            i18n.Translate(locale, "request_created.title"),
		Message:          i18n.Format(locale, "request_created.message", messageVars(cr, locale)),
		RelatedRequestID: &requestID,
		RecipientRole:    &role,
	}
}

// BuildResolved derives the notification for a resolved request. Approved
// requests yield a success, rejected ones an error.
func BuildResolved(cr *domain.CostRequest, locale string) *domain.Notification {
	kind := domain.NotifError
	key := "request_rejected"
	if cr.Status == domain.StatusApproved {
		kind = domain.NotifSuccess
		key = "request_approved"
	}

	message := i18n.Format(locale, key+".message", messageVars(cr, locale))
	if cr.ResolutionComment != nil && *cr.ResolutionComment != "" {
		message += i18n.Format(locale, "comment.suffix", map[string]string{"comment": *cr.ResolutionComment})
	}

	requestID := cr.ID
	recipient := cr.RequestedByID

	return &domain.Notification{
		ID:               uuid.New(),
		Kind:             kind,
		Title:            i18n.Translate(locale, key+".title"),
		Message:          message,
		RelatedRequestID: &requestID,
		RecipientID:      &recipient,
	}
}

func messageVars(cr *domain.CostRequest, locale string) map[string]string {
	resolver := ""
	if cr.ResolvedBy != nil {
		resolver = *cr.ResolvedBy
	}
	return map[string]string{
		"requester": cr.RequestedBy,
		"resolver":  resolver,
		"amount":    domain.FormatBRL(cr.ExtraCostAmount),
		"cost_type": i18n.CostTypeLabel(locale, string(cr.ExtraCostType)),
		"invoice":   cr.InvoiceNumber,
	}
}
