package costrequest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"freight-cost-approval/internal/domain"
	"freight-cost-approval/internal/repository"
	"freight-cost-approval/internal/service/attachment"
	"freight-cost-approval/internal/service/invoice"
	"freight-cost-approval/internal/service/notification"
)

// DashboardInvalidator drops cached dashboard metrics after a write.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Service interface {
	ValidateDraft(draft domain.Draft, onlyDirty bool) domain.FieldErrors
	Submit(ctx context.Context, draft domain.Draft, requester *domain.User) (*domain.CostRequest, error)
	Resolve(ctx context.Context, id uuid.UUID, decision domain.CostRequestStatus, resolver *domain.User, comment *string) (*domain.CostRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CostRequest, error)
	List(ctx context.Context, filter domain.CostRequestFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.CostRequest], error)
	CountPending(ctx context.Context) (int64, error)
}

type service struct {
	crRepo        repository.CostRequestRepository
	invoiceSvc    invoice.Service
	attachmentSvc attachment.Service
	notifSvc      notification.Service
	dashboard     DashboardInvalidator
	now           func() time.Time
}

func NewService(
	crRepo repository.CostRequestRepository,
	invoiceSvc invoice.Service,
	attachmentSvc attachment.Service,
	notifSvc notification.Service,
	dashboard DashboardInvalidator,
) Service {
	return &service{
		crRepo:        crRepo,
		invoiceSvc:    invoiceSvc,
		attachmentSvc: attachmentSvc,
		notifSvc:      notifSvc,
		dashboard:     dashboard,
		now:           time.Now,
	}
}

// ValidateDraft runs every field rule. With onlyDirty set, errors of fields
// the user has not touched yet are left out.
func (s *service) ValidateDraft(draft domain.Draft, onlyDirty bool) domain.FieldErrors {
	if onlyDirty {
		return draft.VisibleErrors()
	}
	return draft.Validate()
}

// Submit validates the draft, stores the attachment and persists a new
// PENDING request. Nothing is persisted when any step fails.
func (s *service) Submit(ctx context.Context, draft domain.Draft, requester *domain.User) (*domain.CostRequest, error) {
	if requester == nil {
		return nil, domain.ErrUnauthorized
	}

	// A file name without an upload is client state only.
	if draft.Attachment == nil {
		draft.AttachmentName = ""
	}

	if errs := draft.Validate(); !errs.Empty() {
		return nil, domain.NewValidationError(errs)
	}

	inv, err := s.invoiceSvc.Resolve(ctx, draft.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	draft.ApplyInvoice(*inv)

	var stored *domain.Attachment
	if draft.Attachment != nil {
		stored, err = s.attachmentSvc.Upload(ctx, draft.Attachment)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrStorage) {
				return nil, err
			}
			return nil, domain.NewStorageError("attachment upload", err)
		}
	}

	cr := domain.NewCostRequest(draft, requester, stored, s.now())

	if err := s.crRepo.Create(ctx, cr); err != nil {
		if stored != nil {
			if rmErr := s.attachmentSvc.Remove(ctx, stored); rmErr != nil {
				log.Printf("failed to remove orphaned attachment %s: %v", stored.StoragePath, rmErr)
			}
		}
		return nil, domain.NewStorageError("create cost request", err)
	}

	if _, err := s.notifSvc.NotifyRequestCreated(ctx, cr); err != nil {
		log.Printf("failed to notify creation of cost request %s: %v", cr.ID, err)
	}
	s.invalidateDashboard(ctx)

	return cr, nil
}

// Resolve moves a PENDING request to APPROVED or REJECTED. The returned value
// reflects the new state only once the store accepted the write.
func (s *service) Resolve(ctx context.Context, id uuid.UUID, decision domain.CostRequestStatus, resolver *domain.User, comment *string) (*domain.CostRequest, error) {
	if resolver == nil || !resolver.CanResolve() {
		return nil, domain.ErrUnauthorized
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, patch, err := current.Resolve(decision, resolver, comment, s.now())
	if err != nil {
		return nil, err
	}

	err = s.crRepo.UpdateStatus(ctx, id, patch, domain.StatusPending)
	if errors.Is(err, domain.ErrConflict) {
		return nil, fmt.Errorf("resolve %s: %w", id, domain.ErrInvalidTransition)
	}
	if err != nil {
		return nil, domain.NewStorageError("update cost request status", err)
	}

	if _, err := s.notifSvc.NotifyRequestResolved(ctx, next); err != nil {
		log.Printf("failed to notify resolution of cost request %s: %v", id, err)
	}
	s.invalidateDashboard(ctx)

	return next, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.CostRequest, error) {
	cr, err := s.crRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, domain.NewStorageError("get cost request", err)
	}
	return cr, nil
}

func (s *service) List(ctx context.Context, filter domain.CostRequestFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.CostRequest], error) {
	params.Validate()

	requests, total, err := s.crRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.CostRequest]{}, domain.NewStorageError("list cost requests", err)
	}

	return domain.NewPaginatedResponse(requests, params.Page, params.PageSize, total), nil
}

func (s *service) CountPending(ctx context.Context) (int64, error) {
	count, err := s.crRepo.CountPending(ctx)
	if err != nil {
		return 0, domain.NewStorageError("count pending", err)
	}
	return count, nil
}

func (s *service) invalidateDashboard(ctx context.Context) {
	if s.dashboard == nil {
		return
	}
	if err := s.dashboard.Invalidate(ctx); err != nil {
		log.Printf("failed to invalidate dashboard cache: %v", err)
	}
}
