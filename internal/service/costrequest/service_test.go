package costrequest

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"freight-cost-approval/internal/domain"
	"freight-cost-approval/internal/mocks"
	"freight-cost-approval/internal/service/invoice"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc         *service
	crRepo      *mocks.CostRequestRepository
	invoiceRepo *mocks.InvoiceRepository
	attachments *mocks.AttachmentService
	notif       *mocks.NotificationService
	dashboard   *mocks.DashboardInvalidator
}

func newFixture() *fixture {
	f := &fixture{
		crRepo:      new(mocks.CostRequestRepository),
		invoiceRepo: new(mocks.InvoiceRepository),
		attachments: new(mocks.AttachmentService),
		notif:       new(mocks.NotificationService),
		dashboard:   new(mocks.DashboardInvalidator),
	}
	f.svc = NewService(f.crRepo, invoice.NewService(f.invoiceRepo), f.attachments, f.notif, f.dashboard).(*service)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func knownInvoice() *domain.Invoice {
	return &domain.Invoice{
		ID:              uuid.New(),
		InvoiceNumber:   "NF001234",
		FaceValue:       decimal.RequireFromString("15000.00"),
		RecipientName:   "Cliente ABC Ltda",
		DestinationCity: "São Paulo - SP",
		VolumeCount:     25,
	}
}

func requester() *domain.User {
	return &domain.User{ID: uuid.New(), FullName: "Ana Requester", Role: string(domain.RoleRequester)}
}

func approver() *domain.User {
	return &domain.User{ID: uuid.New(), FullName: "Bruno Approver", Role: string(domain.RoleApprover)}
}

func dailyRateDraft() domain.Draft {
	return domain.Draft{
		InvoiceNumber:        "NF001234",
		ExtraCostType:        domain.CostDailyRate,
		ExtraCostDescription: "Driver waited a full day at the dock",
		ExtraCostAmount:      "350.00",
	}
}

func withAttachment(d domain.Draft) domain.Draft {
	d.SetAttachment(&domain.AttachmentUpload{
		FileName:    "receipt.pdf",
		Size:        4,
		ContentType: "application/pdf",
		Reader:      bytes.NewReader([]byte("%PDF")),
	})
	return d
}

func pendingRequest(f *fixture) *domain.CostRequest {
	d := dailyRateDraft()
	d.ApplyInvoice(*knownInvoice())
	att := &domain.Attachment{URL: "http://blob/receipt.pdf", OriginalFilename: "receipt.pdf"}
	return domain.NewCostRequest(d, requester(), att, fixedNow.Add(-6*time.Hour))
}

func TestSubmit_ScenarioA_MissingAttachment(t *testing.T) {
	f := newFixture()

	cr, err := f.svc.Submit(context.Background(), dailyRateDraft(), requester())

	require.Nil(t, cr)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "attachment")
	f.crRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.attachments.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	f.notif.AssertNotCalled(t, "NotifyRequestCreated", mock.Anything, mock.Anything)
}

func TestSubmit_NameWithoutUploadIsRejected(t *testing.T) {
	f := newFixture()
	d := dailyRateDraft()
	d.AttachmentName = "forged.pdf"

	_, err := f.svc.Submit(context.Background(), d, requester())

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSubmit_ScenarioB_CreatesPendingRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft := withAttachment(dailyRateDraft())
	stored := &domain.Attachment{URL: "http://blob/attachments/2026/03/x.pdf", OriginalFilename: "receipt.pdf", StoragePath: "attachments/2026/03/x.pdf"}

	f.invoiceRepo.On("GetByNumber", ctx, "NF001234").Return(knownInvoice(), nil).Once()
	f.attachments.On("Upload", ctx, draft.Attachment).Return(stored, nil).Once()
	f.crRepo.On("Create", ctx, mock.AnythingOfType("*domain.CostRequest")).Return(nil).Once()
	f.notif.On("NotifyRequestCreated", ctx, mock.AnythingOfType("*domain.CostRequest")).
		Return(&domain.Notification{Kind: domain.NotifInfo}, nil).Once()
	f.dashboard.On("Invalidate", ctx).Return(nil).Once()

	cr, err := f.svc.Submit(ctx, draft, requester())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, cr.Status)
	assert.True(t, cr.InvoiceValue.Equal(decimal.RequireFromString("15000.00")))
	assert.Equal(t, "Cliente ABC Ltda", cr.Recipient)
	assert.True(t, cr.ExtraCostAmount.Equal(decimal.RequireFromString("350")))
	assert.Equal(t, fixedNow, cr.RequestedAt)
	require.NotNil(t, cr.AttachmentURL)
	assert.Equal(t, stored.URL, *cr.AttachmentURL)
	require.Len(t, cr.History, 1)
	assert.Equal(t, domain.HistoryCreated, cr.History[0].Action)
	assert.Equal(t, "Ana Requester", cr.History[0].Actor)
	assert.Nil(t, cr.ResolvedAt)

	f.crRepo.AssertNumberOfCalls(t, "Create", 1)
	f.notif.AssertNumberOfCalls(t, "NotifyRequestCreated", 1)
	f.dashboard.AssertExpectations(t)
}

func TestSubmit_DedicatedVehicleNeedsNoAttachment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := dailyRateDraft()
	d.ExtraCostType = domain.CostDedicatedVehicle
	d.ExtraCostAmount = "1200,50"

	f.invoiceRepo.On("GetByNumber", ctx, "NF001234").Return(knownInvoice(), nil).Once()
	f.crRepo.On("Create", ctx, mock.AnythingOfType("*domain.CostRequest")).Return(nil).Once()
	f.notif.On("NotifyRequestCreated", ctx, mock.Anything).Return(nil, errors.New("notif store down")).Once()
	f.dashboard.On("Invalidate", ctx).Return(nil).Once()

	cr, err := f.svc.Submit(ctx, d, requester())

	require.NoError(t, err)
	assert.Nil(t, cr.AttachmentURL)
	assert.True(t, cr.ExtraCostAmount.Equal(decimal.RequireFromString("1200.50")))
	f.attachments.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestSubmit_UnknownInvoice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.invoiceRepo.On("GetByNumber", ctx, "NF001234").Return(nil, domain.ErrNotFound).Once()

	_, err := f.svc.Submit(ctx, withAttachment(dailyRateDraft()), requester())

	assert.ErrorIs(t, err, domain.ErrValidation)
	f.attachments.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestSubmit_BlobFailureCreatesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft := withAttachment(dailyRateDraft())

	f.invoiceRepo.On("GetByNumber", ctx, "NF001234").Return(knownInvoice(), nil).Once()
	f.attachments.On("Upload", ctx, draft.Attachment).Return(nil, errors.New("connection refused")).Once()

	cr, err := f.svc.Submit(ctx, draft, requester())

	assert.Nil(t, cr)
	assert.ErrorIs(t, err, domain.ErrStorage)
	f.crRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.notif.AssertNotCalled(t, "NotifyRequestCreated", mock.Anything, mock.Anything)
}

func TestSubmit_InsertFailureRemovesBlob(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft := withAttachment(dailyRateDraft())
	stored := &domain.Attachment{URL: "http://blob/x.pdf", OriginalFilename: "receipt.pdf", StoragePath: "attachments/2026/03/x.pdf"}

	f.invoiceRepo.On("GetByNumber", ctx, "NF001234").Return(knownInvoice(), nil).Once()
	f.attachments.On("Upload", ctx, draft.Attachment).Return(stored, nil).Once()
	f.crRepo.On("Create", ctx, mock.Anything).Return(errors.New("deadlock")).Once()
	f.attachments.On("Remove", ctx, stored).Return(nil).Once()

	cr, err := f.svc.Submit(ctx, draft, requester())

	assert.Nil(t, cr)
	assert.ErrorIs(t, err, domain.ErrStorage)
	f.attachments.AssertExpectations(t)
	f.notif.AssertNotCalled(t, "NotifyRequestCreated", mock.Anything, mock.Anything)
}

func TestResolve_ScenarioC_Approve(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	current := pendingRequest(f)
	resolver := approver()

	f.crRepo.On("GetByID", ctx, current.ID).Return(current, nil).Once()
	f.crRepo.On("UpdateStatus", ctx, current.ID, mock.MatchedBy(func(p *domain.StatusPatch) bool {
		return p.Status == domain.StatusApproved && p.ResolvedBy == "Bruno Approver" && p.Entry.Seq == 2
	}), domain.StatusPending).Return(nil).Once()
	f.notif.On("NotifyRequestResolved", ctx, mock.AnythingOfType("*domain.CostRequest")).
		Return(&domain.Notification{Kind: domain.NotifSuccess}, nil).Once()
	f.dashboard.On("Invalidate", ctx).Return(nil).Once()

	next, err := f.svc.Resolve(ctx, current.ID, domain.StatusApproved, resolver, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, next.Status)
	assert.True(t, next.IsResolved())
	assert.Equal(t, "", *next.ResolutionComment)
	assert.Equal(t, fixedNow, *next.ResolvedAt)
	require.Len(t, next.History, 2)
	assert.Equal(t, domain.HistoryApproved, next.History[1].Action)

	sla, ok := next.SLA()
	require.True(t, ok)
	assert.Equal(t, 6*time.Hour, sla)

	assert.Equal(t, domain.StatusPending, current.Status)
	f.crRepo.AssertExpectations(t)
	f.notif.AssertExpectations(t)
}

func TestResolve_RejectCarriesComment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	current := pendingRequest(f)
	comment := "Comprovante ilegível"

	f.crRepo.On("GetByID", ctx, current.ID).Return(current, nil).Once()
	f.crRepo.On("UpdateStatus", ctx, current.ID, mock.Anything, domain.StatusPending).Return(nil).Once()
	f.notif.On("NotifyRequestResolved", ctx, mock.Anything).Return(nil, nil).Once()
	f.dashboard.On("Invalidate", ctx).Return(errors.New("redis down")).Once()

	next, err := f.svc.Resolve(ctx, current.ID, domain.StatusRejected, approver(), &comment)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, next.Status)
	assert.Equal(t, comment, *next.ResolutionComment)
	assert.Equal(t, &comment, next.History[1].Comment)
}

func TestResolve_ScenarioD_SecondResolveIsInvalid(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	current := pendingRequest(f)
	resolved, _, err := current.Resolve(domain.StatusApproved, approver(), nil, fixedNow)
	require.NoError(t, err)

	f.crRepo.On("GetByID", ctx, current.ID).Return(resolved, nil).Twice()

	for _, decision := range []domain.CostRequestStatus{domain.StatusApproved, domain.StatusRejected} {
		_, err := f.svc.Resolve(ctx, current.ID, decision, approver(), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	}

	assert.Equal(t, domain.StatusApproved, resolved.Status)
	f.crRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.notif.AssertNotCalled(t, "NotifyRequestResolved", mock.Anything, mock.Anything)
}

func TestResolve_ScenarioE_RequesterIsUnauthorized(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Resolve(context.Background(), uuid.New(), domain.StatusApproved, requester(), nil)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	f.crRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.crRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_AdminMayResolve(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	current := pendingRequest(f)
	admin := &domain.User{ID: uuid.New(), FullName: "Carla Admin", Role: string(domain.RoleAdmin)}

	f.crRepo.On("GetByID", ctx, current.ID).Return(current, nil).Once()
	f.crRepo.On("UpdateStatus", ctx, current.ID, mock.Anything, domain.StatusPending).Return(nil).Once()
	f.notif.On("NotifyRequestResolved", ctx, mock.Anything).Return(nil, nil).Once()
	f.dashboard.On("Invalidate", ctx).Return(nil).Once()

	next, err := f.svc.Resolve(ctx, current.ID, domain.StatusRejected, admin, nil)

	require.NoError(t, err)
	assert.Equal(t, "Carla Admin", *next.ResolvedBy)
}

func TestResolve_InvalidDecision(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	current := pendingRequest(f)

	f.crRepo.On("GetByID", ctx, current.ID).Return(current, nil).Once()

	_, err := f.svc.Resolve(ctx, current.ID, domain.StatusPending, approver(), nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestResolve_StoreFailureLeavesRequestPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	current := pendingRequest(f)

	f.crRepo.On("GetByID", ctx, current.ID).Return(current, nil).Once()
	f.crRepo.On("UpdateStatus", ctx, current.ID, mock.Anything, domain.StatusPending).Return(errors.New("i/o timeout")).Once()

	next, err := f.svc.Resolve(ctx, current.ID, domain.StatusApproved, approver(), nil)

	assert.Nil(t, next)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, domain.StatusPending, current.Status)
	assert.Nil(t, current.ResolvedAt)
	assert.Len(t, current.History, 1)
	f.notif.AssertNotCalled(t, "NotifyRequestResolved", mock.Anything, mock.Anything)
}

func TestResolve_ConcurrentConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	current := pendingRequest(f)

	f.crRepo.On("GetByID", ctx, current.ID).Return(current, nil).Once()
	f.crRepo.On("UpdateStatus", ctx, current.ID, mock.Anything, domain.StatusPending).Return(domain.ErrConflict).Once()

	_, err := f.svc.Resolve(ctx, current.ID, domain.StatusApproved, approver(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	f.notif.AssertNotCalled(t, "NotifyRequestResolved", mock.Anything, mock.Anything)
}

func TestResolve_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()

	f.crRepo.On("GetByID", ctx, id).Return(nil, domain.ErrNotFound).Once()

	_, err := f.svc.Resolve(ctx, id, domain.StatusApproved, approver(), nil)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestValidateDraft_OnlyDirty(t *testing.T) {
	f := newFixture()
	d := domain.Draft{}
	d.Touch(domain.FieldExtraCostDescription)

	visible := f.svc.ValidateDraft(d, true)
	all := f.svc.ValidateDraft(d, false)

	assert.Len(t, visible, 1)
	assert.Contains(t, visible, "extra_cost_description")
	assert.Contains(t, all, "invoice_number")
	assert.Contains(t, all, "extra_cost_type")
}

func TestList(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	status := domain.StatusPending
	filter := domain.CostRequestFilter{Status: &status}
	params := domain.PaginationParams{Page: 2, PageSize: 5}

	f.crRepo.On("List", ctx, filter, params).Return([]domain.CostRequest{*pendingRequest(f)}, int64(6), nil).Once()

	page, err := f.svc.List(ctx, filter, params)

	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasPrev)
	assert.False(t, page.HasNext)
}

func TestCountPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.crRepo.On("CountPending", ctx).Return(int64(3), nil).Once()

	n, err := f.svc.CountPending(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
