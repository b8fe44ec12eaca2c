package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-cost-approval/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func pendingRequest() *domain.CostRequest {
	d := domain.Draft{
		InvoiceNumber:        "NF001234",
		ExtraCostType:        domain.CostDedicatedVehicle,
		ExtraCostDescription: "Truck reserved for a single delivery",
		ExtraCostAmount:      "1200.00",
	}
	d.ApplyInvoice(domain.Invoice{
		InvoiceNumber:   "NF001234",
		FaceValue:       decimal.RequireFromString("15000.00"),
		RecipientName:   "Cliente ABC Ltda",
		DestinationCity: "São Paulo - SP",
		VolumeCount:     25,
	})
	requester := &domain.User{ID: uuid.New(), FullName: "Ana"}
	return domain.NewCostRequest(d, requester, nil, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
}

func TestCostRequestCreate_InsertsRequestAndHistoryInOneTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCostRequestRepository(db, NewHistoryRepository(db))
	cr := pendingRequest()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cost_requests")).
		WithArgs(cr.ID, "NF001234", sqlmock.AnyArg(), "Cliente ABC Ltda", "São Paulo - SP", 25,
			"DEDICATED_VEHICLE", sqlmock.AnyArg(), sqlmock.AnyArg(), nil, nil,
			"Ana", cr.RequestedByID, cr.RequestedAt, "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cost_request_history")).
		WithArgs(cr.ID, 1, "created", "Ana", nil, cr.RequestedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), cr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCostRequestCreate_HistoryFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCostRequestRepository(db, NewHistoryRepository(db))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cost_requests")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cost_request_history")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), pendingRequest())

	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCostRequestUpdateStatus_ConditionedOnPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCostRequestRepository(db, NewHistoryRepository(db))
	cr := pendingRequest()
	resolver := &domain.User{ID: uuid.New(), FullName: "Bruno"}
	_, patch, err := cr.Resolve(domain.StatusApproved, resolver, nil, cr.RequestedAt.Add(3*time.Hour))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE cost_requests")).
		WithArgs(cr.ID, "PENDING", "APPROVED", "Bruno", resolver.ID, patch.ResolvedAt, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cost_request_history")).
		WithArgs(cr.ID, 2, "approved", "Bruno", nil, patch.ResolvedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateStatus(context.Background(), cr.ID, patch, domain.StatusPending))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCostRequestUpdateStatus_LostRaceIsConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCostRequestRepository(db, NewHistoryRepository(db))
	cr := pendingRequest()
	_, patch, err := cr.Resolve(domain.StatusRejected, &domain.User{ID: uuid.New(), FullName: "Bruno"}, nil, time.Now())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE cost_requests")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repo.UpdateStatus(context.Background(), cr.ID, patch, domain.StatusPending)

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCostRequestGetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCostRequestRepository(db, NewHistoryRepository(db))
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM cost_requests WHERE request_id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"request_id"}))

	_, err := repo.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceFindByNumber_EscapesPattern(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceRepository(db)
	createdAt := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"invoice_id", "invoice_number", "face_value", "recipient_name", "destination_city", "volume_count", "created_at"}).
		AddRow(uuid.New(), "NF_1", "15000.00", "Cliente ABC Ltda", "São Paulo - SP", 25, createdAt)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE invoice_number ILIKE $1")).
		WithArgs(`%NF\_1%`, domain.InvoiceLookupLimit).
		WillReturnRows(rows)

	invoices, err := repo.FindByNumber(context.Background(), "NF_1", domain.InvoiceLookupLimit)

	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.True(t, invoices[0].FaceValue.Equal(decimal.RequireFromString("15000")))
	assert.Equal(t, 25, invoices[0].VolumeCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceGetByNumber_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE invoice_number = $1")).
		WithArgs("NF999").
		WillReturnRows(sqlmock.NewRows([]string{"invoice_id"}))

	_, err := repo.GetByNumber(context.Background(), "NF999")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
