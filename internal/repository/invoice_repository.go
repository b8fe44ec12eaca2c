package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"freight-cost-approval/internal/domain"
)

type InvoiceRepository interface {
	FindByNumber(ctx context.Context, query string, limit int) ([]domain.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*domain.Invoice, error)
}

type invoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *invoiceRepository) FindByNumber(ctx context.Context, query string, limit int) ([]domain.Invoice, error) {
	invoices := []domain.Invoice{}
	pattern := "%" + likeEscaper.Replace(query) + "%"

	stmt := `
		SELECT * FROM invoices
		WHERE invoice_number ILIKE $1
		ORDER BY invoice_number ASC
		LIMIT $2`

	err := r.db.SelectContext(ctx, &invoices, stmt, pattern, limit)
	return invoices, err
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	query := `SELECT * FROM invoices WHERE invoice_number = $1`

	err := r.db.GetContext(ctx, &invoice, query, number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}
