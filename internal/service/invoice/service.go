package invoice

import (
	"context"
	"errors"
	"strings"

	"freight-cost-approval/internal/domain"
	"freight-cost-approval/internal/repository"
)

// AutofillResult is the outcome of typing into the invoice-number field.
type AutofillResult struct {
	Draft   domain.Draft     `json:"draft"`
	Matches []domain.Invoice `json:"matches"`
	Exact   bool             `json:"exact"`
}

type Service interface {
	Lookup(ctx context.Context, query string) ([]domain.Invoice, error)
	Autofill(ctx context.Context, draft domain.Draft, query string) (*AutofillResult, error)
	Select(ctx context.Context, draft domain.Draft, invoiceNumber string) (*AutofillResult, error)
	Resolve(ctx context.Context, number string) (*domain.Invoice, error)
}

type service struct {
	invoiceRepo repository.InvoiceRepository
}

func NewService(invoiceRepo repository.InvoiceRepository) Service {
	return &service{invoiceRepo: invoiceRepo}
}

// Lookup matches invoice numbers containing query, case-insensitively, in
// ascending order and capped at domain.InvoiceLookupLimit.
func (s *service) Lookup(ctx context.Context, query string) ([]domain.Invoice, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []domain.Invoice{}, nil
	}

	invoices, err := s.invoiceRepo.FindByNumber(ctx, q, domain.InvoiceLookupLimit)
	if err != nil {
		return nil, domain.NewStorageError("invoice lookup", err)
	}
	if len(invoices) > domain.InvoiceLookupLimit {
		invoices = invoices[:domain.InvoiceLookupLimit]
	}
	return invoices, nil
}

// Autofill applies an edit of the invoice-number field to draft. An exact
// number match fills the invoice fields at once; otherwise the partial
// matches are returned for the user to pick from.
func (s *service) Autofill(ctx context.Context, draft domain.Draft, query string) (*AutofillResult, error) {
	draft.SetInvoiceNumber(query)

	q := strings.TrimSpace(query)
	if q == "" {
		draft.ClearAutofill()
		return &AutofillResult{Draft: draft, Matches: []domain.Invoice{}}, nil
	}

	matches, err := s.Lookup(ctx, q)
	if err != nil {
		return nil, err
	}

	result := &AutofillResult{Matches: matches}
	for _, inv := range matches {
		if inv.InvoiceNumber == q {
			draft.ApplyInvoice(inv)
			result.Exact = true
			break
		}
	}

	// A full page may have pushed the exact number past the cap.
	if !result.Exact && len(matches) >= domain.InvoiceLookupLimit {
		inv, err := s.invoiceRepo.GetByNumber(ctx, q)
		switch {
		case err == nil:
			draft.ApplyInvoice(*inv)
			result.Exact = true
			result.Matches = append([]domain.Invoice{*inv}, matches[:domain.InvoiceLookupLimit-1]...)
		case !errors.Is(err, domain.ErrNotFound):
			return nil, domain.NewStorageError("invoice lookup", err)
		}
	}
	result.Draft = draft

	return result, nil
}

// Select performs the autofill for an invoice picked from the match list.
func (s *service) Select(ctx context.Context, draft domain.Draft, invoiceNumber string) (*AutofillResult, error) {
	inv, err := s.Resolve(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}

	draft.ApplyInvoice(*inv)
	return &AutofillResult{Draft: draft, Matches: []domain.Invoice{*inv}, Exact: true}, nil
}

// Resolve fetches the invoice with exactly this number.
func (s *service) Resolve(ctx context.Context, number string) (*domain.Invoice, error) {
	n := strings.TrimSpace(number)
	if n == "" {
		return nil, domain.NewValidationError(domain.FieldErrors{
			string(domain.FieldInvoiceNumber): "invoice number is required",
		})
	}

	inv, err := s.invoiceRepo.GetByNumber(ctx, n)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError(domain.FieldErrors{
			string(domain.FieldInvoiceNumber): "invoice not found",
		})
	}
	if err != nil {
		return nil, domain.NewStorageError("invoice lookup", err)
	}
	return inv, nil
}
