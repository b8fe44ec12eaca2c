package handler

import (
	"github.com/gofiber/fiber/v2"

	"freight-cost-approval/internal/service/invoice"
)

type InvoiceHandler struct {
	invoiceService invoice.Service
}

func NewInvoiceHandler(invoiceService invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) Search(c *fiber.Ctx) error {
	invoices, err := h.invoiceService.Lookup(c.Context(), c.Query("q"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(invoices)
}
