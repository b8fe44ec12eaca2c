package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"freight-cost-approval/internal/domain"
	"freight-cost-approval/internal/middleware"
	"freight-cost-approval/internal/pkg/i18n"
	"freight-cost-approval/internal/service/costrequest"
	"freight-cost-approval/internal/service/invoice"
)

type CostRequestHandler struct {
	crService         costrequest.Service
	invoiceService    invoice.Service
	maxAttachmentSize int64
}

func NewCostRequestHandler(crService costrequest.Service, invoiceService invoice.Service, maxAttachmentSize int64) *CostRequestHandler {
	return &CostRequestHandler{
		crService:         crService,
		invoiceService:    invoiceService,
		maxAttachmentSize: maxAttachmentSize,
	}
}

type autofillInput struct {
	Draft  domain.Draft `json:"draft"`
	Query  string       `json:"query"`
	Select string       `json:"select"`
}

type validateDraftInput struct {
	Draft     domain.Draft `json:"draft"`
	OnlyDirty bool         `json:"only_dirty"`
}

// Autofill applies an invoice-number edit to the draft, or the explicit pick
// of one match when select is set.
func (h *CostRequestHandler) Autofill(c *fiber.Ctx) error {
	var input autofillInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	var (
		result *invoice.AutofillResult
		err    error
	)
	if strings.TrimSpace(input.Select) != "" {
		result, err = h.invoiceService.Select(c.Context(), input.Draft, input.Select)
	} else {
		result, err = h.invoiceService.Autofill(c.Context(), input.Draft, input.Query)
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *CostRequestHandler) Validate(c *fiber.Ctx) error {
	var input validateDraftInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	errs := h.crService.ValidateDraft(input.Draft, input.OnlyDirty)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"valid":  errs.Empty(),
		"fields": errs,
	})
}

func (h *CostRequestHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	draft := domain.Draft{
		InvoiceNumber:        c.FormValue("invoice_number"),
		ExtraCostType:        domain.ExtraCostType(strings.ToUpper(strings.TrimSpace(c.FormValue("extra_cost_type")))),
		ExtraCostDescription: c.FormValue("extra_cost_description"),
		ExtraCostAmount:      c.FormValue("extra_cost_amount"),
	}

	file, err := c.FormFile("attachment")
	switch {
	case err == nil:
		if h.maxAttachmentSize > 0 && file.Size > h.maxAttachmentSize {
			return domain.NewValidationError(domain.FieldErrors{
				string(domain.FieldAttachment): "attachment is too large",
			})
		}

		reader, err := file.Open()
		if err != nil {
			return middleware.BadRequest("Failed to read attachment")
		}
		defer reader.Close()

		contentType := file.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		draft.SetAttachment(&domain.AttachmentUpload{
			FileName:    file.Filename,
			Size:        file.Size,
			ContentType: contentType,
			Reader:      reader,
		})
	case errors.Is(err, fasthttp.ErrMissingFile), errors.Is(err, fasthttp.ErrNoMultipartForm):
	default:
		return middleware.BadRequest("Invalid attachment")
	}

	cr, err := h.crService.Submit(c.Context(), draft, user)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(cr)
}

func (h *CostRequestHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	var filter domain.CostRequestFilter
	if s := strings.ToUpper(c.Query("status")); s != "" && s != "ALL" {
		status := domain.CostRequestStatus(s)
		if !status.IsValid() {
			return middleware.BadRequest("Invalid status filter")
		}
		filter.Status = &status
	}

	result, err := h.crService.List(c.Context(), filter, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *CostRequestHandler) PendingCount(c *fiber.Ctx) error {
	count, err := h.crService.CountPending(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"count": count})
}

func (h *CostRequestHandler) Get(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return middleware.BadRequest("Invalid request ID")
	}

	cr, err := h.crService.GetByID(c.Context(), requestID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(cr)
}

func (h *CostRequestHandler) Approve(c *fiber.Ctx) error {
	return h.resolve(c, domain.StatusApproved)
}

func (h *CostRequestHandler) Reject(c *fiber.Ctx) error {
	return h.resolve(c, domain.StatusRejected)
}

func (h *CostRequestHandler) resolve(c *fiber.Ctx, decision domain.CostRequestStatus) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return middleware.BadRequest("Invalid request ID")
	}

	var input domain.ResolveInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return middleware.BadRequest("Invalid request body")
		}
	}
	if err := validateInput(input); err != nil {
		return err
	}

	cr, err := h.crService.Resolve(c.Context(), requestID, decision, user, input.Comment)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(cr)
}

type costTypeOption struct {
	Code               domain.ExtraCostType `json:"code"`
	Label              string               `json:"label"`
	RequiresAttachment bool                 `json:"requires_attachment"`
}

// CostTypes lists the extra-cost categories with localized labels.
func (h *CostRequestHandler) CostTypes(c *fiber.Ctx) error {
	locale := c.Query("locale", i18n.DefaultLocale)

	options := make([]costTypeOption, 0, len(domain.ExtraCostTypes))
	for _, t := range domain.ExtraCostTypes {
		options = append(options, costTypeOption{
			Code:               t,
			Label:              i18n.CostTypeLabel(locale, string(t)),
			RequiresAttachment: t.RequiresAttachment(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(options)
}
