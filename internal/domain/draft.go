package domain

import (
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

type DraftField string

const (
	FieldInvoiceNumber        DraftField = "invoice_number"
	FieldExtraCostType        DraftField = "extra_cost_type"
	FieldExtraCostDescription DraftField = "extra_cost_description"
	FieldExtraCostAmount      DraftField = "extra_cost_amount"
	FieldAttachment           DraftField = "attachment"
)

// Draft is the unpersisted form state of a cost request. It is passed
// explicitly between lookup, validation and submission.
type Draft struct {
	InvoiceNumber   string          `json:"invoice_number"`
	InvoiceValue    decimal.Decimal `json:"invoice_value"`
	Recipient       string          `json:"recipient"`
	DestinationCity string          `json:"destination_city"`
	VolumeCount     int             `json:"volume_count"`
	InvoiceLocked   bool            `json:"invoice_locked"`

	ExtraCostType        ExtraCostType `json:"extra_cost_type"`
	ExtraCostDescription string        `json:"extra_cost_description"`
	ExtraCostAmount      string        `json:"extra_cost_amount"`

	AttachmentName string            `json:"attachment_name,omitempty"`
	Attachment     *AttachmentUpload `json:"-"`

	Dirty map[DraftField]bool `json:"dirty,omitempty"`
}

// AttachmentUpload is a file waiting to be handed to the blob store.
type AttachmentUpload struct {
	FileName    string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// Attachment is a stored file reference.
type Attachment struct {
	URL              string `json:"url"`
	OriginalFilename string `json:"original_filename"`
	StoragePath      string `json:"-"`
}

func (d *Draft) Touch(field DraftField) {
	if d.Dirty == nil {
		d.Dirty = make(map[DraftField]bool)
	}
	d.Dirty[field] = true
}

func (d *Draft) IsDirty(field DraftField) bool {
	return d.Dirty[field]
}

// SetInvoiceNumber edits the invoice-number field. Any change drops a previous
// autofill so the invoice fields have to be looked up again.
func (d *Draft) SetInvoiceNumber(number string) {
	if strings.TrimSpace(number) != d.TrimmedInvoiceNumber() {
		d.ClearAutofill()
	}
	d.InvoiceNumber = number
	d.Touch(FieldInvoiceNumber)
}

func (d *Draft) ClearAutofill() {
	d.InvoiceValue = decimal.Zero
	d.Recipient = ""
	d.DestinationCity = ""
	d.VolumeCount = 0
	d.InvoiceLocked = false
}

// ApplyInvoice copies the invoice snapshot into the draft and locks the
// invoice fields.
func (d *Draft) ApplyInvoice(inv Invoice) {
	d.InvoiceNumber = inv.InvoiceNumber
	d.InvoiceValue = inv.FaceValue
	d.Recipient = inv.RecipientName
	d.DestinationCity = inv.DestinationCity
	d.VolumeCount = inv.VolumeCount
	d.InvoiceLocked = true
	d.Touch(FieldInvoiceNumber)
}

func (d *Draft) SetAttachment(upload *AttachmentUpload) {
	d.Attachment = upload
	d.AttachmentName = ""
	if upload != nil {
		d.AttachmentName = upload.FileName
	}
	d.Touch(FieldAttachment)
}

func (d *Draft) TrimmedInvoiceNumber() string {
	return strings.TrimSpace(d.InvoiceNumber)
}

func (d *Draft) TrimmedDescription() string {
	return strings.TrimSpace(d.ExtraCostDescription)
}

func (d *Draft) HasAttachment() bool {
	return d.Attachment != nil || d.AttachmentName != ""
}

// Validate evaluates every field rule. Rules are independent of each other.
func (d *Draft) Validate() FieldErrors {
	errs := FieldErrors{}

	if d.TrimmedInvoiceNumber() == "" {
		errs[string(FieldInvoiceNumber)] = "invoice number is required"
	}

	switch {
	case d.ExtraCostType == "":
		errs[string(FieldExtraCostType)] = "extra cost type is required"
	case !d.ExtraCostType.IsValid():
		errs[string(FieldExtraCostType)] = "unknown extra cost type"
	}

	if d.TrimmedDescription() == "" {
		errs[string(FieldExtraCostDescription)] = "description is required"
	}

	if d.ExtraCostType != "" {
		if _, err := ParseAmount(d.ExtraCostAmount); err != nil {
			errs[string(FieldExtraCostAmount)] = err.Error()
		}
	}

	if d.ExtraCostType.RequiresAttachment() && !d.HasAttachment() {
		errs[string(FieldAttachment)] = "attachment is required for this cost type"
	}

	return errs
}

// VisibleErrors returns only the errors of fields the user already touched.
func (d *Draft) VisibleErrors() FieldErrors {
	all := d.Validate()
	visible := FieldErrors{}
	for field, msg := range all {
		if d.IsDirty(DraftField(field)) {
			visible[field] = msg
		}
	}
	return visible
}
