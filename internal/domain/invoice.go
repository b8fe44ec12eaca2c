package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceLookupLimit caps the number of invoices returned by a number search.
const InvoiceLookupLimit = 10

// Invoice is reference data (nota fiscal) looked up by number. It is never
// created or changed by this service.
type Invoice struct {
	ID              uuid.UUID       `json:"id" db:"invoice_id"`
	InvoiceNumber   string          `json:"invoice_number" db:"invoice_number"`
	FaceValue       decimal.Decimal `json:"face_value" db:"face_value"`
	RecipientName   string          `json:"recipient_name" db:"recipient_name"`
	DestinationCity string          `json:"destination_city" db:"destination_city"`
	VolumeCount     int             `json:"volume_count" db:"volume_count"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}
