package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CostRequest struct {
	ID uuid.UUID `json:"id" db:"request_id"`

	InvoiceNumber   string          `json:"invoice_number" db:"invoice_number"`
	InvoiceValue    decimal.Decimal `json:"invoice_value" db:"invoice_value"`
	Recipient       string          `json:"recipient" db:"recipient"`
	DestinationCity string          `json:"destination_city" db:"destination_city"`
	VolumeCount     int             `json:"volume_count" db:"volume_count"`

	ExtraCostType        ExtraCostType   `json:"extra_cost_type" db:"extra_cost_type"`
	ExtraCostDescription string          `json:"extra_cost_description" db:"extra_cost_description"`
	ExtraCostAmount      decimal.Decimal `json:"extra_cost_amount" db:"extra_cost_amount"`

	AttachmentURL  *string `json:"attachment_url,omitempty" db:"attachment_url"`
	AttachmentName *string `json:"attachment_name,omitempty" db:"attachment_name"`

	RequestedBy   string    `json:"requested_by" db:"requested_by"`
	RequestedByID uuid.UUID `json:"requested_by_id" db:"requested_by_id"`
	RequestedAt   time.Time `json:"requested_at" db:"requested_at"`

	Status            CostRequestStatus `json:"status" db:"status"`
	ResolvedBy        *string           `json:"resolved_by,omitempty" db:"resolved_by"`
	ResolvedByID      *uuid.UUID        `json:"resolved_by_id,omitempty" db:"resolved_by_id"`
	ResolvedAt        *time.Time        `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolutionComment *string           `json:"resolution_comment,omitempty" db:"resolution_comment"`

	History []HistoryEntry `json:"history" db:"-"`
}

type CostRequestStatus string

const (
	StatusPending  CostRequestStatus = "PENDING"
	StatusApproved CostRequestStatus = "APPROVED"
	StatusRejected CostRequestStatus = "REJECTED"
)

func (s CostRequestStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

func (s CostRequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type ExtraCostType string

const (
	CostDailyRate         ExtraCostType = "DAILY_RATE"
	CostOvernight         ExtraCostType = "OVERNIGHT"
	CostDedicatedVehicle  ExtraCostType = "DEDICATED_VEHICLE"
	CostStorage           ExtraCostType = "STORAGE"
	CostRework            ExtraCostType = "REWORK"
	CostRedeliveryAttempt ExtraCostType = "REDELIVERY_ATTEMPT"
	CostOther             ExtraCostType = "OTHER"
)

var ExtraCostTypes = []ExtraCostType{
	CostDailyRate,
	CostOvernight,
	CostDedicatedVehicle,
	CostStorage,
	CostRework,
	CostRedeliveryAttempt,
	CostOther,
}

func (t ExtraCostType) IsValid() bool {
	for _, known := range ExtraCostTypes {
		if t == known {
			return true
		}
	}
	return false
}

// RequiresAttachment reports whether a proof file must accompany this cost type.
func (t ExtraCostType) RequiresAttachment() bool {
	return t != CostDedicatedVehicle
}

type HistoryAction string

const (
	HistoryCreated  HistoryAction = "created"
	HistoryApproved HistoryAction = "approved"
	HistoryRejected HistoryAction = "rejected"
)

type HistoryEntry struct {
	RequestID uuid.UUID     `json:"request_id" db:"request_id"`
	Seq       int           `json:"-" db:"seq"`
	Action    HistoryAction `json:"action" db:"action"`
	Actor     string        `json:"actor" db:"actor"`
	Timestamp time.Time     `json:"timestamp" db:"created_at"`
	Comment   *string       `json:"comment,omitempty" db:"comment"`
}

// StatusPatch is the set of columns written when a request leaves PENDING.
type StatusPatch struct {
	Status            CostRequestStatus
	ResolvedBy        string
	ResolvedByID      uuid.UUID
	ResolvedAt        time.Time
	ResolutionComment string
	Entry             HistoryEntry
}

type CostRequestFilter struct {
	Status *CostRequestStatus
}

type ResolveInput struct {
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

// NewCostRequest builds a PENDING request from a draft snapshot. The draft must
// already have passed validation.
func NewCostRequest(d Draft, requester *User, attachment *Attachment, now time.Time) *CostRequest {
	amount, _ := ParseAmount(d.ExtraCostAmount)

	cr := &CostRequest{
		ID:                   uuid.New(),
		InvoiceNumber:        d.TrimmedInvoiceNumber(),
		InvoiceValue:         d.InvoiceValue,
		Recipient:            d.Recipient,
		DestinationCity:      d.DestinationCity,
		VolumeCount:          d.VolumeCount,
		ExtraCostType:        d.ExtraCostType,
		ExtraCostDescription: d.TrimmedDescription(),
		ExtraCostAmount:      amount,
		RequestedBy:          requester.FullName,
		RequestedByID:        requester.ID,
		RequestedAt:          now,
		Status:               StatusPending,
	}

	if attachment != nil {
		url := attachment.URL
		name := attachment.OriginalFilename
		cr.AttachmentURL = &url
		cr.AttachmentName = &name
	}

	cr.History = []HistoryEntry{{
		RequestID: cr.ID,
		Seq:       1,
		Action:    HistoryCreated,
		Actor:     requester.FullName,
		Timestamp: now,
	}}

	return cr
}

// Clone returns a copy that shares no mutable state with cr.
func (cr *CostRequest) Clone() *CostRequest {
	out := *cr
	out.History = make([]HistoryEntry, len(cr.History))
	copy(out.History, cr.History)
	return &out
}

// Resolve computes the transition out of PENDING without touching cr. The
// returned patch is what the store must apply, conditioned on PENDING.
func (cr *CostRequest) Resolve(decision CostRequestStatus, resolver *User, comment *string, now time.Time) (*CostRequest, *StatusPatch, error) {
	if !decision.IsTerminal() {
		return nil, nil, NewValidationError(FieldErrors{"decision": "must be APPROVED or REJECTED"})
	}
	if cr.Status != StatusPending {
		return nil, nil, ErrInvalidTransition
	}

	text := ""
	if comment != nil {
		text = *comment
	}

	action := HistoryRejected
	if decision == StatusApproved {
		action = HistoryApproved
	}

	entry := HistoryEntry{
		RequestID: cr.ID,
		Seq:       len(cr.History) + 1,
		Action:    action,
		Actor:     resolver.FullName,
		Timestamp: now,
		Comment:   comment,
	}

	patch := &StatusPatch{
		Status:            decision,
		ResolvedBy:        resolver.FullName,
		ResolvedByID:      resolver.ID,
		ResolvedAt:        now,
		ResolutionComment: text,
		Entry:             entry,
	}

	next := cr.Clone()
	next.Status = decision
	next.ResolvedBy = &patch.ResolvedBy
	next.ResolvedByID = &patch.ResolvedByID
	next.ResolvedAt = &patch.ResolvedAt
	next.ResolutionComment = &patch.ResolutionComment
	next.History = append(next.History, entry)

	return next, patch, nil
}

// IsResolved reports whether the resolution fields are populated.
func (cr *CostRequest) IsResolved() bool {
	return cr.ResolvedBy != nil && cr.ResolvedAt != nil && cr.ResolutionComment != nil
}

// SLA returns the time between creation and resolution. ok is false while the
// request is unresolved.
func (cr *CostRequest) SLA() (time.Duration, bool) {
	if cr.ResolvedAt == nil {
		return 0, false
	}
	return cr.ResolvedAt.Sub(cr.RequestedAt), true
}
