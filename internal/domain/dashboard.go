package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultSLA is the window between creation and approval.
const DefaultSLA = 24 * time.Hour

type StatusTotals struct {
	Count int64           `json:"count"`
	Value decimal.Decimal `json:"value"`
}

type DashboardMetrics struct {
	Pending  StatusTotals `json:"pending"`
	Approved StatusTotals `json:"approved"`
	Rejected StatusTotals `json:"rejected"`

	AverageApprovedTicket decimal.Decimal `json:"average_approved_ticket"`
	AverageSLAHours       float64         `json:"average_sla_hours"`
	SLAComplianceRate     float64         `json:"sla_compliance_rate"`
	OverduePendingCount   int64           `json:"overdue_pending_count"`

	GeneratedAt time.Time `json:"generated_at"`
}
