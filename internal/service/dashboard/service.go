package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"freight-cost-approval/internal/domain"
	"freight-cost-approval/internal/repository"
)

const (
	cacheKey      = "dashboard:metrics"
	generationKey = "dashboard:metrics:gen"
	cacheTTL      = time.Minute
)

// cachedMetrics keeps the pending timestamps so the overdue count is
// recomputed against the clock on every read.
type cachedMetrics struct {
	Metrics      domain.DashboardMetrics `json:"metrics"`
	PendingSince []time.Time             `json:"pending_since"`
}

type Service interface {
	GetMetrics(ctx context.Context) (*domain.DashboardMetrics, error)
	Invalidate(ctx context.Context) error
}

type service struct {
	crRepo repository.CostRequestRepository
	redis  *redis.Client
	sla    time.Duration
	now    func() time.Time
}

func NewService(crRepo repository.CostRequestRepository, redis *redis.Client, sla time.Duration) Service {
	if sla <= 0 {
		sla = domain.DefaultSLA
	}
	return &service{
		crRepo: crRepo,
		redis:  redis,
		sla:    sla,
		now:    time.Now,
	}
}

// GetMetrics serves the aggregate from Redis when a snapshot of the current
// generation exists. Invalidate bumps the generation, so a snapshot computed
// from reads that raced a write is stored under a key nobody reads again.
func (s *service) GetMetrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	gen, cacheable := s.generation(ctx)
	if cacheable {
		if cached, err := s.redis.Get(ctx, entryKey(gen)).Result(); err == nil {
			var entry cachedMetrics
			if json.Unmarshal([]byte(cached), &entry) == nil {
				return s.refresh(entry), nil
			}
		}
	}

	requests, err := s.crRepo.ListAll(ctx)
	if err != nil {
		return nil, domain.NewStorageError("load cost requests", err)
	}

	metrics := Aggregate(requests, s.now(), s.sla)

	if cacheable {
		entry := cachedMetrics{Metrics: metrics, PendingSince: []time.Time{}}
		for i := range requests {
			if requests[i].Status == domain.StatusPending {
				entry.PendingSince = append(entry.PendingSince, requests[i].RequestedAt)
			}
		}
		if data, err := json.Marshal(entry); err == nil {
			_ = s.redis.Set(ctx, entryKey(gen), data, cacheTTL).Err()
		}
	}

	return &metrics, nil
}

func (s *service) Invalidate(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Incr(ctx, generationKey).Err()
}

func (s *service) generation(ctx context.Context) (int64, bool) {
	if s.redis == nil {
		return 0, false
	}
	gen, err := s.redis.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, false
	}
	return gen, true
}

func (s *service) refresh(entry cachedMetrics) *domain.DashboardMetrics {
	now := s.now()
	metrics := entry.Metrics
	metrics.GeneratedAt = now
	metrics.OverduePendingCount = 0
	for _, since := range entry.PendingSince {
		if now.Sub(since) > s.sla {
			metrics.OverduePendingCount++
		}
	}
	return &metrics
}

func entryKey(gen int64) string {
	return fmt.Sprintf("%s:%d", cacheKey, gen)
}

// Aggregate summarizes requests as of now. Averages and rates over an empty
// set are zero. SLA figures only consider approved requests.
func Aggregate(requests []domain.CostRequest, now time.Time, sla time.Duration) domain.DashboardMetrics {
	if sla <= 0 {
		sla = domain.DefaultSLA
	}

	m := domain.DashboardMetrics{
		Pending:               domain.StatusTotals{Value: decimal.Zero},
		Approved:              domain.StatusTotals{Value: decimal.Zero},
		Rejected:              domain.StatusTotals{Value: decimal.Zero},
		AverageApprovedTicket: decimal.Zero,
		GeneratedAt:           now,
	}

	var totalSLA time.Duration
	var timed, withinSLA int64

	for i := range requests {
		cr := &requests[i]

		switch cr.Status {
		case domain.StatusPending:
			m.Pending.Count++
			m.Pending.Value = m.Pending.Value.Add(cr.InvoiceValue)
			if now.Sub(cr.RequestedAt) > sla {
				m.OverduePendingCount++
			}
		case domain.StatusApproved:
			m.Approved.Count++
			m.Approved.Value = m.Approved.Value.Add(cr.InvoiceValue)
			if elapsed, ok := cr.SLA(); ok {
				timed++
				totalSLA += elapsed
				if elapsed <= sla {
					withinSLA++
				}
			}
		case domain.StatusRejected:
			m.Rejected.Count++
			m.Rejected.Value = m.Rejected.Value.Add(cr.InvoiceValue)
		}
	}

	if m.Approved.Count > 0 {
		m.AverageApprovedTicket = m.Approved.Value.Div(decimal.NewFromInt(m.Approved.Count)).Round(2)
	}
	if timed > 0 {
		m.AverageSLAHours = totalSLA.Hours() / float64(timed)
		m.SLAComplianceRate = float64(withinSLA) / float64(timed) * 100
	}

	return m
}
