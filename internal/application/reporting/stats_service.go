package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/winroom/backend/internal/domain/attribution"
	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/objection"
	"github.com/winroom/backend/internal/domain/queue"
)

// LeadCountProvider looks up how many leads each seller worked in a window.
// Lead data lives in the CRM, outside this service.
type LeadCountProvider interface {
	LeadCounts(ctx context.Context, from, to time.Time) (map[uuid.UUID]int64, error)
}

// SellerStatsResponse is one leaderboard row. Conversion fields are nil when
// the lead lookup is unavailable.
type SellerStatsResponse struct {
	SellerID          uuid.UUID       `json:"seller_id"`
	TotalShare        float64         `json:"total_share"`
	SaleCount         int64           `json:"sale_count"`
	AdjustedMarginUSD decimal.Decimal `json:"adjusted_margin_usd"`
	Leads             *int64          `json:"leads,omitempty"`
	ConversionRate    *float64        `json:"conversion_rate,omitempty"`
}

// OverviewResponse is the operational dashboard snapshot
type OverviewResponse struct {
	PendingItems      int64 `json:"pending_items"`
	ClaimedItems      int64 `json:"claimed_items"`
	ExcludedItems     int64 `json:"excluded_items"`
	RefundedItems     int64 `json:"refunded_items"`
	PendingObjections int64 `json:"pending_objections"`
}

// StatsService builds the reporting read models: seller leaderboards over
// attribution shares and the operational overview. Refunded sales never count.
type StatsService struct {
	attributionRepo attribution.AttributionRepository
	adjustedRepo    ledger.AdjustedMetricsRepository
	queueRepo       queue.QueueItemRepository
	objectionRepo   objection.ObjectionRepository
	leads           LeadCountProvider
	logger          *zap.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(
	attributionRepo attribution.AttributionRepository,
	adjustedRepo ledger.AdjustedMetricsRepository,
	queueRepo queue.QueueItemRepository,
	objectionRepo objection.ObjectionRepository,
	leads LeadCountProvider,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		attributionRepo: attributionRepo,
		adjustedRepo:    adjustedRepo,
		queueRepo:       queueRepo,
		objectionRepo:   objectionRepo,
		leads:           leads,
		logger:          logger,
	}
}

// SellerStats aggregates per-seller attributed shares and adjusted margins
// over a time window. A failing lead lookup degrades the conversion columns
// to null instead of failing the whole report.
func (s *StatsService) SellerStats(ctx context.Context, from, to time.Time) ([]SellerStatsResponse, error) {
	shares, err := s.attributionRepo.SumSharesBySeller(ctx, from, to)
	if err != nil {
		return nil, err
	}

	margins, err := s.adjustedRepo.SumMarginBySeller(ctx, from, to)
	if err != nil {
		return nil, err
	}
	marginBySeller := make(map[uuid.UUID]decimal.Decimal, len(margins))
	for _, m := range margins {
		marginBySeller[m.SellerID] = m.AdjustedMarginUSD
	}

	var leadCounts map[uuid.UUID]int64
	if s.leads != nil {
		leadCounts, err = s.leads.LeadCounts(ctx, from, to)
		if err != nil {
			s.logger.Warn("lead count lookup failed, conversion stats degraded", zap.Error(err))
			leadCounts = nil
		}
	}

	responses := make([]SellerStatsResponse, len(shares))
	for i, row := range shares {
		resp := SellerStatsResponse{
			SellerID:          row.SellerID,
			TotalShare:        row.TotalShare,
			SaleCount:         row.SaleCount,
			AdjustedMarginUSD: marginBySeller[row.SellerID],
		}
		if leadCounts != nil {
			leads := leadCounts[row.SellerID]
			resp.Leads = &leads
			if leads > 0 {
				rate := float64(row.SaleCount) / float64(leads)
				resp.ConversionRate = &rate
			}
		}
		responses[i] = resp
	}

	return responses, nil
}

// Overview returns current queue and objection counters
func (s *StatsService) Overview(ctx context.Context) (*OverviewResponse, error) {
	pending, err := s.queueRepo.CountByStatus(ctx, queue.ItemStatusPending)
	if err != nil {
		return nil, err
	}
	claimed, err := s.queueRepo.CountByStatus(ctx, queue.ItemStatusClaimed)
	if err != nil {
		return nil, err
	}
	excluded, err := s.queueRepo.CountByStatus(ctx, queue.ItemStatusExcluded)
	if err != nil {
		return nil, err
	}
	refunded, err := s.queueRepo.CountByStatus(ctx, queue.ItemStatusRefunded)
	if err != nil {
		return nil, err
	}
	objections, err := s.objectionRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	return &OverviewResponse{
		PendingItems:      pending,
		ClaimedItems:      claimed,
		ExcludedItems:     excluded,
		RefundedItems:     refunded,
		PendingObjections: objections,
	}, nil
}
