package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/winroom/backend/internal/domain/ledger"
)

// ManualEditMetricsRequest carries the input for a staff metrics override
type ManualEditMetricsRequest struct {
	QueueItemID uuid.UUID
	RevenueUSD  decimal.Decimal
	CostUSD     decimal.Decimal
	SubsAmount  decimal.Decimal
	Currency    string
	Channel     string
	Campaign    string
}

// SaleMetricsResponse is the read model for a sale's metrics record
type SaleMetricsResponse struct {
	SaleID          uuid.UUID             `json:"sale_id"`
	RevenueUSD      decimal.Decimal       `json:"revenue_usd"`
	CostUSD         decimal.Decimal       `json:"cost_usd"`
	MarginAmountUSD decimal.Decimal       `json:"margin_amount_usd"`
	MarginPercent   decimal.Decimal       `json:"margin_percent"`
	IsJackpot       bool                  `json:"is_jackpot"`
	CurrencySource  ledger.CurrencySource `json:"currency_source"`
}

// ToSaleMetricsResponse maps a metrics aggregate to its response shape
func ToSaleMetricsResponse(m *ledger.SaleMetrics) SaleMetricsResponse {
	return SaleMetricsResponse{
		SaleID:          m.SaleID,
		RevenueUSD:      m.RevenueUSD,
		CostUSD:         m.CostUSD,
		MarginAmountUSD: m.MarginAmountUSD,
		MarginPercent:   m.MarginPercent,
		IsJackpot:       m.IsJackpot,
		CurrencySource:  m.CurrencySource,
	}
}

// MetricsService owns the per-sale metrics record and its manual overrides
type MetricsService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(scope TransactionScope, logger *zap.Logger) *MetricsService {
	return &MetricsService{
		scope:  scope,
		logger: logger,
	}
}

// ManualEdit overwrites the metrics figures for the sale behind a queue item
// and refreshes the adjusted view in the same transaction.
func (s *MetricsService) ManualEdit(ctx context.Context, req ManualEditMetricsRequest) (*SaleMetricsResponse, error) {
	var response SaleMetricsResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.QueueItemRepo().FindByID(ctx, req.QueueItemID)
		if err != nil {
			return err
		}

		metrics, err := repos.MetricsRepo().FindBySaleID(ctx, item.Sale.SaleID)
		if err != nil {
			return err
		}

		if err := metrics.ManualEdit(req.RevenueUSD, req.CostUSD, req.SubsAmount, req.Currency, req.Channel, req.Campaign); err != nil {
			return err
		}

		if err := repos.MetricsRepo().SaveWithLockAndEvents(ctx, metrics, metrics.GetDomainEvents()); err != nil {
			return err
		}
		metrics.ClearDomainEvents()

		if err := RefreshAdjustedViewForSale(ctx, repos, item.Sale.SaleID); err != nil {
			return err
		}

		response = ToSaleMetricsResponse(metrics)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("metrics manually edited",
		zap.String("queue_item_id", req.QueueItemID.String()),
		zap.String("revenue_usd", req.RevenueUSD.String()),
		zap.String("cost_usd", req.CostUSD.String()),
	)

	return &response, nil
}

// GetBySaleID returns the metrics record for a sale
func (s *MetricsService) GetBySaleID(ctx context.Context, saleID uuid.UUID) (*SaleMetricsResponse, error) {
	var response *SaleMetricsResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		metrics, err := repos.MetricsRepo().FindBySaleID(ctx, saleID)
		if err != nil {
			return err
		}
		r := ToSaleMetricsResponse(metrics)
		response = &r
		return nil
	})
	return response, err
}
