package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/winroom/backend/internal/domain/ledger"
)

// SaleMetricsModel is the persistence model for per-sale financial metrics
type SaleMetricsModel struct {
	AggregateModel
	SaleID          uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex"`
	RevenueUSD      decimal.Decimal       `gorm:"type:decimal(15,2);not null"`
	CostUSD         decimal.Decimal       `gorm:"type:decimal(15,2);not null"`
	MarginAmountUSD decimal.Decimal       `gorm:"type:decimal(15,2);not null"`
	MarginPercent   decimal.Decimal       `gorm:"type:decimal(8,4);not null"`
	SubsAmount      decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0"`
	Currency        string                `gorm:"type:varchar(10)"`
	Channel         string                `gorm:"type:varchar(100)"`
	Campaign        string                `gorm:"type:varchar(255)"`
	IsJackpot       bool                  `gorm:"not null;default:false"`
	CurrencySource  ledger.CurrencySource `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (SaleMetricsModel) TableName() string {
	return "sale_metrics"
}

// ToDomain converts the persistence model to a domain SaleMetrics
func (m *SaleMetricsModel) ToDomain() *ledger.SaleMetrics {
	metrics := &ledger.SaleMetrics{
		SaleID:          m.SaleID,
		RevenueUSD:      m.RevenueUSD,
		CostUSD:         m.CostUSD,
		MarginAmountUSD: m.MarginAmountUSD,
		MarginPercent:   m.MarginPercent,
		SubsAmount:      m.SubsAmount,
		Currency:        m.Currency,
		Channel:         m.Channel,
		Campaign:        m.Campaign,
		IsJackpot:       m.IsJackpot,
		CurrencySource:  m.CurrencySource,
	}
	m.PopulateAggregateRoot(&metrics.BaseAggregateRoot)
	return metrics
}

// FromDomain populates the persistence model from a domain SaleMetrics
func (m *SaleMetricsModel) FromDomain(metrics *ledger.SaleMetrics) {
	m.FromDomainAggregateRoot(metrics.BaseAggregateRoot)
	m.SaleID = metrics.SaleID
	m.RevenueUSD = metrics.RevenueUSD
	m.CostUSD = metrics.CostUSD
	m.MarginAmountUSD = metrics.MarginAmountUSD
	m.MarginPercent = metrics.MarginPercent
	m.SubsAmount = metrics.SubsAmount
	m.Currency = metrics.Currency
	m.Channel = metrics.Channel
	m.Campaign = metrics.Campaign
	m.IsJackpot = metrics.IsJackpot
	m.CurrencySource = metrics.CurrencySource
}

// SaleMetricsModelFromDomain creates a new persistence model from a domain SaleMetrics
func SaleMetricsModelFromDomain(metrics *ledger.SaleMetrics) *SaleMetricsModel {
	m := &SaleMetricsModel{}
	m.FromDomain(metrics)
	return m
}

// AdjustmentModel is the persistence model for append-only margin adjustments
type AdjustmentModel struct {
	AggregateModel
	ClaimID           uuid.UUID               `gorm:"type:uuid;not null;index"`
	AdditionalCostUSD decimal.Decimal         `gorm:"type:decimal(15,2);not null"`
	Reason            ledger.AdjustmentReason `gorm:"type:varchar(20);not null"`
	Notes             string                  `gorm:"type:text"`
	CreatedBy         uuid.UUID               `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (AdjustmentModel) TableName() string {
	return "margin_adjustments"
}

// ToDomain converts the persistence model to a domain Adjustment
func (m *AdjustmentModel) ToDomain() *ledger.Adjustment {
	a := &ledger.Adjustment{
		ClaimID:           m.ClaimID,
		AdditionalCostUSD: m.AdditionalCostUSD,
		Reason:            m.Reason,
		Notes:             m.Notes,
		CreatedBy:         m.CreatedBy,
	}
	m.PopulateAggregateRoot(&a.BaseAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain Adjustment
func (m *AdjustmentModel) FromDomain(a *ledger.Adjustment) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.ClaimID = a.ClaimID
	m.AdditionalCostUSD = a.AdditionalCostUSD
	m.Reason = a.Reason
	m.Notes = a.Notes
	m.CreatedBy = a.CreatedBy
}

// AdjustmentModelFromDomain creates a new persistence model from a domain Adjustment
func AdjustmentModelFromDomain(a *ledger.Adjustment) *AdjustmentModel {
	m := &AdjustmentModel{}
	m.FromDomain(a)
	return m
}

// RefundModel is the persistence model for the 0..1-per-sale refund marker
type RefundModel struct {
	AggregateModel
	SaleID      uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	RefundType  ledger.RefundType `gorm:"type:varchar(10);not null"`
	AmountUSD   decimal.Decimal   `gorm:"type:decimal(15,2);not null"`
	Reason      string            `gorm:"type:text"`
	IsFull      bool              `gorm:"not null;default:false;index"`
	RequestedBy uuid.UUID         `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (RefundModel) TableName() string {
	return "refunds"
}

// ToDomain converts the persistence model to a domain Refund
func (m *RefundModel) ToDomain() *ledger.Refund {
	r := &ledger.Refund{
		SaleID:      m.SaleID,
		RefundType:  m.RefundType,
		AmountUSD:   m.AmountUSD,
		Reason:      m.Reason,
		IsFull:      m.IsFull,
		RequestedBy: m.RequestedBy,
	}
	m.PopulateAggregateRoot(&r.BaseAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain Refund
func (m *RefundModel) FromDomain(r *ledger.Refund) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.SaleID = r.SaleID
	m.RefundType = r.RefundType
	m.AmountUSD = r.AmountUSD
	m.Reason = r.Reason
	m.IsFull = r.IsFull
	m.RequestedBy = r.RequestedBy
}

// RefundModelFromDomain creates a new persistence model from a domain Refund
func RefundModelFromDomain(r *ledger.Refund) *RefundModel {
	m := &RefundModel{}
	m.FromDomain(r)
	return m
}

// AdjustedMetricsModel is the persistence model for the materialized per-claim
// adjusted margin view. Keyed by claim_id; rewritten in full on every refresh.
type AdjustedMetricsModel struct {
	ClaimID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID                uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	OriginalMarginUSD     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalAdjustmentsUSD   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	AdjustedMarginUSD     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	AdjustedMarginPercent decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	RefreshedAt           time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AdjustedMetricsModel) TableName() string {
	return "adjusted_metrics"
}

// ToDomain converts the persistence model to a domain AdjustedMetrics
func (m *AdjustedMetricsModel) ToDomain() ledger.AdjustedMetrics {
	return ledger.AdjustedMetrics{
		ClaimID:               m.ClaimID,
		SaleID:                m.SaleID,
		OriginalMarginUSD:     m.OriginalMarginUSD,
		TotalAdjustmentsUSD:   m.TotalAdjustmentsUSD,
		AdjustedMarginUSD:     m.AdjustedMarginUSD,
		AdjustedMarginPercent: m.AdjustedMarginPercent,
		RefreshedAt:           m.RefreshedAt,
	}
}

// AdjustedMetricsModelFromDomain creates a new persistence model from a domain AdjustedMetrics
func AdjustedMetricsModelFromDomain(am ledger.AdjustedMetrics) *AdjustedMetricsModel {
	return &AdjustedMetricsModel{
		ClaimID:               am.ClaimID,
		SaleID:                am.SaleID,
		OriginalMarginUSD:     am.OriginalMarginUSD,
		TotalAdjustmentsUSD:   am.TotalAdjustmentsUSD,
		AdjustedMarginUSD:     am.AdjustedMarginUSD,
		AdjustedMarginPercent: am.AdjustedMarginPercent,
		RefreshedAt:           am.RefreshedAt,
	}
}
