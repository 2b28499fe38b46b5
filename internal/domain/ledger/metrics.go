package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/winroom/backend/internal/domain/shared"
)

// JackpotThresholdUSD marks unusually large sales for the win room feed
var JackpotThresholdUSD = decimal.NewFromInt(5000)

// CurrencySource records the provenance of the metrics figures
type CurrencySource string

const (
	// CurrencySourceComputed means figures were derived from the sale event
	CurrencySourceComputed CurrencySource = "COMPUTED"
	// CurrencySourceManualEntry means figures were entered with a manual enqueue
	CurrencySourceManualEntry CurrencySource = "MANUAL_ENTRY"
	// CurrencySourceManualEdit means staff overwrote the figures later
	CurrencySourceManualEdit CurrencySource = "MANUAL_EDIT"
)

// IsValid checks if the value is a valid CurrencySource
func (s CurrencySource) IsValid() bool {
	switch s {
	case CurrencySourceComputed, CurrencySourceManualEntry, CurrencySourceManualEdit:
		return true
	}
	return false
}

// String returns the string representation of CurrencySource
func (s CurrencySource) String() string {
	return string(s)
}

// RefundOutcome carries the before/after figures of a refund application
type RefundOutcome struct {
	BeforeRevenue decimal.Decimal
	BeforeMargin  decimal.Decimal
	AfterRevenue  decimal.Decimal
	AfterMargin   decimal.Decimal
	Amount        decimal.Decimal
	IsFull        bool
}

// SaleMetrics is the per-sale financial record: revenue, cost and derived
// margin. It is recomputed on manual edits and mutated downward by refunds.
type SaleMetrics struct {
	shared.BaseAggregateRoot

	SaleID          uuid.UUID
	RevenueUSD      decimal.Decimal
	CostUSD         decimal.Decimal
	MarginAmountUSD decimal.Decimal
	MarginPercent   decimal.Decimal
	SubsAmount      decimal.Decimal
	Currency        string
	Channel         string
	Campaign        string
	IsJackpot       bool
	CurrencySource  CurrencySource
}

// NewSaleMetrics creates the metrics record for a sale
func NewSaleMetrics(saleID uuid.UUID, revenueUSD, costUSD decimal.Decimal, source CurrencySource) (*SaleMetrics, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	if revenueUSD.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Revenue cannot be negative")
	}
	if costUSD.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Cost cannot be negative")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Invalid currency source")
	}

	m := &SaleMetrics{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            saleID,
		RevenueUSD:        revenueUSD,
		CostUSD:           costUSD,
		CurrencySource:    source,
	}
	m.recompute()

	return m, nil
}

// recompute derives margin from the current revenue/cost. Margin is not
// clamped here: negative margin is a valid signal for finance.
func (m *SaleMetrics) recompute() {
	m.MarginAmountUSD = m.RevenueUSD.Sub(m.CostUSD)
	if m.RevenueUSD.IsPositive() {
		m.MarginPercent = m.MarginAmountUSD.Div(m.RevenueUSD)
	} else {
		m.MarginPercent = decimal.Zero
	}
	m.IsJackpot = m.RevenueUSD.GreaterThanOrEqual(JackpotThresholdUSD)
}

// ManualEdit overwrites the figures with staff-entered values and tags the
// record as manually edited.
func (m *SaleMetrics) ManualEdit(revenueUSD, costUSD, subsAmount decimal.Decimal, currency, channel, campaign string) error {
	if revenueUSD.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Revenue cannot be negative")
	}
	if costUSD.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Cost cannot be negative")
	}
	if !subsAmount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Subscription amount must be positive")
	}

	m.RevenueUSD = revenueUSD
	m.CostUSD = costUSD
	m.SubsAmount = subsAmount
	if currency != "" {
		m.Currency = currency
	}
	if channel != "" {
		m.Channel = channel
	}
	if campaign != "" {
		m.Campaign = campaign
	}
	m.CurrencySource = CurrencySourceManualEdit
	m.recompute()
	m.Touch()

	m.AddDomainEvent(NewMetricsEditedEvent(m))

	return nil
}

// IsFullRefund decides, by cent-rounded comparison, whether an amount covers
// the current revenue. Independent of the refund type the caller requested.
func IsFullRefund(amount, currentRevenue decimal.Decimal) bool {
	return amount.Round(2).GreaterThanOrEqual(currentRevenue.Round(2))
}

// ApplyRefund reduces revenue and margin by the refund amount. Post-refund
// revenue and margin are floor-clamped at zero: a refund can erase margin but
// never produces negative figures.
func (m *SaleMetrics) ApplyRefund(amount decimal.Decimal) (RefundOutcome, error) {
	if amount.IsNegative() {
		return RefundOutcome{}, shared.NewDomainError("INVALID_AMOUNT", "Refund amount cannot be negative")
	}

	outcome := RefundOutcome{
		BeforeRevenue: m.RevenueUSD,
		BeforeMargin:  m.MarginAmountUSD,
		Amount:        amount,
		IsFull:        IsFullRefund(amount, m.RevenueUSD),
	}

	newRevenue := m.RevenueUSD.Sub(amount)
	if newRevenue.IsNegative() {
		newRevenue = decimal.Zero
	}
	newMargin := newRevenue.Sub(m.CostUSD)
	if newMargin.IsNegative() {
		newMargin = decimal.Zero
	}

	m.RevenueUSD = newRevenue
	m.MarginAmountUSD = newMargin
	if newMargin.IsPositive() && newRevenue.IsPositive() {
		m.MarginPercent = newMargin.Div(newRevenue)
	} else {
		m.MarginPercent = decimal.Zero
	}
	m.IsJackpot = m.RevenueUSD.GreaterThanOrEqual(JackpotThresholdUSD)
	m.Touch()

	outcome.AfterRevenue = m.RevenueUSD
	outcome.AfterMargin = m.MarginAmountUSD

	m.AddDomainEvent(NewRefundAppliedEvent(m, outcome))

	return outcome, nil
}
