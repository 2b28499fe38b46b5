package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/winroom/backend/internal/domain/shared"
)

// AdjustmentReason classifies a post-hoc cost against a claim
type AdjustmentReason string

const (
	AdjustmentReasonCommission    AdjustmentReason = "COMMISSION"
	AdjustmentReasonPartialRefund AdjustmentReason = "PARTIAL_REFUND"
	AdjustmentReasonChargeback    AdjustmentReason = "CHARGEBACK"
	AdjustmentReasonOther         AdjustmentReason = "OTHER"
)

// IsValid checks if the reason is a valid AdjustmentReason
func (r AdjustmentReason) IsValid() bool {
	switch r {
	case AdjustmentReasonCommission, AdjustmentReasonPartialRefund, AdjustmentReasonChargeback, AdjustmentReasonOther:
		return true
	}
	return false
}

// String returns the string representation of AdjustmentReason
func (r AdjustmentReason) String() string {
	return string(r)
}

// Adjustment is an append-only cost correction against a claim's margin
type Adjustment struct {
	shared.BaseAggregateRoot

	ClaimID           uuid.UUID
	AdditionalCostUSD decimal.Decimal
	Reason            AdjustmentReason
	Notes             string
	CreatedBy         uuid.UUID
}

// NewAdjustment creates an adjustment record. The margin cap is enforced
// separately, inside the transaction that reads the running total.
func NewAdjustment(claimID uuid.UUID, additionalCostUSD decimal.Decimal, reason AdjustmentReason, notes string, actor uuid.UUID) (*Adjustment, error) {
	if claimID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLAIM", "Claim ID cannot be empty")
	}
	if additionalCostUSD.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Adjustment cost cannot be negative")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Invalid adjustment reason")
	}
	if actor == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor cannot be empty")
	}

	return &Adjustment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClaimID:           claimID,
		AdditionalCostUSD: additionalCostUSD,
		Reason:            reason,
		Notes:             notes,
		CreatedBy:         actor,
	}, nil
}

// ValidateAdjustmentCap enforces the margin cap: the running adjustment total
// for a claim can never exceed the original margin. The error carries the
// remaining headroom so the caller can correct the input.
func ValidateAdjustmentCap(originalMarginUSD, existingTotalUSD, additionalCostUSD decimal.Decimal) error {
	if existingTotalUSD.Add(additionalCostUSD).GreaterThan(originalMarginUSD) {
		remaining := originalMarginUSD.Sub(existingTotalUSD)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		return shared.NewDomainError("EXCEEDS_MARGIN",
			fmt.Sprintf("Adjustment exceeds original margin, remaining headroom is %s", remaining.StringFixed(2)))
	}
	return nil
}

// AdjustedMetrics is the materialized per-claim margin view, refreshed in the
// same transaction as every write that can change it.
type AdjustedMetrics struct {
	ClaimID               uuid.UUID
	SaleID                uuid.UUID
	OriginalMarginUSD     decimal.Decimal
	TotalAdjustmentsUSD   decimal.Decimal
	AdjustedMarginUSD     decimal.Decimal
	AdjustedMarginPercent decimal.Decimal
	RefreshedAt           time.Time
}

// ComputeAdjustedMetrics derives the adjusted view row from the current
// metrics record and the adjustment total.
func ComputeAdjustedMetrics(claimID uuid.UUID, metrics *SaleMetrics, totalAdjustmentsUSD decimal.Decimal) AdjustedMetrics {
	adjusted := metrics.MarginAmountUSD.Sub(totalAdjustmentsUSD)
	percent := decimal.Zero
	if metrics.RevenueUSD.IsPositive() {
		percent = adjusted.Div(metrics.RevenueUSD)
	}
	return AdjustedMetrics{
		ClaimID:               claimID,
		SaleID:                metrics.SaleID,
		OriginalMarginUSD:     metrics.MarginAmountUSD,
		TotalAdjustmentsUSD:   totalAdjustmentsUSD,
		AdjustedMarginUSD:     adjusted,
		AdjustedMarginPercent: percent,
		RefreshedAt:           time.Now(),
	}
}
