package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/winroom/backend/internal/domain/shared"
)

// RefundType is the refund kind as requested by the caller. Whether the
// refund actually counts as full is decided by the cent-rounded comparison
// against current revenue, not by this field.
type RefundType string

const (
	RefundTypePartial RefundType = "PARTIAL"
	RefundTypeFull    RefundType = "FULL"
)

// IsValid checks if the value is a valid RefundType
func (t RefundType) IsValid() bool {
	return t == RefundTypePartial || t == RefundTypeFull
}

// String returns the string representation of RefundType
func (t RefundType) String() string {
	return string(t)
}

// Refund is the 0..1-per-sale marker row whose presence drops the sale out of
// reporting aggregates.
type Refund struct {
	shared.BaseAggregateRoot

	SaleID      uuid.UUID
	RefundType  RefundType
	AmountUSD   decimal.Decimal
	Reason      string
	IsFull      bool
	RequestedBy uuid.UUID
}

// NewRefund creates a refund marker for a sale
func NewRefund(saleID uuid.UUID, refundType RefundType, amountUSD decimal.Decimal, reason string, isFull bool, requestedBy uuid.UUID) (*Refund, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	if !refundType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFUND_TYPE", "Invalid refund type")
	}
	if amountUSD.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Refund amount cannot be negative")
	}

	return &Refund{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            saleID,
		RefundType:        refundType,
		AmountUSD:         amountUSD,
		Reason:            reason,
		IsFull:            isFull,
		RequestedBy:       requestedBy,
	}, nil
}

// ResolveRefundAmount validates the requested refund against current revenue
// and returns the effective amount. A full refund defaults to current
// revenue; a partial refund must supply a positive amount not exceeding it.
func ResolveRefundAmount(refundType RefundType, amount *decimal.Decimal, currentRevenue decimal.Decimal) (decimal.Decimal, error) {
	if !refundType.IsValid() {
		return decimal.Zero, shared.NewDomainError("INVALID_REFUND_TYPE", "Invalid refund type")
	}

	if refundType == RefundTypeFull {
		if amount != nil && amount.IsPositive() {
			return *amount, nil
		}
		// Defaults to current revenue. Zero revenue yields a zero amount,
		// which re-runs the full branch idempotently.
		return currentRevenue, nil
	}

	if amount == nil || !amount.IsPositive() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Partial refund requires a positive amount")
	}
	if amount.GreaterThan(currentRevenue) {
		return decimal.Zero, shared.NewDomainError("REFUND_EXCEEDS_REVENUE",
			fmt.Sprintf("Refund amount exceeds current revenue of %s", currentRevenue.StringFixed(2)))
	}
	return *amount, nil
}
