package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/winroom/backend/internal/domain/shared"
)

// SellerMarginTotal is an aggregated reporting row: adjusted margin attributed
// to one seller over a time window.
type SellerMarginTotal struct {
	SellerID          uuid.UUID
	AdjustedMarginUSD decimal.Decimal
	SaleCount         int64
}

// SaleMetricsRepository defines the interface for sale metrics persistence
type SaleMetricsRepository interface {
	// FindByID finds a metrics record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SaleMetrics, error)

	// FindBySaleID finds the metrics record for a sale
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*SaleMetrics, error)

	// Save creates or updates a metrics record
	Save(ctx context.Context, m *SaleMetrics) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, m *SaleMetrics) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
	SaveWithLockAndEvents(ctx context.Context, m *SaleMetrics, events []shared.DomainEvent) error
}

// AdjustmentRepository defines the interface for adjustment persistence
type AdjustmentRepository interface {
	// FindByID finds an adjustment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Adjustment, error)

	// FindByClaimID finds all adjustments for a claim
	FindByClaimID(ctx context.Context, claimID uuid.UUID) ([]Adjustment, error)

	// SumByClaimID returns the running adjustment total for a claim
	SumByClaimID(ctx context.Context, claimID uuid.UUID) (decimal.Decimal, error)

	// Save inserts an adjustment (append-only, no updates)
	Save(ctx context.Context, a *Adjustment) error

	// DeleteByClaimID removes all adjustments for a claim
	DeleteByClaimID(ctx context.Context, claimID uuid.UUID) error
}

// RefundRepository defines the interface for refund marker persistence
type RefundRepository interface {
	// FindBySaleID finds the refund marker for a sale
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*Refund, error)

	// ExistsBySaleID checks whether a refund marker exists for a sale
	ExistsBySaleID(ctx context.Context, saleID uuid.UUID) (bool, error)

	// Upsert creates or replaces the unique refund marker for a sale
	Upsert(ctx context.Context, r *Refund) error

	// DeleteBySaleID removes the refund marker for a sale. A partial refund
	// following a full one reverses the reporting exclusion this way.
	DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error
}

// AdjustedMetricsRepository defines the interface for the materialized
// per-claim adjusted margin view
type AdjustedMetricsRepository interface {
	// FindByClaimID finds the adjusted view row for a claim
	FindByClaimID(ctx context.Context, claimID uuid.UUID) (*AdjustedMetrics, error)

	// Upsert writes the refreshed view row
	Upsert(ctx context.Context, am AdjustedMetrics) error

	// DeleteByClaimID removes the view row when a claim is deleted
	DeleteByClaimID(ctx context.Context, claimID uuid.UUID) error

	// SumMarginBySeller aggregates adjusted margin per closing seller over a
	// time window, excluding refunded sales
	SumMarginBySeller(ctx context.Context, from, to time.Time) ([]SellerMarginTotal, error)
}
