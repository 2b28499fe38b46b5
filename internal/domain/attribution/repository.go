package attribution

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/winroom/backend/internal/domain/shared"
)

// SellerShareTotal is an aggregated reporting row: total attributed share for
// one seller over a time window.
type SellerShareTotal struct {
	SellerID   uuid.UUID
	TotalShare float64
	SaleCount  int64
}

// AttributionRepository defines the interface for attribution persistence.
// Implementations regenerate the share entry fan-out (delete and reinsert)
// whenever the attribution row is saved.
type AttributionRepository interface {
	// FindByID finds an attribution by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Attribution, error)

	// FindBySaleID finds the attribution for a sale
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*Attribution, error)

	// FindByClaimID finds the attribution for a claim
	FindByClaimID(ctx context.Context, claimID uuid.UUID) (*Attribution, error)

	// Save creates or updates an attribution and regenerates its share entries
	Save(ctx context.Context, a *Attribution) error

	// SaveWithLock saves with optimistic locking (version check) and
	// regenerates share entries
	SaveWithLock(ctx context.Context, a *Attribution) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
	SaveWithLockAndEvents(ctx context.Context, a *Attribution, events []shared.DomainEvent) error

	// DeleteBySaleID deletes the attribution and its share entries for a sale.
	// Used when an accepted objection removes the claim.
	DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error

	// FindShareEntriesBySale returns the current fan-out rows for a sale
	FindShareEntriesBySale(ctx context.Context, saleID uuid.UUID) ([]ShareEntry, error)

	// SumSharesBySeller aggregates share totals per seller over a time window,
	// excluding refunded sales
	SumSharesBySeller(ctx context.Context, from, to time.Time) ([]SellerShareTotal, error)
}
