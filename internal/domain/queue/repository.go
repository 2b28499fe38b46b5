package queue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/winroom/backend/internal/domain/shared"
)

// QueueItemRepository defines the interface for queue item persistence
type QueueItemRepository interface {
	// FindByID finds a queue item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*QueueItem, error)

	// FindBySaleID finds the queue item for a sale
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*QueueItem, error)

	// FindBySaleIDForUpdate finds the queue item for a sale and takes a
	// row-level lock. Must be called inside a transaction; concurrent
	// claimers of the same sale serialize on this lock.
	FindBySaleIDForUpdate(ctx context.Context, saleID uuid.UUID) (*QueueItem, error)

	// FindPendingByFingerprint finds a pending item with the given sale
	// fingerprint. Used to reject duplicate manual enqueues.
	FindPendingByFingerprint(ctx context.Context, fingerprint string) (*QueueItem, error)

	// FindByStatus finds queue items by status with filtering
	FindByStatus(ctx context.Context, status ItemStatus, filter shared.Filter) ([]QueueItem, error)

	// FindPendingSince finds pending items queued at or after the given time
	FindPendingSince(ctx context.Context, since time.Time, filter shared.Filter) ([]QueueItem, error)

	// Save creates or updates a queue item
	Save(ctx context.Context, item *QueueItem) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, item *QueueItem) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
	// This implements the transactional outbox pattern - events are saved to the outbox table
	// in the same transaction as the aggregate, ensuring guaranteed event delivery
	SaveWithLockAndEvents(ctx context.Context, item *QueueItem, events []shared.DomainEvent) error

	// CountByStatus counts queue items by status
	CountByStatus(ctx context.Context, status ItemStatus) (int64, error)
}

// ClaimRepository defines the interface for claim persistence
type ClaimRepository interface {
	// FindByID finds a claim by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Claim, error)

	// FindBySaleID finds the claim for a sale
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*Claim, error)

	// FindBySeller finds claims made by a seller with filtering
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Claim, error)

	// FindByFinanceStatus finds claims by finance status with filtering
	FindByFinanceStatus(ctx context.Context, status FinanceStatus, filter shared.Filter) ([]Claim, error)

	// FindClaimedBetween finds claims made within the given time range
	FindClaimedBetween(ctx context.Context, from, to time.Time, filter shared.Filter) ([]Claim, error)

	// Save creates or updates a claim
	Save(ctx context.Context, claim *Claim) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, claim *Claim) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
	SaveWithLockAndEvents(ctx context.Context, claim *Claim, events []shared.DomainEvent) error

	// ExistsBySaleID checks whether a claim already exists for a sale
	ExistsBySaleID(ctx context.Context, saleID uuid.UUID) (bool, error)

	// Delete removes a claim. Only accepted objections do this.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountBySeller counts claims made by a seller
	CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error)
}

// StreakCounterRepository defines the interface for the shared streak counter.
// The counter is a singleton row; Get creates it on first access.
type StreakCounterRepository interface {
	// Get loads the singleton streak counter, creating it if absent
	Get(ctx context.Context) (*StreakCounter, error)

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, counter *StreakCounter) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
	SaveWithLockAndEvents(ctx context.Context, counter *StreakCounter, events []shared.DomainEvent) error
}
