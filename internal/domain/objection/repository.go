package objection

import (
	"context"

	"github.com/google/uuid"

	"github.com/winroom/backend/internal/domain/shared"
)

// ObjectionRepository defines the interface for objection persistence
type ObjectionRepository interface {
	// FindByID finds an objection by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Objection, error)

	// FindBySaleID finds all objections for a sale
	FindBySaleID(ctx context.Context, saleID uuid.UUID) ([]Objection, error)

	// FindByStatus finds objections by status with filtering
	FindByStatus(ctx context.Context, status ObjectionStatus, filter shared.Filter) ([]Objection, error)

	// Save creates or updates an objection
	Save(ctx context.Context, o *Objection) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, o *Objection) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
	SaveWithLockAndEvents(ctx context.Context, o *Objection, events []shared.DomainEvent) error

	// CountPending counts objections awaiting review
	CountPending(ctx context.Context) (int64, error)
}
