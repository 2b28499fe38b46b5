package queue

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/winroom/backend/internal/domain/shared"
)

// ItemStatus represents the claimability state of a queue item
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "PENDING"
	ItemStatusClaimed  ItemStatus = "CLAIMED"
	ItemStatusExcluded ItemStatus = "EXCLUDED"
	ItemStatusRefunded ItemStatus = "REFUNDED"
)

// IsValid checks if the status is a valid ItemStatus
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusPending, ItemStatusClaimed, ItemStatusExcluded, ItemStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of ItemStatus
func (s ItemStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ItemStatus) CanTransitionTo(target ItemStatus) bool {
	switch s {
	case ItemStatusPending:
		return target == ItemStatusClaimed || target == ItemStatusExcluded
	case ItemStatusClaimed:
		return target == ItemStatusRefunded
	case ItemStatusExcluded:
		return target == ItemStatusPending
	case ItemStatusRefunded:
		return false // Terminal state
	}
	return false
}

// ItemSource records how a queue item entered the queue
type ItemSource string

const (
	ItemSourceAutomatic ItemSource = "AUTOMATIC"
	ItemSourceManual    ItemSource = "MANUAL"
)

// SaleSnapshot is the immutable sale fact a queue item is created from.
// The ledger never mutates these fields; only the derived metrics record
// changes over time.
type SaleSnapshot struct {
	SaleID            uuid.UUID
	CustomerName      string
	CustomerEmail     string
	Campaign          string
	Channel           string
	Amount            decimal.Decimal
	Currency          string
	OccurredAt        time.Time
	ExternalPaymentID string
	ExternalInvoiceID string
}

// Fingerprint computes the content fingerprint used to detect duplicate
// pending items on manual insertion.
func (s SaleSnapshot) Fingerprint() string {
	raw := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(s.CustomerEmail)),
		strings.ToLower(strings.TrimSpace(s.Campaign)),
		s.OccurredAt.UTC().Format(time.RFC3339),
		s.ExternalPaymentID,
		s.ExternalInvoiceID,
	}, "|")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// QueueItem is the sale's claimability record. It is 1:1 with a sale and
// carries a denormalized finance snapshot so sellers can see finance state
// before claiming.
type QueueItem struct {
	shared.BaseAggregateRoot

	Sale        SaleSnapshot
	Fingerprint string
	Status      ItemStatus
	Source      ItemSource
	Finance     FinanceSnapshot

	// Exclusion audit fields, set while Status == EXCLUDED
	ExcludedReason string
	ExcludedBy     *uuid.UUID
	ExcludedAt     *time.Time
}

// NewQueueItem creates a pending queue item from a sale snapshot
func NewQueueItem(sale SaleSnapshot, source ItemSource) (*QueueItem, error) {
	if sale.SaleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	if sale.Amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Sale amount cannot be negative")
	}
	if sale.Currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if sale.OccurredAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale timestamp cannot be empty")
	}

	item := &QueueItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Sale:              sale,
		Fingerprint:       sale.Fingerprint(),
		Status:            ItemStatusPending,
		Source:            source,
		Finance:           NewFinanceSnapshot(),
	}

	item.AddDomainEvent(NewItemQueuedEvent(item))

	return item, nil
}

// IsPending returns true if the item can still be claimed
func (q *QueueItem) IsPending() bool {
	return q.Status == ItemStatusPending
}

// MarkClaimed transitions the item to CLAIMED as part of a claim transaction
func (q *QueueItem) MarkClaimed() error {
	if q.Status != ItemStatusPending {
		return shared.NewDomainError("ITEM_NOT_AVAILABLE",
			fmt.Sprintf("Queue item is %s, only pending items can be claimed", q.Status))
	}
	q.Status = ItemStatusClaimed
	q.Touch()
	return nil
}

// MarkRefunded transitions a claimed item to the terminal REFUNDED state.
// Used by the refund ledger when a full refund lands.
func (q *QueueItem) MarkRefunded() error {
	if q.Status == ItemStatusRefunded {
		return nil // Already refunded, idempotent
	}
	if !q.Status.CanTransitionTo(ItemStatusRefunded) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot mark a %s queue item as refunded", q.Status))
	}
	q.Status = ItemStatusRefunded
	q.Touch()
	return nil
}

// ReleaseClaim returns a claimed item to pending after its claim was removed
// by an accepted objection. The caller deletes the claim in the same
// transaction.
func (q *QueueItem) ReleaseClaim() error {
	if q.Status != ItemStatusClaimed {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Only claimed items can be released, item is %s", q.Status))
	}
	q.Status = ItemStatusPending
	q.Touch()
	return nil
}

// Exclude removes a pending item from the claimable queue
func (q *QueueItem) Exclude(reason string, actor uuid.UUID) error {
	if q.Status != ItemStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Only pending items can be excluded, item is %s", q.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Exclusion reason cannot be empty")
	}

	now := time.Now()
	q.Status = ItemStatusExcluded
	q.ExcludedReason = reason
	q.ExcludedBy = &actor
	q.ExcludedAt = &now
	q.Touch()

	q.AddDomainEvent(NewItemExcludedEvent(q, reason, actor))

	return nil
}

// Restore returns an excluded item to the pending queue. The caller must
// verify no claim exists for the sale before restoring.
func (q *QueueItem) Restore() error {
	if q.Status != ItemStatusExcluded {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Only excluded items can be restored, item is %s", q.Status))
	}

	q.Status = ItemStatusPending
	q.ExcludedReason = ""
	q.ExcludedBy = nil
	q.ExcludedAt = nil
	q.Touch()

	q.AddDomainEvent(NewItemRestoredEvent(q))

	return nil
}

// UpdateFinance applies a finance status update to the denormalized snapshot
func (q *QueueItem) UpdateFinance(status FinanceStatus, approvedBy *uuid.UUID, notes string, installmentPlanID *uuid.UUID) error {
	if err := q.Finance.ApplyFinanceUpdate(status, approvedBy, notes, installmentPlanID); err != nil {
		return err
	}
	q.Touch()
	return nil
}
