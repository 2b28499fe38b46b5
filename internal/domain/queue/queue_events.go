package queue

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/winroom/backend/internal/domain/shared"
)

// Aggregate type names used in events and the outbox
const (
	AggregateTypeQueueItem     = "QueueItem"
	AggregateTypeClaim         = "Claim"
	AggregateTypeStreakCounter = "StreakCounter"
)

// Event type names for the queue bounded context
const (
	EventTypeItemQueued    = "QueueItemQueued"
	EventTypeItemClaimed   = "QueueItemClaimed"
	EventTypeItemExcluded  = "QueueItemExcluded"
	EventTypeItemRestored  = "QueueItemRestored"
	EventTypeStreakReached = "StreakReached"
	EventTypeGoalProgress  = "GoalProgress"
)

// ItemQueuedEvent is raised when a sale enters the claim queue.
// Seller-facing views listen to this to refresh their pending lists.
type ItemQueuedEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID       `json:"sale_id"`
	CustomerName string          `json:"customer_name"`
	Campaign     string          `json:"campaign"`
	Channel      string          `json:"channel"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Source       ItemSource      `json:"source"`
}

// EventType returns the event type name
func (e *ItemQueuedEvent) EventType() string {
	return EventTypeItemQueued
}

// NewItemQueuedEvent creates a new ItemQueuedEvent
func NewItemQueuedEvent(item *QueueItem) *ItemQueuedEvent {
	return &ItemQueuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemQueued, AggregateTypeQueueItem, item.ID),
		SaleID:          item.Sale.SaleID,
		CustomerName:    item.Sale.CustomerName,
		Campaign:        item.Sale.Campaign,
		Channel:         item.Sale.Channel,
		Amount:          item.Sale.Amount,
		Currency:        item.Sale.Currency,
		Source:          item.Source,
	}
}

// ItemClaimedSchemaVersion is the current payload version of
// QueueItemClaimed. Version 1 named the claiming seller "seller_id" and had
// no claim type; the serializer upgrades those payloads on read.
const ItemClaimedSchemaVersion = 2

// ItemClaimedEvent is raised when a seller claims a sale, and again (tagged as
// reassignment) when an admin reassigns the claim to another seller.
type ItemClaimedEvent struct {
	shared.BaseDomainEvent
	SaleID         uuid.UUID `json:"sale_id"`
	QueueItemID    uuid.UUID `json:"queue_item_id"`
	ClaimedBy      uuid.UUID `json:"claimed_by"`
	ClaimType      ClaimType `json:"claim_type"`
	IsReassignment bool      `json:"is_reassignment"`
	ClaimedAt      time.Time `json:"claimed_at"`
}

// EventType returns the event type name
func (e *ItemClaimedEvent) EventType() string {
	return EventTypeItemClaimed
}

// NewItemClaimedEvent creates a new ItemClaimedEvent
func NewItemClaimedEvent(c *Claim, reassignment bool) *ItemClaimedEvent {
	return &ItemClaimedEvent{
		BaseDomainEvent: shared.NewVersionedDomainEvent(EventTypeItemClaimed, AggregateTypeClaim, c.ID, ItemClaimedSchemaVersion),
		SaleID:          c.SaleID,
		QueueItemID:     c.QueueItemID,
		ClaimedBy:       c.ClaimedBy,
		ClaimType:       c.ClaimType,
		IsReassignment:  reassignment,
		ClaimedAt:       c.ClaimedAt,
	}
}

// ItemExcludedEvent is raised when staff exclude a pending item
type ItemExcludedEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID `json:"sale_id"`
	Reason string    `json:"reason"`
	Actor  uuid.UUID `json:"actor"`
}

// EventType returns the event type name
func (e *ItemExcludedEvent) EventType() string {
	return EventTypeItemExcluded
}

// NewItemExcludedEvent creates a new ItemExcludedEvent
func NewItemExcludedEvent(item *QueueItem, reason string, actor uuid.UUID) *ItemExcludedEvent {
	return &ItemExcludedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemExcluded, AggregateTypeQueueItem, item.ID),
		SaleID:          item.Sale.SaleID,
		Reason:          reason,
		Actor:           actor,
	}
}

// ItemRestoredEvent is raised when an excluded item returns to the queue.
// Seller views treat it like a fresh pending item.
type ItemRestoredEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID `json:"sale_id"`
}

// EventType returns the event type name
func (e *ItemRestoredEvent) EventType() string {
	return EventTypeItemRestored
}

// NewItemRestoredEvent creates a new ItemRestoredEvent
func NewItemRestoredEvent(item *QueueItem) *ItemRestoredEvent {
	return &ItemRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemRestored, AggregateTypeQueueItem, item.ID),
		SaleID:          item.Sale.SaleID,
	}
}

// StreakReachedEvent is raised when a seller's consecutive-claim streak hits
// the threshold. Downstream achievement awarding must dedupe on
// "streak:<seller>:<count>".
type StreakReachedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID `json:"seller_id"`
	Count    int       `json:"count"`
}

// EventType returns the event type name
func (e *StreakReachedEvent) EventType() string {
	return EventTypeStreakReached
}

// NewStreakReachedEvent creates a new StreakReachedEvent
func NewStreakReachedEvent(s *StreakCounter) *StreakReachedEvent {
	return &StreakReachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStreakReached, AggregateTypeStreakCounter, s.ID),
		SellerID:        s.SellerID,
		Count:           s.Count,
	}
}

// GoalProgressEvent asks downstream aggregate views (leaderboards, team
// goals) to refresh. It carries no payload beyond the affected sale.
type GoalProgressEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID `json:"sale_id"`
}

// EventType returns the event type name
func (e *GoalProgressEvent) EventType() string {
	return EventTypeGoalProgress
}

// NewGoalProgressEvent creates a new GoalProgressEvent
func NewGoalProgressEvent(aggType string, aggID, saleID uuid.UUID) *GoalProgressEvent {
	return &GoalProgressEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoalProgress, aggType, aggID),
		SaleID:          saleID,
	}
}
