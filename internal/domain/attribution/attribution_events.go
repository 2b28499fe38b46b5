package attribution

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/winroom/backend/internal/domain/shared"
)

const AggregateTypeAttribution = "Attribution"

const (
	EventTypeAttributionResolved   = "AttributionResolved"
	EventTypeAttributionSplit      = "AttributionSplit"
	EventTypeAttributionReassigned = "AttributionReassigned"
)

// AttributionResolvedEvent is raised when the initial attribution is written
type AttributionResolvedEvent struct {
	shared.BaseDomainEvent
	SaleID         uuid.UUID       `json:"sale_id"`
	CloserSellerID uuid.UUID       `json:"closer_seller_id"`
	CloserShare    decimal.Decimal `json:"closer_share"`
}

// EventType returns the event type name
func (e *AttributionResolvedEvent) EventType() string {
	return EventTypeAttributionResolved
}

// NewAttributionResolvedEvent creates a new AttributionResolvedEvent
func NewAttributionResolvedEvent(a *Attribution) *AttributionResolvedEvent {
	return &AttributionResolvedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAttributionResolved, AggregateTypeAttribution, a.ID),
		SaleID:          a.SaleID,
		CloserSellerID:  a.CloserSellerID,
		CloserShare:     a.CloserShare,
	}
}

// AttributionSplitEvent is raised when an admin rewrites the shares
type AttributionSplitEvent struct {
	shared.BaseDomainEvent
	SaleID           uuid.UUID       `json:"sale_id"`
	CloserSellerID   uuid.UUID       `json:"closer_seller_id"`
	AssistedSellerID *uuid.UUID      `json:"assisted_seller_id,omitempty"`
	CloserShare      decimal.Decimal `json:"closer_share"`
	AssistedShare    decimal.Decimal `json:"assisted_share"`
}

// EventType returns the event type name
func (e *AttributionSplitEvent) EventType() string {
	return EventTypeAttributionSplit
}

// NewAttributionSplitEvent creates a new AttributionSplitEvent
func NewAttributionSplitEvent(a *Attribution) *AttributionSplitEvent {
	return &AttributionSplitEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeAttributionSplit, AggregateTypeAttribution, a.ID),
		SaleID:           a.SaleID,
		CloserSellerID:   a.CloserSellerID,
		AssistedSellerID: a.AssistedSellerID,
		CloserShare:      a.CloserShare,
		AssistedShare:    a.AssistedShare,
	}
}

// AttributionReassignedEvent is raised when the sale is handed to a new closer
type AttributionReassignedEvent struct {
	shared.BaseDomainEvent
	SaleID           uuid.UUID `json:"sale_id"`
	PreviousSellerID uuid.UUID `json:"previous_seller_id"`
	NewSellerID      uuid.UUID `json:"new_seller_id"`
}

// EventType returns the event type name
func (e *AttributionReassignedEvent) EventType() string {
	return EventTypeAttributionReassigned
}

// NewAttributionReassignedEvent creates a new AttributionReassignedEvent
func NewAttributionReassignedEvent(a *Attribution, previous uuid.UUID) *AttributionReassignedEvent {
	return &AttributionReassignedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeAttributionReassigned, AggregateTypeAttribution, a.ID),
		SaleID:           a.SaleID,
		PreviousSellerID: previous,
		NewSellerID:      a.CloserSellerID,
	}
}
