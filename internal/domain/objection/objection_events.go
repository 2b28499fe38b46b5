package objection

import (
	"github.com/google/uuid"

	"github.com/winroom/backend/internal/domain/shared"
)

const AggregateTypeObjection = "Objection"

const (
	EventTypeObjectionRaised   = "ObjectionRaised"
	EventTypeObjectionResolved = "ObjectionResolved"
)

// ObjectionRaisedEvent is raised when a seller disputes a claim
type ObjectionRaisedEvent struct {
	shared.BaseDomainEvent
	SaleID   uuid.UUID       `json:"sale_id"`
	RaisedBy uuid.UUID       `json:"raised_by"`
	Reason   ObjectionReason `json:"reason"`
}

// EventType returns the event type name
func (e *ObjectionRaisedEvent) EventType() string {
	return EventTypeObjectionRaised
}

// NewObjectionRaisedEvent creates a new ObjectionRaisedEvent
func NewObjectionRaisedEvent(o *Objection) *ObjectionRaisedEvent {
	return &ObjectionRaisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeObjectionRaised, AggregateTypeObjection, o.ID),
		SaleID:          o.SaleID,
		RaisedBy:        o.RaisedBy,
		Reason:          o.Reason,
	}
}

// ObjectionResolvedEvent is raised when an admin closes an objection
type ObjectionResolvedEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID         `json:"sale_id"`
	Status ObjectionStatus   `json:"status"`
	Action *ResolutionAction `json:"action,omitempty"`
}

// EventType returns the event type name
func (e *ObjectionResolvedEvent) EventType() string {
	return EventTypeObjectionResolved
}

// NewObjectionResolvedEvent creates a new ObjectionResolvedEvent
func NewObjectionResolvedEvent(o *Objection) *ObjectionResolvedEvent {
	return &ObjectionResolvedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeObjectionResolved, AggregateTypeObjection, o.ID),
		SaleID:          o.SaleID,
		Status:          o.Status,
		Action:          o.Action,
	}
}
