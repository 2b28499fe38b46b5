package objection

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/winroom/backend/internal/domain/shared"
)

// ObjectionReason classifies why a claim is disputed
type ObjectionReason string

const (
	ObjectionReasonWrongOwner ObjectionReason = "WRONG_OWNER"
	ObjectionReasonDuplicate  ObjectionReason = "DUPLICATE"
	ObjectionReasonRefund     ObjectionReason = "REFUND"
	ObjectionReasonOther      ObjectionReason = "OTHER"
)

// IsValid checks if the reason is a valid ObjectionReason
func (r ObjectionReason) IsValid() bool {
	switch r {
	case ObjectionReasonWrongOwner, ObjectionReasonDuplicate, ObjectionReasonRefund, ObjectionReasonOther:
		return true
	}
	return false
}

// String returns the string representation of ObjectionReason
func (r ObjectionReason) String() string {
	return string(r)
}

// ObjectionStatus represents the review state of an objection
type ObjectionStatus string

const (
	ObjectionStatusPending  ObjectionStatus = "PENDING"
	ObjectionStatusAccepted ObjectionStatus = "ACCEPTED"
	ObjectionStatusRejected ObjectionStatus = "REJECTED"
)

// IsValid checks if the status is a valid ObjectionStatus
func (s ObjectionStatus) IsValid() bool {
	switch s {
	case ObjectionStatusPending, ObjectionStatusAccepted, ObjectionStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ObjectionStatus
func (s ObjectionStatus) String() string {
	return string(s)
}

// ResolutionAction is what an accepted objection does to the claimed sale
type ResolutionAction string

const (
	ResolutionActionReassign ResolutionAction = "REASSIGN"
	ResolutionActionExclude  ResolutionAction = "EXCLUDE"
	ResolutionActionRefund   ResolutionAction = "REFUND"
)

// IsValid checks if the action is a valid ResolutionAction
func (a ResolutionAction) IsValid() bool {
	switch a {
	case ResolutionActionReassign, ResolutionActionExclude, ResolutionActionRefund:
		return true
	}
	return false
}

// String returns the string representation of ResolutionAction
func (a ResolutionAction) String() string {
	return string(a)
}

// Objection is a dispute against a claimed sale. Accepted objections carry
// the corrective action that was dispatched when they were resolved.
type Objection struct {
	shared.BaseAggregateRoot

	SaleID     uuid.UUID
	RaisedBy   uuid.UUID
	Reason     ObjectionReason
	Details    string
	Status     ObjectionStatus
	AdminNote  string
	Action     *ResolutionAction
	ReassignTo *uuid.UUID
	ResolvedBy *uuid.UUID
	ResolvedAt *time.Time
}

// NewObjection raises a pending objection against a sale
func NewObjection(saleID, raisedBy uuid.UUID, reason ObjectionReason, details string) (*Objection, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	if raisedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Raised-by cannot be empty")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Invalid objection reason")
	}

	o := &Objection{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            saleID,
		RaisedBy:          raisedBy,
		Reason:            reason,
		Details:           details,
		Status:            ObjectionStatusPending,
	}

	o.AddDomainEvent(NewObjectionRaisedEvent(o))

	return o, nil
}

// Resolve closes a pending objection. An accepted objection may carry the
// action the resolver dispatched; REASSIGN requires a target seller.
func (o *Objection) Resolve(status ObjectionStatus, resolvedBy uuid.UUID, adminNote string, action *ResolutionAction, reassignTo *uuid.UUID) error {
	if o.Status != ObjectionStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Objection is already %s", o.Status))
	}
	if status != ObjectionStatusAccepted && status != ObjectionStatusRejected {
		return shared.NewDomainError("INVALID_STATUS", "Resolution must accept or reject")
	}
	if resolvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Resolver cannot be empty")
	}
	if action != nil {
		if status != ObjectionStatusAccepted {
			return shared.NewDomainError("INVALID_ACTION", "Only accepted objections carry an action")
		}
		if !action.IsValid() {
			return shared.NewDomainError("INVALID_ACTION", "Invalid resolution action")
		}
		if *action == ResolutionActionReassign && (reassignTo == nil || *reassignTo == uuid.Nil) {
			return shared.NewDomainError("INVALID_ACTION", "Reassignment requires a target seller")
		}
	}

	now := time.Now()
	o.Status = status
	o.AdminNote = adminNote
	o.Action = action
	if action != nil && *action == ResolutionActionReassign {
		o.ReassignTo = reassignTo
	}
	o.ResolvedBy = &resolvedBy
	o.ResolvedAt = &now
	o.Touch()

	o.AddDomainEvent(NewObjectionResolvedEvent(o))

	return nil
}
