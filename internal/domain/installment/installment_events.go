package installment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/winroom/backend/internal/domain/shared"
)

const AggregateTypeInstallmentPlan = "InstallmentPlan"

const (
	EventTypePlanCreated       = "InstallmentPlanCreated"
	EventTypePlanStatusChanged = "InstallmentPlanStatusChanged"
	EventTypePlanCompleted     = "InstallmentPlanCompleted"
	EventTypePaymentSubmitted  = "InstallmentPaymentSubmitted"
	EventTypePaymentConfirmed  = "InstallmentPaymentConfirmed"
	EventTypePaymentRejected   = "InstallmentPaymentRejected"
)

// PlanCreatedEvent is raised when a plan and its schedule are persisted
type PlanCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID            uuid.UUID       `json:"sale_id"`
	TotalInstallments int             `json:"total_installments"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Currency          string          `json:"currency"`
}

// EventType returns the event type name
func (e *PlanCreatedEvent) EventType() string {
	return EventTypePlanCreated
}

// NewPlanCreatedEvent creates a new PlanCreatedEvent
func NewPlanCreatedEvent(p *InstallmentPlan) *PlanCreatedEvent {
	return &PlanCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePlanCreated, AggregateTypeInstallmentPlan, p.ID),
		SaleID:            p.SaleID,
		TotalInstallments: p.TotalInstallments,
		TotalAmount:       p.TotalAmount,
		Currency:          p.Currency,
	}
}

// PlanStatusChangedEvent is raised on freeze, unfreeze and cancel
type PlanStatusChangedEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID  `json:"sale_id"`
	Status PlanStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

// EventType returns the event type name
func (e *PlanStatusChangedEvent) EventType() string {
	return EventTypePlanStatusChanged
}

// NewPlanStatusChangedEvent creates a new PlanStatusChangedEvent
func NewPlanStatusChangedEvent(p *InstallmentPlan, reason string) *PlanStatusChangedEvent {
	return &PlanStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlanStatusChanged, AggregateTypeInstallmentPlan, p.ID),
		SaleID:          p.SaleID,
		Status:          p.Status,
		Reason:          reason,
	}
}

// PlanCompletedEvent is raised when the last payment confirmation completes
// the plan.
type PlanCompletedEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID `json:"sale_id"`
}

// EventType returns the event type name
func (e *PlanCompletedEvent) EventType() string {
	return EventTypePlanCompleted
}

// NewPlanCompletedEvent creates a new PlanCompletedEvent
func NewPlanCompletedEvent(p *InstallmentPlan) *PlanCompletedEvent {
	return &PlanCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlanCompleted, AggregateTypeInstallmentPlan, p.ID),
		SaleID:          p.SaleID,
	}
}

// PaymentSubmittedEvent is raised when a seller submits a payment for review
type PaymentSubmittedEvent struct {
	shared.BaseDomainEvent
	SaleID        uuid.UUID `json:"sale_id"`
	PaymentID     uuid.UUID `json:"payment_id"`
	PaymentNumber int       `json:"payment_number"`
}

// EventType returns the event type name
func (e *PaymentSubmittedEvent) EventType() string {
	return EventTypePaymentSubmitted
}

// NewPaymentSubmittedEvent creates a new PaymentSubmittedEvent
func NewPaymentSubmittedEvent(p *InstallmentPlan, payment *InstallmentPayment) *PaymentSubmittedEvent {
	return &PaymentSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentSubmitted, AggregateTypeInstallmentPlan, p.ID),
		SaleID:          p.SaleID,
		PaymentID:       payment.ID,
		PaymentNumber:   payment.PaymentNumber,
	}
}

// PaymentConfirmedEvent is raised when finance confirms a payment
type PaymentConfirmedEvent struct {
	shared.BaseDomainEvent
	SaleID        uuid.UUID `json:"sale_id"`
	PaymentID     uuid.UUID `json:"payment_id"`
	PaymentNumber int       `json:"payment_number"`
}

// EventType returns the event type name
func (e *PaymentConfirmedEvent) EventType() string {
	return EventTypePaymentConfirmed
}

// NewPaymentConfirmedEvent creates a new PaymentConfirmedEvent
func NewPaymentConfirmedEvent(p *InstallmentPlan, payment *InstallmentPayment) *PaymentConfirmedEvent {
	return &PaymentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentConfirmed, AggregateTypeInstallmentPlan, p.ID),
		SaleID:          p.SaleID,
		PaymentID:       payment.ID,
		PaymentNumber:   payment.PaymentNumber,
	}
}

// PaymentRejectedEvent is raised when finance rejects a submitted payment
type PaymentRejectedEvent struct {
	shared.BaseDomainEvent
	SaleID        uuid.UUID `json:"sale_id"`
	PaymentID     uuid.UUID `json:"payment_id"`
	PaymentNumber int       `json:"payment_number"`
	Reason        string    `json:"reason"`
}

// EventType returns the event type name
func (e *PaymentRejectedEvent) EventType() string {
	return EventTypePaymentRejected
}

// NewPaymentRejectedEvent creates a new PaymentRejectedEvent
func NewPaymentRejectedEvent(p *InstallmentPlan, payment *InstallmentPayment) *PaymentRejectedEvent {
	return &PaymentRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRejected, AggregateTypeInstallmentPlan, p.ID),
		SaleID:          p.SaleID,
		PaymentID:       payment.ID,
		PaymentNumber:   payment.PaymentNumber,
		Reason:          payment.RejectReason,
	}
}
