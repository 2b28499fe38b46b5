package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/winroom/backend/internal/domain/shared"
)

const (
	AggregateTypeSaleMetrics = "SaleMetrics"
	AggregateTypeAdjustment  = "Adjustment"
	AggregateTypeRefund      = "Refund"
)

const (
	EventTypeRefundApplied      = "RefundApplied"
	EventTypeMetricsEdited      = "SaleMetricsEdited"
	EventTypeAdjustmentAdded    = "AdjustmentAdded"
	EventTypeAdjustmentsCleared = "AdjustmentsCleared"
)

// RefundAppliedEvent carries the before/after figures of a refund so
// downstream dashboards can render the delta without re-reading the ledger.
type RefundAppliedEvent struct {
	shared.BaseDomainEvent
	SaleID        uuid.UUID       `json:"sale_id"`
	Amount        decimal.Decimal `json:"amount"`
	IsFull        bool            `json:"is_full"`
	BeforeRevenue decimal.Decimal `json:"before_revenue"`
	AfterRevenue  decimal.Decimal `json:"after_revenue"`
	BeforeMargin  decimal.Decimal `json:"before_margin"`
	AfterMargin   decimal.Decimal `json:"after_margin"`
}

// EventType returns the event type name
func (e *RefundAppliedEvent) EventType() string {
	return EventTypeRefundApplied
}

// NewRefundAppliedEvent creates a new RefundAppliedEvent
func NewRefundAppliedEvent(m *SaleMetrics, outcome RefundOutcome) *RefundAppliedEvent {
	return &RefundAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRefundApplied, AggregateTypeSaleMetrics, m.ID),
		SaleID:          m.SaleID,
		Amount:          outcome.Amount,
		IsFull:          outcome.IsFull,
		BeforeRevenue:   outcome.BeforeRevenue,
		AfterRevenue:    outcome.AfterRevenue,
		BeforeMargin:    outcome.BeforeMargin,
		AfterMargin:     outcome.AfterMargin,
	}
}

// MetricsEditedEvent is raised when staff manually overwrite metrics figures
type MetricsEditedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID       `json:"sale_id"`
	RevenueUSD decimal.Decimal `json:"revenue_usd"`
	CostUSD    decimal.Decimal `json:"cost_usd"`
	MarginUSD  decimal.Decimal `json:"margin_usd"`
}

// EventType returns the event type name
func (e *MetricsEditedEvent) EventType() string {
	return EventTypeMetricsEdited
}

// NewMetricsEditedEvent creates a new MetricsEditedEvent
func NewMetricsEditedEvent(m *SaleMetrics) *MetricsEditedEvent {
	return &MetricsEditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMetricsEdited, AggregateTypeSaleMetrics, m.ID),
		SaleID:          m.SaleID,
		RevenueUSD:      m.RevenueUSD,
		CostUSD:         m.CostUSD,
		MarginUSD:       m.MarginAmountUSD,
	}
}

// AdjustmentAddedEvent is raised when a cost adjustment is recorded
type AdjustmentAddedEvent struct {
	shared.BaseDomainEvent
	ClaimID           uuid.UUID        `json:"claim_id"`
	AdditionalCostUSD decimal.Decimal  `json:"additional_cost_usd"`
	Reason            AdjustmentReason `json:"reason"`
}

// EventType returns the event type name
func (e *AdjustmentAddedEvent) EventType() string {
	return EventTypeAdjustmentAdded
}

// NewAdjustmentAddedEvent creates a new AdjustmentAddedEvent
func NewAdjustmentAddedEvent(a *Adjustment) *AdjustmentAddedEvent {
	return &AdjustmentAddedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeAdjustmentAdded, AggregateTypeAdjustment, a.ID),
		ClaimID:           a.ClaimID,
		AdditionalCostUSD: a.AdditionalCostUSD,
		Reason:            a.Reason,
	}
}

// AdjustmentsClearedEvent is raised when all adjustments for a claim are removed
type AdjustmentsClearedEvent struct {
	shared.BaseDomainEvent
	ClaimID uuid.UUID `json:"claim_id"`
	Actor   uuid.UUID `json:"actor"`
}

// EventType returns the event type name
func (e *AdjustmentsClearedEvent) EventType() string {
	return EventTypeAdjustmentsCleared
}

// NewAdjustmentsClearedEvent creates a new AdjustmentsClearedEvent
func NewAdjustmentsClearedEvent(claimID, actor uuid.UUID) *AdjustmentsClearedEvent {
	return &AdjustmentsClearedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdjustmentsCleared, AggregateTypeAdjustment, claimID),
		ClaimID:         claimID,
		Actor:           actor,
	}
}
