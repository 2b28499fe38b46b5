package event

import (
	"github.com/winroom/backend/internal/domain/attribution"
	"github.com/winroom/backend/internal/domain/installment"
	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/objection"
	"github.com/winroom/backend/internal/domain/queue"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table.
func RegisterAllEvents(serializer *EventSerializer) error {
	// Queue domain events. QueueItemClaimed is at schema v2: v1 payloads
	// named the claiming seller "seller_id" and predate claim types.
	err := serializer.RegisterVersioned(queue.EventTypeItemClaimed, queue.ItemClaimedSchemaVersion,
		&queue.ItemClaimedEvent{},
		NewMapUpgrader(1, upgradeItemClaimedV1),
	)
	if err != nil {
		return err
	}
	serializer.Register(queue.EventTypeItemQueued, &queue.ItemQueuedEvent{})
	serializer.Register(queue.EventTypeItemExcluded, &queue.ItemExcludedEvent{})
	serializer.Register(queue.EventTypeItemRestored, &queue.ItemRestoredEvent{})
	serializer.Register(queue.EventTypeStreakReached, &queue.StreakReachedEvent{})
	serializer.Register(queue.EventTypeGoalProgress, &queue.GoalProgressEvent{})

	// Attribution domain events
	serializer.Register(attribution.EventTypeAttributionResolved, &attribution.AttributionResolvedEvent{})
	serializer.Register(attribution.EventTypeAttributionSplit, &attribution.AttributionSplitEvent{})
	serializer.Register(attribution.EventTypeAttributionReassigned, &attribution.AttributionReassignedEvent{})

	// Ledger domain events
	serializer.Register(ledger.EventTypeRefundApplied, &ledger.RefundAppliedEvent{})
	serializer.Register(ledger.EventTypeMetricsEdited, &ledger.MetricsEditedEvent{})
	serializer.Register(ledger.EventTypeAdjustmentAdded, &ledger.AdjustmentAddedEvent{})
	serializer.Register(ledger.EventTypeAdjustmentsCleared, &ledger.AdjustmentsClearedEvent{})

	// Installment domain events
	serializer.Register(installment.EventTypePlanCreated, &installment.PlanCreatedEvent{})
	serializer.Register(installment.EventTypePlanStatusChanged, &installment.PlanStatusChangedEvent{})
	serializer.Register(installment.EventTypePlanCompleted, &installment.PlanCompletedEvent{})
	serializer.Register(installment.EventTypePaymentSubmitted, &installment.PaymentSubmittedEvent{})
	serializer.Register(installment.EventTypePaymentConfirmed, &installment.PaymentConfirmedEvent{})
	serializer.Register(installment.EventTypePaymentRejected, &installment.PaymentRejectedEvent{})

	// Objection domain events
	serializer.Register(objection.EventTypeObjectionRaised, &objection.ObjectionRaisedEvent{})
	serializer.Register(objection.EventTypeObjectionResolved, &objection.ObjectionResolvedEvent{})

	return nil
}

// upgradeItemClaimedV1 rewrites a v1 QueueItemClaimed payload to v2:
// "seller_id" becomes "claimed_by", and the claim type defaults to
// FIRST_SALES since v1 only existed before the other claim flows shipped.
func upgradeItemClaimedV1(data map[string]any) (map[string]any, error) {
	if sellerID, ok := data["seller_id"]; ok {
		data["claimed_by"] = sellerID
		delete(data, "seller_id")
	}
	if _, ok := data["claim_type"]; !ok {
		data["claim_type"] = string(queue.ClaimTypeFirstSales)
	}
	return data, nil
}
