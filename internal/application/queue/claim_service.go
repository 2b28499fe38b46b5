package queue

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/winroom/backend/internal/domain/attribution"
	"github.com/winroom/backend/internal/domain/installment"
	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
)

// ClaimService runs the claim transaction: lock the queue row, verify
// exclusivity, write the claim, the attribution and the streak counter, and
// hand all resulting events to the outbox in the same transaction.
type ClaimService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewClaimService creates a new ClaimService
func NewClaimService(scope TransactionScope, logger *zap.Logger) *ClaimService {
	return &ClaimService{
		scope:  scope,
		logger: logger,
	}
}

// Claim claims a pending sale for a seller. Concurrent claimers of the same
// sale serialize on the FOR UPDATE read; the loser sees a claimed item and
// gets ALREADY_CLAIMED.
func (s *ClaimService) Claim(ctx context.Context, req ClaimRequest) (*ClaimResponse, error) {
	if req.SaleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}

	var response ClaimResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.QueueItemRepo().FindBySaleIDForUpdate(ctx, req.SaleID)
		if err != nil {
			return err
		}

		claimed, err := repos.ClaimRepo().ExistsBySaleID(ctx, req.SaleID)
		if err != nil {
			return err
		}
		if claimed {
			return shared.NewDomainError("ALREADY_CLAIMED", "Sale has already been claimed")
		}
		if !item.IsPending() {
			return shared.NewDomainError("ITEM_NOT_AVAILABLE", "Queue item is not available for claiming")
		}

		var plan *installment.InstallmentPlan
		planID := req.InstallmentPlanID
		if req.ClaimType == queue.ClaimTypeInstallment {
			plan, err = s.resolvePlan(ctx, repos, req)
			if err != nil {
				return err
			}
			planID = &plan.ID
		}

		claim, err := queue.NewClaim(item, req.SellerID, req.ClaimType, req.AttributionSource, planID)
		if err != nil {
			return err
		}

		if err := item.MarkClaimed(); err != nil {
			return err
		}

		attr, err := attribution.NewAttribution(req.SaleID, claim.ID, req.SellerID)
		if err != nil {
			return err
		}

		counter, err := repos.StreakRepo().Get(ctx)
		if err != nil {
			return err
		}
		if err := counter.RecordClaim(req.SellerID); err != nil {
			return err
		}

		if plan != nil {
			if err := plan.LinkClaim(claim.ID); err != nil {
				return err
			}
			if err := repos.PlanRepo().SaveWithLock(ctx, plan); err != nil {
				return err
			}
		}

		// Aggregate views refresh off this event
		claim.AddDomainEvent(queue.NewGoalProgressEvent(queue.AggregateTypeClaim, claim.ID, req.SaleID))

		if err := repos.ClaimRepo().SaveWithLockAndEvents(ctx, claim, claim.GetDomainEvents()); err != nil {
			return err
		}
		claim.ClearDomainEvents()

		if err := repos.QueueItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}

		if err := repos.AttributionRepo().SaveWithLockAndEvents(ctx, attr, attr.GetDomainEvents()); err != nil {
			return err
		}
		attr.ClearDomainEvents()

		if err := repos.StreakRepo().SaveWithLockAndEvents(ctx, counter, counter.GetDomainEvents()); err != nil {
			return err
		}
		streakReached := false
		for _, e := range counter.GetDomainEvents() {
			if e.EventType() == queue.EventTypeStreakReached {
				streakReached = true
			}
		}
		counter.ClearDomainEvents()

		response = ClaimResponse{
			ClaimID:       claim.ID,
			SaleID:        claim.SaleID,
			QueueItemID:   claim.QueueItemID,
			ClaimedBy:     claim.ClaimedBy,
			ClaimType:     claim.ClaimType,
			ClaimedAt:     claim.ClaimedAt,
			StreakCount:   counter.Count,
			StreakReached: streakReached,
			FinanceStatus: claim.Finance.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale claimed",
		zap.String("sale_id", response.SaleID.String()),
		zap.String("claimed_by", response.ClaimedBy.String()),
		zap.String("claim_type", string(response.ClaimType)),
		zap.Int("streak_count", response.StreakCount),
	)

	return &response, nil
}

// resolvePlan validates the installment plan referenced by an INSTALLMENT
// claim: it must exist, belong to the claimed sale and not be cancelled.
// When no plan id is supplied the sale's own plan is looked up instead.
func (s *ClaimService) resolvePlan(ctx context.Context, repos TransactionalRepositories, req ClaimRequest) (*installment.InstallmentPlan, error) {
	var plan *installment.InstallmentPlan
	var err error
	if req.InstallmentPlanID != nil {
		plan, err = repos.PlanRepo().FindByID(ctx, *req.InstallmentPlanID)
		if err != nil {
			return nil, shared.NewDomainError("INSTALLMENT_PLAN_INVALID", "Installment plan not found")
		}
	} else {
		plan, err = repos.PlanRepo().FindBySaleID(ctx, req.SaleID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INSTALLMENT_PLAN_REQUIRED",
				"Installment claims require an existing installment plan")
		}
		if err != nil {
			return nil, err
		}
	}
	if plan.SaleID != req.SaleID {
		return nil, shared.NewDomainError("INSTALLMENT_PLAN_INVALID", "Installment plan belongs to a different sale")
	}
	if plan.Status == installment.PlanStatusCancelled {
		return nil, shared.NewDomainError("INSTALLMENT_PLAN_INVALID", "Installment plan is cancelled")
	}
	return plan, nil
}
