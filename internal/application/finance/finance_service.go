package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appledger "github.com/winroom/backend/internal/application/ledger"
	"github.com/winroom/backend/internal/domain/installment"
	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
)

// UpdateFinanceRequest carries a finance review decision
type UpdateFinanceRequest struct {
	Status            queue.FinanceStatus
	ApprovedBy        uuid.UUID
	Notes             string
	InstallmentPlanID *uuid.UUID
}

// FinanceStateResponse is the read model for a finance snapshot
type FinanceStateResponse struct {
	SaleID            uuid.UUID           `json:"sale_id"`
	Status            queue.FinanceStatus `json:"status"`
	ApprovedBy        *uuid.UUID          `json:"approved_by,omitempty"`
	Notes             string              `json:"notes,omitempty"`
	InstallmentPlanID *uuid.UUID          `json:"installment_plan_id,omitempty"`
	UpdatedAt         *time.Time          `json:"updated_at,omitempty"`
}

func toFinanceStateResponse(saleID uuid.UUID, f queue.FinanceSnapshot) FinanceStateResponse {
	return FinanceStateResponse{
		SaleID:            saleID,
		Status:            f.Status,
		ApprovedBy:        f.ApprovedBy,
		Notes:             f.Notes,
		InstallmentPlanID: f.InstallmentPlanID,
		UpdatedAt:         f.UpdatedAt,
	}
}

// FinanceService applies finance review decisions to queue items and claims,
// keeping the two snapshots of the same sale in sync.
type FinanceService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(scope TransactionScope, logger *zap.Logger) *FinanceService {
	return &FinanceService{
		scope:  scope,
		logger: logger,
	}
}

// UpdateQueueFinance updates the finance state of a queue item. If the item
// has been claimed the claim's snapshot is updated in the same transaction.
func (s *FinanceService) UpdateQueueFinance(ctx context.Context, queueItemID uuid.UUID, req UpdateFinanceRequest) (*FinanceStateResponse, error) {
	var response FinanceStateResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.QueueItemRepo().FindByID(ctx, queueItemID)
		if err != nil {
			return err
		}

		if err := s.validatePlanLink(ctx, repos, item.Sale.SaleID, req); err != nil {
			return err
		}

		approvedBy := req.ApprovedBy
		if err := item.UpdateFinance(req.Status, &approvedBy, req.Notes, req.InstallmentPlanID); err != nil {
			return err
		}
		if err := repos.QueueItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}

		if err := s.syncClaim(ctx, repos, item.Sale.SaleID, req); err != nil {
			return err
		}

		response = toFinanceStateResponse(item.Sale.SaleID, item.Finance)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("queue item finance updated",
		zap.String("queue_item_id", queueItemID.String()),
		zap.String("status", req.Status.String()),
	)

	return &response, nil
}

// UpdateClaimFinance updates the finance state of a claim and mirrors it onto
// the queue item. The adjusted view is refreshed because finance state feeds
// the reporting filters.
func (s *FinanceService) UpdateClaimFinance(ctx context.Context, claimID uuid.UUID, req UpdateFinanceRequest) (*FinanceStateResponse, error) {
	var response FinanceStateResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		claim, err := repos.ClaimRepo().FindByID(ctx, claimID)
		if err != nil {
			return err
		}

		if err := s.validatePlanLink(ctx, repos, claim.SaleID, req); err != nil {
			return err
		}

		approvedBy := req.ApprovedBy
		if err := claim.UpdateFinance(req.Status, &approvedBy, req.Notes, req.InstallmentPlanID); err != nil {
			return err
		}
		if err := repos.ClaimRepo().SaveWithLock(ctx, claim); err != nil {
			return err
		}

		item, err := repos.QueueItemRepo().FindBySaleID(ctx, claim.SaleID)
		if err != nil {
			return err
		}
		if err := item.UpdateFinance(req.Status, &approvedBy, req.Notes, req.InstallmentPlanID); err != nil {
			return err
		}
		if err := repos.QueueItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}

		if err := appledger.RefreshAdjustedView(ctx, repos, claim.ID); err != nil {
			return err
		}

		response = toFinanceStateResponse(claim.SaleID, claim.Finance)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("claim finance updated",
		zap.String("claim_id", claimID.String()),
		zap.String("status", req.Status.String()),
	)

	return &response, nil
}

// ListClaimsAwaitingReview returns claims still in the WAITING finance state
func (s *FinanceService) ListClaimsAwaitingReview(ctx context.Context, filter shared.Filter) ([]queue.Claim, error) {
	var claims []queue.Claim
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		claims, err = repos.ClaimRepo().FindByFinanceStatus(ctx, queue.FinanceStatusWaiting, filter)
		return err
	})
	return claims, err
}

// validatePlanLink checks that an INSTALLMENT decision points at a live plan
// for the same sale.
func (s *FinanceService) validatePlanLink(ctx context.Context, repos TransactionalRepositories, saleID uuid.UUID, req UpdateFinanceRequest) error {
	if err := queue.ValidateFinanceUpdate(req.Status, req.InstallmentPlanID); err != nil {
		return err
	}
	if req.Status != queue.FinanceStatusInstallment {
		return nil
	}

	plan, err := repos.PlanRepo().FindByID(ctx, *req.InstallmentPlanID)
	if err != nil {
		return err
	}
	if plan.SaleID != saleID {
		return shared.NewDomainError("INSTALLMENT_PLAN_INVALID", "Installment plan belongs to a different sale")
	}
	if plan.Status == installment.PlanStatusCancelled {
		return shared.NewDomainError("INSTALLMENT_PLAN_INVALID", "Installment plan is cancelled")
	}
	return nil
}

// syncClaim mirrors a queue-side finance update onto the claim, when one exists
func (s *FinanceService) syncClaim(ctx context.Context, repos TransactionalRepositories, saleID uuid.UUID, req UpdateFinanceRequest) error {
	claimed, err := repos.ClaimRepo().ExistsBySaleID(ctx, saleID)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	claim, err := repos.ClaimRepo().FindBySaleID(ctx, saleID)
	if err != nil {
		return err
	}
	approvedBy := req.ApprovedBy
	if err := claim.UpdateFinance(req.Status, &approvedBy, req.Notes, req.InstallmentPlanID); err != nil {
		return err
	}
	if err := repos.ClaimRepo().SaveWithLock(ctx, claim); err != nil {
		return err
	}
	return appledger.RefreshAdjustedView(ctx, repos, claim.ID)
}
