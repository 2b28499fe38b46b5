package objection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appledger "github.com/winroom/backend/internal/application/ledger"
	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/objection"
	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
)

// RaiseObjectionRequest carries a seller's dispute against a claimed sale
type RaiseObjectionRequest struct {
	SaleID   uuid.UUID
	RaisedBy uuid.UUID
	Reason   objection.ObjectionReason
	Details  string
}

// ResolveObjectionRequest carries an admin's resolution decision
type ResolveObjectionRequest struct {
	ObjectionID uuid.UUID
	Status      objection.ObjectionStatus
	ResolvedBy  uuid.UUID
	AdminNote   string
	Action      *objection.ResolutionAction
	ReassignTo  *uuid.UUID
}

// ObjectionResponse is the read model for an objection
type ObjectionResponse struct {
	ID         uuid.UUID                   `json:"id"`
	SaleID     uuid.UUID                   `json:"sale_id"`
	RaisedBy   uuid.UUID                   `json:"raised_by"`
	Reason     objection.ObjectionReason   `json:"reason"`
	Details    string                      `json:"details,omitempty"`
	Status     objection.ObjectionStatus   `json:"status"`
	AdminNote  string                      `json:"admin_note,omitempty"`
	Action     *objection.ResolutionAction `json:"action,omitempty"`
	ReassignTo *uuid.UUID                  `json:"reassign_to,omitempty"`
	ResolvedBy *uuid.UUID                  `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time                  `json:"resolved_at,omitempty"`
}

// ToObjectionResponse maps an objection aggregate to its response shape
func ToObjectionResponse(o *objection.Objection) ObjectionResponse {
	return ObjectionResponse{
		ID:         o.ID,
		SaleID:     o.SaleID,
		RaisedBy:   o.RaisedBy,
		Reason:     o.Reason,
		Details:    o.Details,
		Status:     o.Status,
		AdminNote:  o.AdminNote,
		Action:     o.Action,
		ReassignTo: o.ReassignTo,
		ResolvedBy: o.ResolvedBy,
		ResolvedAt: o.ResolvedAt,
	}
}

// ObjectionService handles raised disputes and dispatches the corrective
// action an accepted objection decides on.
type ObjectionService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewObjectionService creates a new ObjectionService
func NewObjectionService(scope TransactionScope, logger *zap.Logger) *ObjectionService {
	return &ObjectionService{
		scope:  scope,
		logger: logger,
	}
}

// Raise files a pending objection against a claimed sale
func (s *ObjectionService) Raise(ctx context.Context, req RaiseObjectionRequest) (*ObjectionResponse, error) {
	var response ObjectionResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		claimed, err := repos.ClaimRepo().ExistsBySaleID(ctx, req.SaleID)
		if err != nil {
			return err
		}
		if !claimed {
			return shared.NewDomainError("CLAIM_NOT_FOUND", "No claim exists for this sale")
		}

		obj, err := objection.NewObjection(req.SaleID, req.RaisedBy, req.Reason, req.Details)
		if err != nil {
			return err
		}

		if err := repos.ObjectionRepo().SaveWithLockAndEvents(ctx, obj, obj.GetDomainEvents()); err != nil {
			return err
		}
		obj.ClearDomainEvents()

		response = ToObjectionResponse(obj)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("objection raised",
		zap.String("objection_id", response.ID.String()),
		zap.String("sale_id", req.SaleID.String()),
		zap.String("reason", req.Reason.String()),
	)

	return &response, nil
}

// Resolve closes a pending objection. Accepting with an action dispatches the
// correction in the same transaction: reassignment flips the attribution to
// the target seller, exclusion removes the claim and excludes the item, and a
// refund runs the full-refund flow against the ledger.
func (s *ObjectionService) Resolve(ctx context.Context, req ResolveObjectionRequest) (*ObjectionResponse, error) {
	var response ObjectionResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		obj, err := repos.ObjectionRepo().FindByID(ctx, req.ObjectionID)
		if err != nil {
			return err
		}

		if err := obj.Resolve(req.Status, req.ResolvedBy, req.AdminNote, req.Action, req.ReassignTo); err != nil {
			return err
		}

		if obj.Status == objection.ObjectionStatusAccepted && obj.Action != nil {
			if err := s.dispatch(ctx, repos, obj); err != nil {
				return err
			}
			// Corrections move totals, so downstream goal aggregates recompute
			obj.AddDomainEvent(queue.NewGoalProgressEvent(objection.AggregateTypeObjection, obj.ID, obj.SaleID))
		}

		if err := repos.ObjectionRepo().SaveWithLockAndEvents(ctx, obj, obj.GetDomainEvents()); err != nil {
			return err
		}
		obj.ClearDomainEvents()

		response = ToObjectionResponse(obj)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("objection resolved",
		zap.String("objection_id", req.ObjectionID.String()),
		zap.String("status", req.Status.String()),
	)

	return &response, nil
}

// GetByID returns an objection
func (s *ObjectionService) GetByID(ctx context.Context, id uuid.UUID) (*ObjectionResponse, error) {
	var response *ObjectionResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		obj, err := repos.ObjectionRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		r := ToObjectionResponse(obj)
		response = &r
		return nil
	})
	return response, err
}

// ListPending returns objections awaiting review
func (s *ObjectionService) ListPending(ctx context.Context, filter shared.Filter) ([]ObjectionResponse, error) {
	var responses []ObjectionResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		objections, err := repos.ObjectionRepo().FindByStatus(ctx, objection.ObjectionStatusPending, filter)
		if err != nil {
			return err
		}
		responses = make([]ObjectionResponse, len(objections))
		for i := range objections {
			responses[i] = ToObjectionResponse(&objections[i])
		}
		return nil
	})
	return responses, err
}

func (s *ObjectionService) dispatch(ctx context.Context, repos TransactionalRepositories, obj *objection.Objection) error {
	switch *obj.Action {
	case objection.ResolutionActionReassign:
		return s.reassign(ctx, repos, obj)
	case objection.ResolutionActionExclude:
		return s.exclude(ctx, repos, obj)
	case objection.ResolutionActionRefund:
		return s.refund(ctx, repos, obj)
	}
	return shared.NewDomainError("INVALID_ACTION", "Invalid resolution action")
}

func (s *ObjectionService) reassign(ctx context.Context, repos TransactionalRepositories, obj *objection.Objection) error {
	attr, err := repos.AttributionRepo().FindBySaleID(ctx, obj.SaleID)
	if err != nil {
		return err
	}
	if err := attr.Reassign(*obj.ReassignTo); err != nil {
		return err
	}

	claim, err := repos.ClaimRepo().FindBySaleID(ctx, obj.SaleID)
	if err != nil {
		return err
	}
	if err := claim.SetDisplayOwner(*obj.ReassignTo); err != nil {
		return err
	}
	claim.AddDomainEvent(queue.NewItemClaimedEvent(claim, true))

	if err := repos.AttributionRepo().SaveWithLockAndEvents(ctx, attr, attr.GetDomainEvents()); err != nil {
		return err
	}
	attr.ClearDomainEvents()

	if err := repos.ClaimRepo().SaveWithLockAndEvents(ctx, claim, claim.GetDomainEvents()); err != nil {
		return err
	}
	claim.ClearDomainEvents()

	return appledger.RefreshAdjustedView(ctx, repos, claim.ID)
}

func (s *ObjectionService) exclude(ctx context.Context, repos TransactionalRepositories, obj *objection.Objection) error {
	claim, err := repos.ClaimRepo().FindBySaleID(ctx, obj.SaleID)
	if err != nil {
		return err
	}

	if err := repos.AdjustmentRepo().DeleteByClaimID(ctx, claim.ID); err != nil {
		return err
	}
	if err := repos.AdjustedRepo().DeleteByClaimID(ctx, claim.ID); err != nil {
		return err
	}
	if err := repos.ClaimRepo().Delete(ctx, claim.ID); err != nil {
		return err
	}
	if err := repos.AttributionRepo().DeleteBySaleID(ctx, obj.SaleID); err != nil {
		return err
	}

	item, err := repos.QueueItemRepo().FindBySaleID(ctx, obj.SaleID)
	if err != nil {
		return err
	}
	if err := item.ReleaseClaim(); err != nil {
		return err
	}
	reason := fmt.Sprintf("Objection accepted: %s", obj.Reason)
	if err := item.Exclude(reason, *obj.ResolvedBy); err != nil {
		return err
	}
	if err := repos.QueueItemRepo().SaveWithLockAndEvents(ctx, item, item.GetDomainEvents()); err != nil {
		return err
	}
	item.ClearDomainEvents()

	return nil
}

func (s *ObjectionService) refund(ctx context.Context, repos TransactionalRepositories, obj *objection.Objection) error {
	_, err := appledger.ApplyRefundWithRepos(ctx, repos, appledger.ApplyRefundRequest{
		SaleID:     obj.SaleID,
		RefundType: ledger.RefundTypeFull,
		Reason:     fmt.Sprintf("Objection accepted: %s", obj.Reason),
		Actor:      *obj.ResolvedBy,
	})
	return err
}
