package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/winroom/backend/internal/domain/ledger"
)

// ApplyRefundRequest carries the input for registering a refund against a sale
type ApplyRefundRequest struct {
	SaleID     uuid.UUID
	RefundType ledger.RefundType
	AmountUSD  *decimal.Decimal
	Reason     string
	Actor      uuid.UUID
}

// RefundResponse reports the refund outcome with before and after figures
type RefundResponse struct {
	SaleID           uuid.UUID         `json:"sale_id"`
	RefundType       ledger.RefundType `json:"refund_type"`
	AmountUSD        decimal.Decimal   `json:"amount_usd"`
	IsFull           bool              `json:"is_full"`
	RevenueBeforeUSD decimal.Decimal   `json:"revenue_before_usd"`
	RevenueAfterUSD  decimal.Decimal   `json:"revenue_after_usd"`
	MarginBeforeUSD  decimal.Decimal   `json:"margin_before_usd"`
	MarginAfterUSD   decimal.Decimal   `json:"margin_after_usd"`
}

// RefundService registers partial and full refunds against the ledger
type RefundService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewRefundService creates a new RefundService
func NewRefundService(scope TransactionScope, logger *zap.Logger) *RefundService {
	return &RefundService{
		scope:  scope,
		logger: logger,
	}
}

// ApplyRefund registers a refund for a sale. A full refund also marks the
// claim's finance state as a problem, writes the refund marker that drops the
// sale from reporting, and moves the queue item to its terminal state. A
// partial refund only reduces the metrics and clears any prior full marker.
func (s *RefundService) ApplyRefund(ctx context.Context, req ApplyRefundRequest) (*RefundResponse, error) {
	var response *RefundResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := ApplyRefundWithRepos(ctx, repos, req)
		if err != nil {
			return err
		}
		response = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("refund applied",
		zap.String("sale_id", req.SaleID.String()),
		zap.String("refund_type", req.RefundType.String()),
		zap.String("amount_usd", response.AmountUSD.String()),
		zap.Bool("is_full", response.IsFull),
	)

	return response, nil
}

// ApplyRefundWithRepos runs the refund inside an already open transaction.
// Callers that fold a refund into a wider workflow reuse this with their own
// repository set.
func ApplyRefundWithRepos(ctx context.Context, repos TransactionalRepositories, req ApplyRefundRequest) (*RefundResponse, error) {
	metrics, err := repos.MetricsRepo().FindBySaleID(ctx, req.SaleID)
	if err != nil {
		return nil, err
	}

	amount, err := ledger.ResolveRefundAmount(req.RefundType, req.AmountUSD, metrics.RevenueUSD)
	if err != nil {
		return nil, err
	}

	outcome, err := metrics.ApplyRefund(amount)
	if err != nil {
		return nil, err
	}

	if outcome.IsFull {
		if err := applyFullRefund(ctx, repos, req, amount); err != nil {
			return nil, err
		}
	} else {
		if err := applyPartialRefund(ctx, repos, req, amount); err != nil {
			return nil, err
		}
	}

	if err := repos.MetricsRepo().SaveWithLockAndEvents(ctx, metrics, metrics.GetDomainEvents()); err != nil {
		return nil, err
	}
	metrics.ClearDomainEvents()

	if err := RefreshAdjustedViewForSale(ctx, repos, req.SaleID); err != nil {
		return nil, err
	}

	return &RefundResponse{
		SaleID:           req.SaleID,
		RefundType:       req.RefundType,
		AmountUSD:        amount,
		IsFull:           outcome.IsFull,
		RevenueBeforeUSD: outcome.BeforeRevenue,
		RevenueAfterUSD:  outcome.AfterRevenue,
		MarginBeforeUSD:  outcome.BeforeMargin,
		MarginAfterUSD:   outcome.AfterMargin,
	}, nil
}

func applyFullRefund(ctx context.Context, repos TransactionalRepositories, req ApplyRefundRequest, amount decimal.Decimal) error {
	refund, err := ledger.NewRefund(req.SaleID, req.RefundType, amount, req.Reason, true, req.Actor)
	if err != nil {
		return err
	}
	if err := repos.RefundRepo().Upsert(ctx, refund); err != nil {
		return err
	}

	claimed, err := repos.ClaimRepo().ExistsBySaleID(ctx, req.SaleID)
	if err != nil {
		return err
	}
	if claimed {
		claim, err := repos.ClaimRepo().FindBySaleID(ctx, req.SaleID)
		if err != nil {
			return err
		}
		claim.MarkFinanceProblem(fmt.Sprintf("Full refund of %s USD: %s", amount.StringFixed(2), req.Reason))
		if err := repos.ClaimRepo().SaveWithLock(ctx, claim); err != nil {
			return err
		}
	}

	item, err := repos.QueueItemRepo().FindBySaleID(ctx, req.SaleID)
	if err != nil {
		return err
	}
	if err := item.MarkRefunded(); err != nil {
		return err
	}
	return repos.QueueItemRepo().SaveWithLock(ctx, item)
}

func applyPartialRefund(ctx context.Context, repos TransactionalRepositories, req ApplyRefundRequest, amount decimal.Decimal) error {
	// A partial refund after a full one reverses the reporting exclusion.
	if err := repos.RefundRepo().DeleteBySaleID(ctx, req.SaleID); err != nil {
		return err
	}

	claimed, err := repos.ClaimRepo().ExistsBySaleID(ctx, req.SaleID)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}
	claim, err := repos.ClaimRepo().FindBySaleID(ctx, req.SaleID)
	if err != nil {
		return err
	}
	claim.Finance.AppendNote(fmt.Sprintf("Partial refund of %s USD: %s", amount.StringFixed(2), req.Reason))
	claim.Touch()
	return repos.ClaimRepo().SaveWithLock(ctx, claim)
}
