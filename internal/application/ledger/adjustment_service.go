package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/winroom/backend/internal/domain/ledger"
)

// AddAdjustmentRequest carries the input for recording a cost adjustment
type AddAdjustmentRequest struct {
	ClaimID           uuid.UUID
	AdditionalCostUSD decimal.Decimal
	Reason            ledger.AdjustmentReason
	Notes             string
	Actor             uuid.UUID
}

// AdjustmentResponse is the read model for an adjustment
type AdjustmentResponse struct {
	ID                uuid.UUID               `json:"id"`
	ClaimID           uuid.UUID               `json:"claim_id"`
	AdditionalCostUSD decimal.Decimal         `json:"additional_cost_usd"`
	Reason            ledger.AdjustmentReason `json:"reason"`
	Notes             string                  `json:"notes,omitempty"`
}

// AdjustedMetricsResponse is the read model for the adjusted margin view
type AdjustedMetricsResponse struct {
	ClaimID               uuid.UUID       `json:"claim_id"`
	SaleID                uuid.UUID       `json:"sale_id"`
	OriginalMarginUSD     decimal.Decimal `json:"original_margin_usd"`
	TotalAdjustmentsUSD   decimal.Decimal `json:"total_adjustments_usd"`
	AdjustedMarginUSD     decimal.Decimal `json:"adjusted_margin_usd"`
	AdjustedMarginPercent decimal.Decimal `json:"adjusted_margin_percent"`
}

// AdjustmentService records cost corrections against a claim's margin, under
// the cap that the running total never exceeds the original margin.
type AdjustmentService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewAdjustmentService creates a new AdjustmentService
func NewAdjustmentService(scope TransactionScope, logger *zap.Logger) *AdjustmentService {
	return &AdjustmentService{
		scope:  scope,
		logger: logger,
	}
}

// AddAdjustment checks the margin cap and inserts the adjustment, refreshing
// the adjusted view in the same transaction.
func (s *AdjustmentService) AddAdjustment(ctx context.Context, req AddAdjustmentRequest) (*AdjustmentResponse, error) {
	adj, err := ledger.NewAdjustment(req.ClaimID, req.AdditionalCostUSD, req.Reason, req.Notes, req.Actor)
	if err != nil {
		return nil, err
	}

	var response AdjustmentResponse

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		claim, err := repos.ClaimRepo().FindByID(ctx, req.ClaimID)
		if err != nil {
			return err
		}
		metrics, err := repos.MetricsRepo().FindBySaleID(ctx, claim.SaleID)
		if err != nil {
			return err
		}
		existing, err := repos.AdjustmentRepo().SumByClaimID(ctx, req.ClaimID)
		if err != nil {
			return err
		}
		if err := ledger.ValidateAdjustmentCap(metrics.MarginAmountUSD, existing, req.AdditionalCostUSD); err != nil {
			return err
		}

		if err := repos.AdjustmentRepo().Save(ctx, adj); err != nil {
			return err
		}
		if err := RefreshAdjustedView(ctx, repos, req.ClaimID); err != nil {
			return err
		}

		response = AdjustmentResponse{
			ID:                adj.ID,
			ClaimID:           adj.ClaimID,
			AdditionalCostUSD: adj.AdditionalCostUSD,
			Reason:            adj.Reason,
			Notes:             adj.Notes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("adjustment recorded",
		zap.String("claim_id", req.ClaimID.String()),
		zap.String("cost_usd", req.AdditionalCostUSD.String()),
		zap.String("reason", string(req.Reason)),
	)

	return &response, nil
}

// RemoveAllAdjustments deletes every adjustment for a claim and refreshes the
// adjusted view.
func (s *AdjustmentService) RemoveAllAdjustments(ctx context.Context, claimID, actor uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.AdjustmentRepo().DeleteByClaimID(ctx, claimID); err != nil {
			return err
		}
		return RefreshAdjustedView(ctx, repos, claimID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("adjustments cleared",
		zap.String("claim_id", claimID.String()),
		zap.String("actor", actor.String()),
	)
	return nil
}

// ListByClaim returns all adjustments for a claim
func (s *AdjustmentService) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]AdjustmentResponse, error) {
	var responses []AdjustmentResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		adjs, err := repos.AdjustmentRepo().FindByClaimID(ctx, claimID)
		if err != nil {
			return err
		}
		responses = make([]AdjustmentResponse, 0, len(adjs))
		for _, a := range adjs {
			responses = append(responses, AdjustmentResponse{
				ID:                a.ID,
				ClaimID:           a.ClaimID,
				AdditionalCostUSD: a.AdditionalCostUSD,
				Reason:            a.Reason,
				Notes:             a.Notes,
			})
		}
		return nil
	})
	return responses, err
}

// GetAdjustedMetrics returns the materialized adjusted view for a claim
func (s *AdjustmentService) GetAdjustedMetrics(ctx context.Context, claimID uuid.UUID) (*AdjustedMetricsResponse, error) {
	var response *AdjustedMetricsResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		am, err := repos.AdjustedRepo().FindByClaimID(ctx, claimID)
		if err != nil {
			return err
		}
		response = &AdjustedMetricsResponse{
			ClaimID:               am.ClaimID,
			SaleID:                am.SaleID,
			OriginalMarginUSD:     am.OriginalMarginUSD,
			TotalAdjustmentsUSD:   am.TotalAdjustmentsUSD,
			AdjustedMarginUSD:     am.AdjustedMarginUSD,
			AdjustedMarginPercent: am.AdjustedMarginPercent,
		}
		return nil
	})
	return response, err
}
