package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/shared"
)

// RefreshAdjustedView recomputes and upserts the materialized adjusted-margin
// row for a claim. Called inside the same transaction as every write that can
// change it: adjustment insert/delete, refund, manual metrics edit, claim
// finance status change.
func RefreshAdjustedView(ctx context.Context, repos TransactionalRepositories, claimID uuid.UUID) error {
	claim, err := repos.ClaimRepo().FindByID(ctx, claimID)
	if err != nil {
		return err
	}

	metrics, err := repos.MetricsRepo().FindBySaleID(ctx, claim.SaleID)
	if err != nil {
		return err
	}

	total, err := repos.AdjustmentRepo().SumByClaimID(ctx, claimID)
	if err != nil {
		return err
	}

	return repos.AdjustedRepo().Upsert(ctx, ledger.ComputeAdjustedMetrics(claimID, metrics, total))
}

// RefreshAdjustedViewForSale refreshes the adjusted view of the claim owning
// a sale, if one exists. Sales without a claim have no adjusted row.
func RefreshAdjustedViewForSale(ctx context.Context, repos TransactionalRepositories, saleID uuid.UUID) error {
	claim, err := repos.ClaimRepo().FindBySaleID(ctx, saleID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return RefreshAdjustedView(ctx, repos, claim.ID)
}
