package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/infrastructure/persistence/models"
)

// GormAdjustedMetricsRepository implements AdjustedMetricsRepository using GORM.
// The table is a materialized per-claim view rewritten on every refresh.
type GormAdjustedMetricsRepository struct {
	db *gorm.DB
}

// NewGormAdjustedMetricsRepository creates a new GormAdjustedMetricsRepository
func NewGormAdjustedMetricsRepository(db *gorm.DB) *GormAdjustedMetricsRepository {
	return &GormAdjustedMetricsRepository{db: db}
}

// FindByClaimID finds the adjusted view row for a claim
func (r *GormAdjustedMetricsRepository) FindByClaimID(ctx context.Context, claimID uuid.UUID) (*ledger.AdjustedMetrics, error) {
	var model models.AdjustedMetricsModel
	if err := r.db.WithContext(ctx).First(&model, "claim_id = ?", claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	am := model.ToDomain()
	return &am, nil
}

// Upsert writes the refreshed view row
func (r *GormAdjustedMetricsRepository) Upsert(ctx context.Context, am ledger.AdjustedMetrics) error {
	model := models.AdjustedMetricsModelFromDomain(am)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "claim_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"original_margin_usd", "total_adjustments_usd", "adjusted_margin_usd",
				"adjusted_margin_percent", "refreshed_at",
			}),
		}).
		Create(model).Error
}

// DeleteByClaimID removes the view row when a claim is deleted
func (r *GormAdjustedMetricsRepository) DeleteByClaimID(ctx context.Context, claimID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Delete(&models.AdjustedMetricsModel{}).Error
}

// SumMarginBySeller aggregates adjusted margin per closing seller over a time
// window. Sales with a full refund marker are excluded from the totals.
func (r *GormAdjustedMetricsRepository) SumMarginBySeller(ctx context.Context, from, to time.Time) ([]ledger.SellerMarginTotal, error) {
	var totals []ledger.SellerMarginTotal
	if err := r.db.WithContext(ctx).
		Table("adjusted_metrics").
		Select("claims.claimed_by AS seller_id, COALESCE(SUM(adjusted_metrics.adjusted_margin_usd), 0) AS adjusted_margin_usd, COUNT(*) AS sale_count").
		Joins("JOIN claims ON claims.id = adjusted_metrics.claim_id").
		Where("claims.claimed_at >= ? AND claims.claimed_at < ?", from, to).
		Where("NOT EXISTS (SELECT 1 FROM refunds WHERE refunds.sale_id = adjusted_metrics.sale_id AND refunds.is_full)").
		Group("claims.claimed_by").
		Order("adjusted_margin_usd DESC").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// Ensure GormAdjustedMetricsRepository implements AdjustedMetricsRepository
var _ ledger.AdjustedMetricsRepository = (*GormAdjustedMetricsRepository)(nil)
