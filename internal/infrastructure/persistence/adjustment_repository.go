package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/infrastructure/persistence/models"
)

// GormAdjustmentRepository implements AdjustmentRepository using GORM.
// Adjustments are append-only; there is no update path.
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// FindByID finds an adjustment by its ID
func (r *GormAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Adjustment, error) {
	var model models.AdjustmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByClaimID finds all adjustments for a claim, oldest first
func (r *GormAdjustmentRepository) FindByClaimID(ctx context.Context, claimID uuid.UUID) ([]ledger.Adjustment, error) {
	var adjustmentModels []models.AdjustmentModel
	if err := r.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("created_at ASC").
		Find(&adjustmentModels).Error; err != nil {
		return nil, err
	}
	adjustments := make([]ledger.Adjustment, len(adjustmentModels))
	for i, model := range adjustmentModels {
		adjustments[i] = *model.ToDomain()
	}
	return adjustments, nil
}

// SumByClaimID returns the running adjustment total for a claim
func (r *GormAdjustmentRepository) SumByClaimID(ctx context.Context, claimID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&models.AdjustmentModel{}).
		Where("claim_id = ?", claimID).
		Select("COALESCE(SUM(additional_cost_usd), 0)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Save inserts an adjustment
func (r *GormAdjustmentRepository) Save(ctx context.Context, a *ledger.Adjustment) error {
	model := models.AdjustmentModelFromDomain(a)
	return r.db.WithContext(ctx).Create(model).Error
}

// DeleteByClaimID removes all adjustments for a claim
func (r *GormAdjustmentRepository) DeleteByClaimID(ctx context.Context, claimID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Delete(&models.AdjustmentModel{}).Error
}

// Ensure GormAdjustmentRepository implements AdjustmentRepository
var _ ledger.AdjustmentRepository = (*GormAdjustmentRepository)(nil)
