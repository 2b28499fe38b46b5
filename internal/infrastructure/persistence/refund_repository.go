package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/infrastructure/persistence/models"
)

// GormRefundRepository implements RefundRepository using GORM.
// Each sale carries at most one refund marker; repeated refund requests
// replace the existing row.
type GormRefundRepository struct {
	db *gorm.DB
}

// NewGormRefundRepository creates a new GormRefundRepository
func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

// FindBySaleID finds the refund marker for a sale
func (r *GormRefundRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*ledger.Refund, error) {
	var model models.RefundModel
	if err := r.db.WithContext(ctx).First(&model, "sale_id = ?", saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsBySaleID checks whether a refund marker exists for a sale
func (r *GormRefundRepository) ExistsBySaleID(ctx context.Context, saleID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RefundModel{}).
		Where("sale_id = ?", saleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Upsert creates or replaces the refund marker for a sale
func (r *GormRefundRepository) Upsert(ctx context.Context, refund *ledger.Refund) error {
	model := models.RefundModelFromDomain(refund)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sale_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"refund_type", "amount_usd", "reason", "is_full", "requested_by", "updated_at",
			}),
		}).
		Create(model).Error
}

// DeleteBySaleID removes the refund marker for a sale
func (r *GormRefundRepository) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Delete(&models.RefundModel{}).Error
}

// Ensure GormRefundRepository implements RefundRepository
var _ ledger.RefundRepository = (*GormRefundRepository)(nil)
