package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/infrastructure/persistence/models"
)

// GormClaimRepository implements ClaimRepository using GORM
type GormClaimRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormClaimRepository creates a new GormClaimRepository
func NewGormClaimRepository(db *gorm.DB) *GormClaimRepository {
	return &GormClaimRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormClaimRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a claim by its ID
func (r *GormClaimRepository) FindByID(ctx context.Context, id uuid.UUID) (*queue.Claim, error) {
	var model models.ClaimModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySaleID finds the claim for a sale
func (r *GormClaimRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*queue.Claim, error) {
	var model models.ClaimModel
	if err := r.db.WithContext(ctx).First(&model, "sale_id = ?", saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySeller finds claims made by a seller with filtering
func (r *GormClaimRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]queue.Claim, error) {
	var claimModels []models.ClaimModel

	query := r.db.WithContext(ctx).Model(&models.ClaimModel{}).
		Where("claimed_by = ?", sellerID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&claimModels).Error; err != nil {
		return nil, err
	}
	claims := make([]queue.Claim, len(claimModels))
	for i, model := range claimModels {
		claims[i] = *model.ToDomain()
	}
	return claims, nil
}

// FindByFinanceStatus finds claims by finance status with filtering
func (r *GormClaimRepository) FindByFinanceStatus(ctx context.Context, status queue.FinanceStatus, filter shared.Filter) ([]queue.Claim, error) {
	var claimModels []models.ClaimModel

	query := r.db.WithContext(ctx).Model(&models.ClaimModel{}).
		Where("finance_status = ?", status)
	query = r.applyFilter(query, filter)

	if err := query.Find(&claimModels).Error; err != nil {
		return nil, err
	}
	claims := make([]queue.Claim, len(claimModels))
	for i, model := range claimModels {
		claims[i] = *model.ToDomain()
	}
	return claims, nil
}

// FindClaimedBetween finds claims made within the given time range
func (r *GormClaimRepository) FindClaimedBetween(ctx context.Context, from, to time.Time, filter shared.Filter) ([]queue.Claim, error) {
	var claimModels []models.ClaimModel

	query := r.db.WithContext(ctx).Model(&models.ClaimModel{}).
		Where("claimed_at >= ? AND claimed_at < ?", from, to)
	query = r.applyFilter(query, filter)

	if err := query.Find(&claimModels).Error; err != nil {
		return nil, err
	}
	claims := make([]queue.Claim, len(claimModels))
	for i, model := range claimModels {
		claims[i] = *model.ToDomain()
	}
	return claims, nil
}

// Save creates or updates a claim
func (r *GormClaimRepository) Save(ctx context.Context, claim *queue.Claim) error {
	model := models.ClaimModelFromDomain(claim)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormClaimRepository) SaveWithLock(ctx context.Context, claim *queue.Claim) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithLockTx(tx, claim)
	})
}

// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
func (r *GormClaimRepository) SaveWithLockAndEvents(ctx context.Context, claim *queue.Claim, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(tx, claim); err != nil {
			return err
		}

		// Save events to outbox within the same transaction
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
}

func (r *GormClaimRepository) saveWithLockTx(tx *gorm.DB, claim *queue.Claim) error {
	// Get current version from database
	var currentVersion int
	if err := tx.Model(&models.ClaimModel{}).
		Where("id = ?", claim.ID).
		Select("version").
		Scan(&currentVersion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}

	// Check version matches
	if currentVersion != claim.Version {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The claim has been modified by another user")
	}

	// Increment version
	claim.Version++
	claim.UpdatedAt = time.Now()

	// Update claim with version check
	result := tx.Model(&models.ClaimModel{}).
		Where("id = ? AND version = ?", claim.ID, currentVersion).
		Updates(map[string]interface{}{
			"claimed_by":          claim.ClaimedBy,
			"claim_type":          claim.ClaimType,
			"attribution_source":  claim.AttributionSource,
			"finance_status":      claim.Finance.Status,
			"finance_approved_by": claim.Finance.ApprovedBy,
			"finance_notes":       claim.Finance.Notes,
			"installment_plan_id": claim.InstallmentPlanID,
			"finance_updated_at":  claim.Finance.UpdatedAt,
			"version":             claim.Version,
			"updated_at":          claim.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The claim has been modified by another user")
	}

	return nil
}

// ExistsBySaleID checks whether a claim already exists for a sale
func (r *GormClaimRepository) ExistsBySaleID(ctx context.Context, saleID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ClaimModel{}).
		Where("sale_id = ?", saleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes a claim. Only accepted objections do this.
func (r *GormClaimRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ClaimModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountBySeller counts claims made by a seller
func (r *GormClaimRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ClaimModel{}).
		Where("claimed_by = ?", sellerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormClaimRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, ClaimSortFields, "claimed_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

// Ensure GormClaimRepository implements ClaimRepository
var _ queue.ClaimRepository = (*GormClaimRepository)(nil)
