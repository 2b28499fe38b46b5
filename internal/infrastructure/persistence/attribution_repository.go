package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/winroom/backend/internal/domain/attribution"
	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/infrastructure/persistence/models"
)

// GormAttributionRepository implements AttributionRepository using GORM.
// Every save regenerates the per-seller share entry fan-out so reporting sums
// always see the current split.
type GormAttributionRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormAttributionRepository creates a new GormAttributionRepository
func NewGormAttributionRepository(db *gorm.DB) *GormAttributionRepository {
	return &GormAttributionRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormAttributionRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds an attribution by its ID
func (r *GormAttributionRepository) FindByID(ctx context.Context, id uuid.UUID) (*attribution.Attribution, error) {
	var model models.AttributionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySaleID finds the attribution for a sale
func (r *GormAttributionRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*attribution.Attribution, error) {
	var model models.AttributionModel
	if err := r.db.WithContext(ctx).First(&model, "sale_id = ?", saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByClaimID finds the attribution for a claim
func (r *GormAttributionRepository) FindByClaimID(ctx context.Context, claimID uuid.UUID) (*attribution.Attribution, error) {
	var model models.AttributionModel
	if err := r.db.WithContext(ctx).First(&model, "claim_id = ?", claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an attribution and regenerates its share entries
func (r *GormAttributionRepository) Save(ctx context.Context, a *attribution.Attribution) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.AttributionModelFromDomain(a)
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return r.regenerateShareEntries(tx, a)
	})
}

// SaveWithLock saves with optimistic locking (version check) and regenerates
// share entries
func (r *GormAttributionRepository) SaveWithLock(ctx context.Context, a *attribution.Attribution) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithLockTx(tx, a)
	})
}

// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
func (r *GormAttributionRepository) SaveWithLockAndEvents(ctx context.Context, a *attribution.Attribution, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(tx, a); err != nil {
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

func (r *GormAttributionRepository) saveWithLockTx(tx *gorm.DB, a *attribution.Attribution) error {
	// Get current version from database
	var currentVersion int
	if err := tx.Model(&models.AttributionModel{}).
		Where("id = ?", a.ID).
		Select("version").
		Scan(&currentVersion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}

	// Check version matches
	if currentVersion != a.Version {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The attribution has been modified by another user")
	}

	// Increment version
	a.Version++
	a.UpdatedAt = time.Now()

	// Update attribution with version check
	result := tx.Model(&models.AttributionModel{}).
		Where("id = ? AND version = ?", a.ID, currentVersion).
		Updates(map[string]interface{}{
			"closer_seller_id":   a.CloserSellerID,
			"assisted_seller_id": a.AssistedSellerID,
			"closer_share":       a.CloserShare,
			"assisted_share":     a.AssistedShare,
			"resolved_from":      a.ResolvedFrom,
			"version":            a.Version,
			"updated_at":         a.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The attribution has been modified by another user")
	}

	return r.regenerateShareEntries(tx, a)
}

// regenerateShareEntries replaces the fan-out rows for the attribution
func (r *GormAttributionRepository) regenerateShareEntries(tx *gorm.DB, a *attribution.Attribution) error {
	if err := tx.Where("attribution_id = ?", a.ID).
		Delete(&models.ShareEntryModel{}).Error; err != nil {
		return err
	}
	for _, entry := range a.ShareEntries() {
		if err := tx.Create(models.ShareEntryModelFromDomain(entry)).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteBySaleID deletes the attribution and its share entries for a sale
func (r *GormAttributionRepository) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", saleID).
			Delete(&models.ShareEntryModel{}).Error; err != nil {
			return err
		}
		return tx.Where("sale_id = ?", saleID).
			Delete(&models.AttributionModel{}).Error
	})
}

// FindShareEntriesBySale returns the current fan-out rows for a sale
func (r *GormAttributionRepository) FindShareEntriesBySale(ctx context.Context, saleID uuid.UUID) ([]attribution.ShareEntry, error) {
	var entryModels []models.ShareEntryModel
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("role ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]attribution.ShareEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = model.ToDomain()
	}
	return entries, nil
}

// SumSharesBySeller aggregates share totals per seller over a time window.
// Sales with a full refund marker are excluded from the totals.
func (r *GormAttributionRepository) SumSharesBySeller(ctx context.Context, from, to time.Time) ([]attribution.SellerShareTotal, error) {
	var totals []attribution.SellerShareTotal
	if err := r.db.WithContext(ctx).
		Table("attribution_share_entries").
		Select("attribution_share_entries.seller_id AS seller_id, COALESCE(SUM(attribution_share_entries.share), 0) AS total_share, COUNT(*) AS sale_count").
		Joins("JOIN claims ON claims.sale_id = attribution_share_entries.sale_id").
		Where("claims.claimed_at >= ? AND claims.claimed_at < ?", from, to).
		Where("NOT EXISTS (SELECT 1 FROM refunds WHERE refunds.sale_id = attribution_share_entries.sale_id AND refunds.is_full)").
		Group("attribution_share_entries.seller_id").
		Order("total_share DESC").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// Ensure GormAttributionRepository implements AttributionRepository
var _ attribution.AttributionRepository = (*GormAttributionRepository)(nil)
