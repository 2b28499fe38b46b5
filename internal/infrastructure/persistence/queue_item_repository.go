package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/infrastructure/persistence/models"
)

// GormQueueItemRepository implements QueueItemRepository using GORM
type GormQueueItemRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormQueueItemRepository creates a new GormQueueItemRepository
func NewGormQueueItemRepository(db *gorm.DB) *GormQueueItemRepository {
	return &GormQueueItemRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormQueueItemRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a queue item by its ID
func (r *GormQueueItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*queue.QueueItem, error) {
	var model models.QueueItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySaleID finds the queue item for a sale
func (r *GormQueueItemRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*queue.QueueItem, error) {
	var model models.QueueItemModel
	if err := r.db.WithContext(ctx).First(&model, "sale_id = ?", saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySaleIDForUpdate finds the queue item for a sale with a row-level lock.
// Must run inside a transaction; concurrent claimers of the same sale
// serialize on this lock.
func (r *GormQueueItemRepository) FindBySaleIDForUpdate(ctx context.Context, saleID uuid.UUID) (*queue.QueueItem, error) {
	var model models.QueueItemModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "sale_id = ?", saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPendingByFingerprint finds a pending item with the given sale fingerprint
func (r *GormQueueItemRepository) FindPendingByFingerprint(ctx context.Context, fingerprint string) (*queue.QueueItem, error) {
	var model models.QueueItemModel
	if err := r.db.WithContext(ctx).
		Where("fingerprint = ? AND status = ?", fingerprint, queue.ItemStatusPending).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStatus finds queue items by status with filtering
func (r *GormQueueItemRepository) FindByStatus(ctx context.Context, status queue.ItemStatus, filter shared.Filter) ([]queue.QueueItem, error) {
	var itemModels []models.QueueItemModel

	query := r.db.WithContext(ctx).Model(&models.QueueItemModel{}).
		Where("status = ?", status)
	query = r.applyFilter(query, filter)

	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]queue.QueueItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// FindPendingSince finds pending items queued at or after the given time
func (r *GormQueueItemRepository) FindPendingSince(ctx context.Context, since time.Time, filter shared.Filter) ([]queue.QueueItem, error) {
	var itemModels []models.QueueItemModel

	query := r.db.WithContext(ctx).Model(&models.QueueItemModel{}).
		Where("status = ? AND created_at >= ?", queue.ItemStatusPending, since)
	query = r.applyFilter(query, filter)

	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]queue.QueueItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// Save creates or updates a queue item
func (r *GormQueueItemRepository) Save(ctx context.Context, item *queue.QueueItem) error {
	model := models.QueueItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormQueueItemRepository) SaveWithLock(ctx context.Context, item *queue.QueueItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithLockTx(tx, item)
	})
}

// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
// This implements the transactional outbox pattern - events are saved to the outbox table
// in the same transaction as the aggregate, ensuring guaranteed event delivery
func (r *GormQueueItemRepository) SaveWithLockAndEvents(ctx context.Context, item *queue.QueueItem, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(tx, item); err != nil {
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

func (r *GormQueueItemRepository) saveWithLockTx(tx *gorm.DB, item *queue.QueueItem) error {
	// Get current version from database
	var currentVersion int
	if err := tx.Model(&models.QueueItemModel{}).
		Where("id = ?", item.ID).
		Select("version").
		Scan(&currentVersion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}

	// Check version matches
	if currentVersion != item.Version {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The queue item has been modified by another user")
	}

	// Increment version
	item.Version++
	item.UpdatedAt = time.Now()

	// Update item with version check
	result := tx.Model(&models.QueueItemModel{}).
		Where("id = ? AND version = ?", item.ID, currentVersion).
		Updates(map[string]interface{}{
			"status":              item.Status,
			"finance_status":      item.Finance.Status,
			"finance_approved_by": item.Finance.ApprovedBy,
			"finance_notes":       item.Finance.Notes,
			"installment_plan_id": item.Finance.InstallmentPlanID,
			"finance_updated_at":  item.Finance.UpdatedAt,
			"excluded_reason":     item.ExcludedReason,
			"excluded_by":         item.ExcludedBy,
			"excluded_at":         item.ExcludedAt,
			"version":             item.Version,
			"updated_at":          item.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The queue item has been modified by another user")
	}

	return nil
}

// CountByStatus counts queue items by status
func (r *GormQueueItemRepository) CountByStatus(ctx context.Context, status queue.ItemStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.QueueItemModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormQueueItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, QueueItemSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

// Ensure GormQueueItemRepository implements QueueItemRepository
var _ queue.QueueItemRepository = (*GormQueueItemRepository)(nil)
