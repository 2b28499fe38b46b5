package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/winroom/backend/internal/domain/objection"
	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/infrastructure/persistence/models"
)

// GormObjectionRepository implements ObjectionRepository using GORM
type GormObjectionRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormObjectionRepository creates a new GormObjectionRepository
func NewGormObjectionRepository(db *gorm.DB) *GormObjectionRepository {
	return &GormObjectionRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormObjectionRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds an objection by its ID
func (r *GormObjectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*objection.Objection, error) {
	var model models.ObjectionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySaleID finds all objections for a sale, newest first
func (r *GormObjectionRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) ([]objection.Objection, error) {
	var objectionModels []models.ObjectionModel
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("created_at DESC").
		Find(&objectionModels).Error; err != nil {
		return nil, err
	}
	objections := make([]objection.Objection, len(objectionModels))
	for i, model := range objectionModels {
		objections[i] = *model.ToDomain()
	}
	return objections, nil
}

// FindByStatus finds objections by status with filtering
func (r *GormObjectionRepository) FindByStatus(ctx context.Context, status objection.ObjectionStatus, filter shared.Filter) ([]objection.Objection, error) {
	var objectionModels []models.ObjectionModel

	query := r.db.WithContext(ctx).Model(&models.ObjectionModel{}).
		Where("status = ?", status)
	query = r.applyFilter(query, filter)

	if err := query.Find(&objectionModels).Error; err != nil {
		return nil, err
	}
	objections := make([]objection.Objection, len(objectionModels))
	for i, model := range objectionModels {
		objections[i] = *model.ToDomain()
	}
	return objections, nil
}

// Save creates or updates an objection
func (r *GormObjectionRepository) Save(ctx context.Context, o *objection.Objection) error {
	model := models.ObjectionModelFromDomain(o)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormObjectionRepository) SaveWithLock(ctx context.Context, o *objection.Objection) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithLockTx(tx, o)
	})
}

// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
func (r *GormObjectionRepository) SaveWithLockAndEvents(ctx context.Context, o *objection.Objection, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(tx, o); err != nil {
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

func (r *GormObjectionRepository) saveWithLockTx(tx *gorm.DB, o *objection.Objection) error {
	// Get current version from database
	var currentVersion int
	if err := tx.Model(&models.ObjectionModel{}).
		Where("id = ?", o.ID).
		Select("version").
		Scan(&currentVersion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}

	// Check version matches
	if currentVersion != o.Version {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The objection has been modified by another user")
	}

	// Increment version
	o.Version++
	o.UpdatedAt = time.Now()

	// Update objection with version check
	result := tx.Model(&models.ObjectionModel{}).
		Where("id = ? AND version = ?", o.ID, currentVersion).
		Updates(map[string]interface{}{
			"status":      o.Status,
			"admin_note":  o.AdminNote,
			"action":      o.Action,
			"reassign_to": o.ReassignTo,
			"resolved_by": o.ResolvedBy,
			"resolved_at": o.ResolvedAt,
			"version":     o.Version,
			"updated_at":  o.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The objection has been modified by another user")
	}

	return nil
}

// CountPending counts objections awaiting review
func (r *GormObjectionRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ObjectionModel{}).
		Where("status = ?", objection.ObjectionStatusPending).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormObjectionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, ObjectionSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

// Ensure GormObjectionRepository implements ObjectionRepository
var _ objection.ObjectionRepository = (*GormObjectionRepository)(nil)
