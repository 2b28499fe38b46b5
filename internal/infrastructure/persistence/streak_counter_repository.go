package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/infrastructure/persistence/models"
)

// GormStreakCounterRepository implements StreakCounterRepository using GORM.
// The counter is a single fixed-ID row shared by the whole team.
type GormStreakCounterRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormStreakCounterRepository creates a new GormStreakCounterRepository
func NewGormStreakCounterRepository(db *gorm.DB) *GormStreakCounterRepository {
	return &GormStreakCounterRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormStreakCounterRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Get loads the singleton streak counter, creating it on first access
func (r *GormStreakCounterRepository) Get(ctx context.Context) (*queue.StreakCounter, error) {
	var model models.StreakCounterModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", queue.StreakCounterID).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	counter := queue.NewStreakCounter()
	created := models.StreakCounterModelFromDomain(counter)
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		// A concurrent claimer may have created the row first
		var existing models.StreakCounterModel
		if findErr := r.db.WithContext(ctx).First(&existing, "id = ?", queue.StreakCounterID).Error; findErr == nil {
			return existing.ToDomain(), nil
		}
		return nil, err
	}
	return counter, nil
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormStreakCounterRepository) SaveWithLock(ctx context.Context, counter *queue.StreakCounter) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithLockTx(tx, counter)
	})
}

// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
func (r *GormStreakCounterRepository) SaveWithLockAndEvents(ctx context.Context, counter *queue.StreakCounter, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(tx, counter); err != nil {
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

func (r *GormStreakCounterRepository) saveWithLockTx(tx *gorm.DB, counter *queue.StreakCounter) error {
	// Get current version from database
	var currentVersion int
	if err := tx.Model(&models.StreakCounterModel{}).
		Where("id = ?", counter.ID).
		Select("version").
		Scan(&currentVersion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}

	// Check version matches
	if currentVersion != counter.Version {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The streak counter has been modified by another user")
	}

	// Increment version
	counter.Version++
	counter.UpdatedAt = time.Now()

	// Update counter with version check
	result := tx.Model(&models.StreakCounterModel{}).
		Where("id = ? AND version = ?", counter.ID, currentVersion).
		Updates(map[string]interface{}{
			"seller_id":       counter.SellerID,
			"count":           counter.Count,
			"last_claimed_at": counter.LastClaimedAt,
			"version":         counter.Version,
			"updated_at":      counter.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The streak counter has been modified by another user")
	}

	return nil
}

// Ensure GormStreakCounterRepository implements StreakCounterRepository
var _ queue.StreakCounterRepository = (*GormStreakCounterRepository)(nil)
