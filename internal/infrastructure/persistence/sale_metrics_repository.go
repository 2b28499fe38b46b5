package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/infrastructure/persistence/models"
)

// GormSaleMetricsRepository implements SaleMetricsRepository using GORM
type GormSaleMetricsRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormSaleMetricsRepository creates a new GormSaleMetricsRepository
func NewGormSaleMetricsRepository(db *gorm.DB) *GormSaleMetricsRepository {
	return &GormSaleMetricsRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormSaleMetricsRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a metrics record by its ID
func (r *GormSaleMetricsRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.SaleMetrics, error) {
	var model models.SaleMetricsModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySaleID finds the metrics record for a sale
func (r *GormSaleMetricsRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*ledger.SaleMetrics, error) {
	var model models.SaleMetricsModel
	if err := r.db.WithContext(ctx).First(&model, "sale_id = ?", saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a metrics record
func (r *GormSaleMetricsRepository) Save(ctx context.Context, m *ledger.SaleMetrics) error {
	model := models.SaleMetricsModelFromDomain(m)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormSaleMetricsRepository) SaveWithLock(ctx context.Context, m *ledger.SaleMetrics) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithLockTx(tx, m)
	})
}

// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
func (r *GormSaleMetricsRepository) SaveWithLockAndEvents(ctx context.Context, m *ledger.SaleMetrics, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(tx, m); err != nil {
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

func (r *GormSaleMetricsRepository) saveWithLockTx(tx *gorm.DB, m *ledger.SaleMetrics) error {
	// Get current version from database
	var currentVersion int
	if err := tx.Model(&models.SaleMetricsModel{}).
		Where("id = ?", m.ID).
		Select("version").
		Scan(&currentVersion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}

	// Check version matches
	if currentVersion != m.Version {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The metrics record has been modified by another user")
	}

	// Increment version
	m.Version++
	m.UpdatedAt = time.Now()

	// Update metrics with version check
	result := tx.Model(&models.SaleMetricsModel{}).
		Where("id = ? AND version = ?", m.ID, currentVersion).
		Updates(map[string]interface{}{
			"revenue_usd":       m.RevenueUSD,
			"cost_usd":          m.CostUSD,
			"margin_amount_usd": m.MarginAmountUSD,
			"margin_percent":    m.MarginPercent,
			"subs_amount":       m.SubsAmount,
			"currency":          m.Currency,
			"channel":           m.Channel,
			"campaign":          m.Campaign,
			"is_jackpot":        m.IsJackpot,
			"currency_source":   m.CurrencySource,
			"version":           m.Version,
			"updated_at":        m.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The metrics record has been modified by another user")
	}

	return nil
}

// Ensure GormSaleMetricsRepository implements SaleMetricsRepository
var _ ledger.SaleMetricsRepository = (*GormSaleMetricsRepository)(nil)
