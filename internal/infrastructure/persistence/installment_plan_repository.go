package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/winroom/backend/internal/domain/installment"
	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/infrastructure/persistence/models"
)

// GormInstallmentPlanRepository implements InstallmentPlanRepository using GORM.
// Plans always load and save together with their full payment schedule.
type GormInstallmentPlanRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormInstallmentPlanRepository creates a new GormInstallmentPlanRepository
func NewGormInstallmentPlanRepository(db *gorm.DB) *GormInstallmentPlanRepository {
	return &GormInstallmentPlanRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormInstallmentPlanRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a plan with its payments by ID
func (r *GormInstallmentPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*installment.InstallmentPlan, error) {
	var model models.InstallmentPlanModel
	if err := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_number ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySaleID finds the plan for a sale
func (r *GormInstallmentPlanRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*installment.InstallmentPlan, error) {
	var model models.InstallmentPlanModel
	if err := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_number ASC")
		}).
		First(&model, "sale_id = ?", saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPaymentID finds the plan owning a payment
func (r *GormInstallmentPlanRepository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*installment.InstallmentPlan, error) {
	var model models.InstallmentPlanModel
	if err := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_number ASC")
		}).
		Where("id = (?)", r.db.Model(&models.InstallmentPaymentModel{}).
			Select("plan_id").
			Where("id = ?", paymentID)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStatus finds plans by status with filtering
func (r *GormInstallmentPlanRepository) FindByStatus(ctx context.Context, status installment.PlanStatus, filter shared.Filter) ([]installment.InstallmentPlan, error) {
	var planModels []models.InstallmentPlanModel

	query := r.db.WithContext(ctx).Model(&models.InstallmentPlanModel{}).
		Where("status = ?", status)
	query = r.applyFilter(query, filter)

	if err := query.
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_number ASC")
		}).
		Find(&planModels).Error; err != nil {
		return nil, err
	}
	plans := make([]installment.InstallmentPlan, len(planModels))
	for i, model := range planModels {
		plans[i] = *model.ToDomain()
	}
	return plans, nil
}

// ExistsBySaleID checks whether a plan already exists for a sale
func (r *GormInstallmentPlanRepository) ExistsBySaleID(ctx context.Context, saleID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InstallmentPlanModel{}).
		Where("sale_id = ?", saleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a plan and its payments
func (r *GormInstallmentPlanRepository) Save(ctx context.Context, plan *installment.InstallmentPlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.InstallmentPlanModelFromDomain(plan)

		// Save the plan without auto-saving associations
		if err := tx.Omit("Payments").Save(model).Error; err != nil {
			return err
		}

		return r.savePayments(tx, plan)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormInstallmentPlanRepository) SaveWithLock(ctx context.Context, plan *installment.InstallmentPlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithLockTx(tx, plan)
	})
}

// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
func (r *GormInstallmentPlanRepository) SaveWithLockAndEvents(ctx context.Context, plan *installment.InstallmentPlan, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(tx, plan); err != nil {
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

func (r *GormInstallmentPlanRepository) saveWithLockTx(tx *gorm.DB, plan *installment.InstallmentPlan) error {
	// Get current version from database
	var currentVersion int
	if err := tx.Model(&models.InstallmentPlanModel{}).
		Where("id = ?", plan.ID).
		Select("version").
		Scan(&currentVersion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}

	// Check version matches
	if currentVersion != plan.Version {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The plan has been modified by another user")
	}

	// Increment version
	plan.Version++
	plan.UpdatedAt = time.Now()

	// Update plan with version check
	result := tx.Model(&models.InstallmentPlanModel{}).
		Where("id = ? AND version = ?", plan.ID, currentVersion).
		Updates(map[string]interface{}{
			"claim_id":           plan.ClaimID,
			"status":             plan.Status,
			"total_installments": plan.TotalInstallments,
			"total_amount":       plan.TotalAmount,
			"currency":           plan.Currency,
			"version":            plan.Version,
			"updated_at":         plan.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The plan has been modified by another user")
	}

	return r.savePayments(tx, plan)
}

// savePayments writes the schedule rows. The schedule never shrinks after
// creation, so a save/update per row is sufficient.
func (r *GormInstallmentPlanRepository) savePayments(tx *gorm.DB, plan *installment.InstallmentPlan) error {
	for i := range plan.Payments {
		plan.Payments[i].PlanID = plan.ID
		paymentModel := models.InstallmentPaymentModelFromDomain(&plan.Payments[i])
		if err := tx.Save(paymentModel).Error; err != nil {
			return err
		}
	}
	return nil
}

// DashboardStats aggregates the finance dashboard counters as of now
func (r *GormInstallmentPlanRepository) DashboardStats(ctx context.Context, now time.Time) (installment.DashboardStats, error) {
	var stats installment.DashboardStats

	planCounts := map[installment.PlanStatus]*int64{
		installment.PlanStatusActive:    &stats.ActivePlans,
		installment.PlanStatusFrozen:    &stats.FrozenPlans,
		installment.PlanStatusCompleted: &stats.CompletedPlans,
		installment.PlanStatusCancelled: &stats.CancelledPlans,
	}
	for status, target := range planCounts {
		if err := r.db.WithContext(ctx).
			Model(&models.InstallmentPlanModel{}).
			Where("status = ?", status).
			Count(target).Error; err != nil {
			return installment.DashboardStats{}, err
		}
	}

	if err := r.db.WithContext(ctx).
		Model(&models.InstallmentPaymentModel{}).
		Where("status = ?", installment.PaymentStatusSubmitted).
		Count(&stats.AwaitingReview).Error; err != nil {
		return installment.DashboardStats{}, err
	}

	// Past-due payments not covered by an active tolerance
	if err := r.db.WithContext(ctx).
		Model(&models.InstallmentPaymentModel{}).
		Where("status IN ?", []installment.PaymentStatus{
			installment.PaymentStatusPending,
			installment.PaymentStatusOverdue,
		}).
		Where("due_date < ?", now).
		Where("(tolerance_until IS NULL OR tolerance_until <= ?)", now).
		Count(&stats.OverduePayments).Error; err != nil {
		return installment.DashboardStats{}, err
	}

	// Unsettled payments kept out of overdue by a grace extension
	if err := r.db.WithContext(ctx).
		Model(&models.InstallmentPaymentModel{}).
		Where("status IN ?", []installment.PaymentStatus{
			installment.PaymentStatusPending,
			installment.PaymentStatusOverdue,
		}).
		Where("tolerance_until > ?", now).
		Count(&stats.InTolerance).Error; err != nil {
		return installment.DashboardStats{}, err
	}

	return stats, nil
}

// applyFilter applies filter options to the query
func (r *GormInstallmentPlanRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, InstallmentPlanSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

// Ensure GormInstallmentPlanRepository implements InstallmentPlanRepository
var _ installment.InstallmentPlanRepository = (*GormInstallmentPlanRepository)(nil)
