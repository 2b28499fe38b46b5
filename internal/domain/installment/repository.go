package installment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/winroom/backend/internal/domain/shared"
)

// DashboardStats is the derived read model for the finance installment view
type DashboardStats struct {
	ActivePlans     int64
	FrozenPlans     int64
	CompletedPlans  int64
	CancelledPlans  int64
	AwaitingReview  int64
	OverduePayments int64
	InTolerance     int64
}

// InstallmentPlanRepository defines the interface for plan persistence.
// Plans load and save with their full payment schedule.
type InstallmentPlanRepository interface {
	// FindByID finds a plan with its payments by ID
	FindByID(ctx context.Context, id uuid.UUID) (*InstallmentPlan, error)

	// FindBySaleID finds the plan for a sale
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*InstallmentPlan, error)

	// FindByPaymentID finds the plan owning a payment
	FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*InstallmentPlan, error)

	// FindByStatus finds plans by status with filtering
	FindByStatus(ctx context.Context, status PlanStatus, filter shared.Filter) ([]InstallmentPlan, error)

	// ExistsBySaleID checks whether a plan already exists for a sale
	ExistsBySaleID(ctx context.Context, saleID uuid.UUID) (bool, error)

	// Save creates or updates a plan and its payments
	Save(ctx context.Context, plan *InstallmentPlan) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, plan *InstallmentPlan) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
	SaveWithLockAndEvents(ctx context.Context, plan *InstallmentPlan, events []shared.DomainEvent) error

	// DashboardStats aggregates the finance dashboard counters as of now
	DashboardStats(ctx context.Context, now time.Time) (DashboardStats, error)
}
