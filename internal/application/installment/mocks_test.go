package installment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/winroom/backend/internal/domain/attribution"
	"github.com/winroom/backend/internal/domain/installment"
	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
)

// MockPlanRepository is a mock implementation of installment.InstallmentPlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*installment.InstallmentPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*installment.InstallmentPlan), args.Error(1)
}

func (m *MockPlanRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*installment.InstallmentPlan, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*installment.InstallmentPlan), args.Error(1)
}

func (m *MockPlanRepository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*installment.InstallmentPlan, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*installment.InstallmentPlan), args.Error(1)
}

func (m *MockPlanRepository) FindByStatus(ctx context.Context, status installment.PlanStatus, filter shared.Filter) ([]installment.InstallmentPlan, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]installment.InstallmentPlan), args.Error(1)
}

func (m *MockPlanRepository) ExistsBySaleID(ctx context.Context, saleID uuid.UUID) (bool, error) {
	args := m.Called(ctx, saleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlanRepository) Save(ctx context.Context, plan *installment.InstallmentPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) SaveWithLock(ctx context.Context, plan *installment.InstallmentPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) SaveWithLockAndEvents(ctx context.Context, plan *installment.InstallmentPlan, events []shared.DomainEvent) error {
	args := m.Called(ctx, plan, events)
	return args.Error(0)
}

func (m *MockPlanRepository) DashboardStats(ctx context.Context, now time.Time) (installment.DashboardStats, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(installment.DashboardStats), args.Error(1)
}

// MockClaimRepository is a mock implementation of queue.ClaimRepository
type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) FindByID(ctx context.Context, id uuid.UUID) (*queue.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.Claim), args.Error(1)
}

func (m *MockClaimRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*queue.Claim, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.Claim), args.Error(1)
}

func (m *MockClaimRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]queue.Claim, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queue.Claim), args.Error(1)
}

func (m *MockClaimRepository) FindByFinanceStatus(ctx context.Context, status queue.FinanceStatus, filter shared.Filter) ([]queue.Claim, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queue.Claim), args.Error(1)
}

func (m *MockClaimRepository) FindClaimedBetween(ctx context.Context, from, to time.Time, filter shared.Filter) ([]queue.Claim, error) {
	args := m.Called(ctx, from, to, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queue.Claim), args.Error(1)
}

func (m *MockClaimRepository) Save(ctx context.Context, claim *queue.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockClaimRepository) SaveWithLock(ctx context.Context, claim *queue.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockClaimRepository) SaveWithLockAndEvents(ctx context.Context, claim *queue.Claim, events []shared.DomainEvent) error {
	args := m.Called(ctx, claim, events)
	return args.Error(0)
}

func (m *MockClaimRepository) ExistsBySaleID(ctx context.Context, saleID uuid.UUID) (bool, error) {
	args := m.Called(ctx, saleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClaimRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClaimRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAttributionRepository is a mock implementation of attribution.AttributionRepository
type MockAttributionRepository struct {
	mock.Mock
}

func (m *MockAttributionRepository) FindByID(ctx context.Context, id uuid.UUID) (*attribution.Attribution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attribution.Attribution), args.Error(1)
}

func (m *MockAttributionRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*attribution.Attribution, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attribution.Attribution), args.Error(1)
}

func (m *MockAttributionRepository) FindByClaimID(ctx context.Context, claimID uuid.UUID) (*attribution.Attribution, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attribution.Attribution), args.Error(1)
}

func (m *MockAttributionRepository) Save(ctx context.Context, a *attribution.Attribution) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAttributionRepository) SaveWithLock(ctx context.Context, a *attribution.Attribution) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAttributionRepository) SaveWithLockAndEvents(ctx context.Context, a *attribution.Attribution, events []shared.DomainEvent) error {
	args := m.Called(ctx, a, events)
	return args.Error(0)
}

func (m *MockAttributionRepository) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	args := m.Called(ctx, saleID)
	return args.Error(0)
}

func (m *MockAttributionRepository) FindShareEntriesBySale(ctx context.Context, saleID uuid.UUID) ([]attribution.ShareEntry, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]attribution.ShareEntry), args.Error(1)
}

func (m *MockAttributionRepository) SumSharesBySeller(ctx context.Context, from, to time.Time) ([]attribution.SellerShareTotal, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]attribution.SellerShareTotal), args.Error(1)
}
