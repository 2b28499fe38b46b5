package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
)

// MockSaleMetricsRepository is a mock implementation of ledger.SaleMetricsRepository
type MockSaleMetricsRepository struct {
	mock.Mock
}

func (m *MockSaleMetricsRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.SaleMetrics, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.SaleMetrics), args.Error(1)
}

func (m *MockSaleMetricsRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*ledger.SaleMetrics, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.SaleMetrics), args.Error(1)
}

func (m *MockSaleMetricsRepository) Save(ctx context.Context, metrics *ledger.SaleMetrics) error {
	args := m.Called(ctx, metrics)
	return args.Error(0)
}

func (m *MockSaleMetricsRepository) SaveWithLock(ctx context.Context, metrics *ledger.SaleMetrics) error {
	args := m.Called(ctx, metrics)
	return args.Error(0)
}

func (m *MockSaleMetricsRepository) SaveWithLockAndEvents(ctx context.Context, metrics *ledger.SaleMetrics, events []shared.DomainEvent) error {
	args := m.Called(ctx, metrics, events)
	return args.Error(0)
}

// MockAdjustmentRepository is a mock implementation of ledger.AdjustmentRepository
type MockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Adjustment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Adjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) FindByClaimID(ctx context.Context, claimID uuid.UUID) ([]ledger.Adjustment, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Adjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) SumByClaimID(ctx context.Context, claimID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, claimID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAdjustmentRepository) Save(ctx context.Context, adj *ledger.Adjustment) error {
	args := m.Called(ctx, adj)
	return args.Error(0)
}

func (m *MockAdjustmentRepository) DeleteByClaimID(ctx context.Context, claimID uuid.UUID) error {
	args := m.Called(ctx, claimID)
	return args.Error(0)
}

// MockRefundRepository is a mock implementation of ledger.RefundRepository
type MockRefundRepository struct {
	mock.Mock
}

func (m *MockRefundRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*ledger.Refund, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Refund), args.Error(1)
}

func (m *MockRefundRepository) ExistsBySaleID(ctx context.Context, saleID uuid.UUID) (bool, error) {
	args := m.Called(ctx, saleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRefundRepository) Upsert(ctx context.Context, refund *ledger.Refund) error {
	args := m.Called(ctx, refund)
	return args.Error(0)
}

func (m *MockRefundRepository) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	args := m.Called(ctx, saleID)
	return args.Error(0)
}

// MockAdjustedMetricsRepository is a mock implementation of ledger.AdjustedMetricsRepository
type MockAdjustedMetricsRepository struct {
	mock.Mock
}

func (m *MockAdjustedMetricsRepository) FindByClaimID(ctx context.Context, claimID uuid.UUID) (*ledger.AdjustedMetrics, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.AdjustedMetrics), args.Error(1)
}

func (m *MockAdjustedMetricsRepository) Upsert(ctx context.Context, view ledger.AdjustedMetrics) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}

func (m *MockAdjustedMetricsRepository) DeleteByClaimID(ctx context.Context, claimID uuid.UUID) error {
	args := m.Called(ctx, claimID)
	return args.Error(0)
}

func (m *MockAdjustedMetricsRepository) SumMarginBySeller(ctx context.Context, from, to time.Time) ([]ledger.SellerMarginTotal, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.SellerMarginTotal), args.Error(1)
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

// MockQueueItemRepository is a mock implementation of queue.QueueItemRepository
type MockQueueItemRepository struct {
	mock.Mock
}

func (m *MockQueueItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*queue.QueueItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.QueueItem), args.Error(1)
}

func (m *MockQueueItemRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*queue.QueueItem, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.QueueItem), args.Error(1)
}

func (m *MockQueueItemRepository) FindBySaleIDForUpdate(ctx context.Context, saleID uuid.UUID) (*queue.QueueItem, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.QueueItem), args.Error(1)
}

func (m *MockQueueItemRepository) FindPendingByFingerprint(ctx context.Context, fingerprint string) (*queue.QueueItem, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.QueueItem), args.Error(1)
}

func (m *MockQueueItemRepository) FindByStatus(ctx context.Context, status queue.ItemStatus, filter shared.Filter) ([]queue.QueueItem, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queue.QueueItem), args.Error(1)
}

func (m *MockQueueItemRepository) FindPendingSince(ctx context.Context, since time.Time, filter shared.Filter) ([]queue.QueueItem, error) {
	args := m.Called(ctx, since, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queue.QueueItem), args.Error(1)
}

func (m *MockQueueItemRepository) Save(ctx context.Context, item *queue.QueueItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockQueueItemRepository) SaveWithLock(ctx context.Context, item *queue.QueueItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockQueueItemRepository) SaveWithLockAndEvents(ctx context.Context, item *queue.QueueItem, events []shared.DomainEvent) error {
	args := m.Called(ctx, item, events)
	return args.Error(0)
}

func (m *MockQueueItemRepository) CountByStatus(ctx context.Context, status queue.ItemStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}
