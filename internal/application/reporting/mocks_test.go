package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/winroom/backend/internal/domain/attribution"
	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/objection"
	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
)

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

// MockObjectionRepository is a mock implementation of objection.ObjectionRepository
type MockObjectionRepository struct {
	mock.Mock
}

func (m *MockObjectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*objection.Objection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*objection.Objection), args.Error(1)
}

func (m *MockObjectionRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) ([]objection.Objection, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]objection.Objection), args.Error(1)
}

func (m *MockObjectionRepository) FindByStatus(ctx context.Context, status objection.ObjectionStatus, filter shared.Filter) ([]objection.Objection, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]objection.Objection), args.Error(1)
}

func (m *MockObjectionRepository) Save(ctx context.Context, o *objection.Objection) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockObjectionRepository) SaveWithLock(ctx context.Context, o *objection.Objection) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockObjectionRepository) SaveWithLockAndEvents(ctx context.Context, o *objection.Objection, events []shared.DomainEvent) error {
	args := m.Called(ctx, o, events)
	return args.Error(0)
}

func (m *MockObjectionRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockLeadCountProvider is a mock implementation of LeadCountProvider
type MockLeadCountProvider struct {
	mock.Mock
}

func (m *MockLeadCountProvider) LeadCounts(ctx context.Context, from, to time.Time) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int64), args.Error(1)
}
