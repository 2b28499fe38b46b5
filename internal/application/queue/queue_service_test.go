package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
)

func newQueueService(t *testing.T) (*QueueService, *MockQueueItemRepository, *MockClaimRepository, *MockSaleMetricsRepository) {
	t.Helper()
	queueRepo := new(MockQueueItemRepository)
	claimRepo := new(MockClaimRepository)
	metricsRepo := new(MockSaleMetricsRepository)
	svc := NewQueueService(queueRepo, claimRepo, metricsRepo, zap.NewNop())
	return svc, queueRepo, claimRepo, metricsRepo
}

func TestQueueService_Enqueue(t *testing.T) {
	ctx := context.Background()

	t.Run("queues a sale with its metrics record", func(t *testing.T) {
		svc, queueRepo, _, metricsRepo := newQueueService(t)
		sale := testSale()

		queueRepo.On("FindBySaleID", ctx, sale.SaleID).Return(nil, shared.ErrNotFound)
		queueRepo.On("FindPendingByFingerprint", ctx, sale.Fingerprint()).Return(nil, shared.ErrNotFound)
		queueRepo.On("SaveWithLockAndEvents", ctx, mock.Anything, mock.Anything).Return(nil)
		metricsRepo.On("Save", ctx, mock.MatchedBy(func(m *ledger.SaleMetrics) bool {
			return m.SaleID == sale.SaleID && m.CurrencySource == ledger.CurrencySourceComputed
		})).Return(nil)

		resp, err := svc.Enqueue(ctx, sale, decimal.NewFromInt(1200), decimal.NewFromInt(300))

		require.NoError(t, err)
		assert.Equal(t, queue.ItemStatusPending, resp.Status)
		assert.Equal(t, queue.ItemSourceAutomatic, resp.Source)
		metricsRepo.AssertExpectations(t)
	})

	t.Run("refuses a duplicate sale id", func(t *testing.T) {
		svc, queueRepo, _, _ := newQueueService(t)
		sale := testSale()
		existing, err := queue.NewQueueItem(sale, queue.ItemSourceAutomatic)
		require.NoError(t, err)

		queueRepo.On("FindBySaleID", ctx, sale.SaleID).Return(existing, nil)

		_, err = svc.Enqueue(ctx, sale, decimal.NewFromInt(1200), decimal.NewFromInt(300))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "QUEUE_ALREADY_PENDING", domainErr.Code)
	})

	t.Run("refuses a duplicate pending fingerprint on manual entry", func(t *testing.T) {
		svc, queueRepo, _, _ := newQueueService(t)
		sale := testSale()
		dup, err := queue.NewQueueItem(sale, queue.ItemSourceAutomatic)
		require.NoError(t, err)

		req := ManualEnqueueRequest{
			SaleID:            uuid.New(),
			CustomerName:      sale.CustomerName,
			CustomerEmail:     sale.CustomerEmail,
			Campaign:          sale.Campaign,
			Channel:           sale.Channel,
			Amount:            sale.Amount,
			Currency:          sale.Currency,
			OccurredAt:        sale.OccurredAt,
			ExternalPaymentID: sale.ExternalPaymentID,
			RevenueUSD:        decimal.NewFromInt(1200),
			CostUSD:           decimal.NewFromInt(300),
		}

		queueRepo.On("FindBySaleID", ctx, req.SaleID).Return(nil, shared.ErrNotFound)
		queueRepo.On("FindPendingByFingerprint", ctx, mock.Anything).Return(dup, nil)

		_, err = svc.ManualEnqueue(ctx, req)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "QUEUE_ALREADY_PENDING", domainErr.Code)
	})

	t.Run("aborts when the duplicate lookup fails", func(t *testing.T) {
		svc, queueRepo, _, _ := newQueueService(t)
		sale := testSale()
		lookupErr := errors.New("connection reset")

		queueRepo.On("FindBySaleID", ctx, sale.SaleID).Return(nil, lookupErr)

		_, err := svc.Enqueue(ctx, sale, decimal.NewFromInt(1200), decimal.NewFromInt(300))

		assert.ErrorIs(t, err, lookupErr)
		queueRepo.AssertNotCalled(t, "SaveWithLockAndEvents", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("aborts when the fingerprint lookup fails", func(t *testing.T) {
		svc, queueRepo, _, _ := newQueueService(t)
		sale := testSale()
		lookupErr := errors.New("connection reset")

		queueRepo.On("FindBySaleID", ctx, sale.SaleID).Return(nil, shared.ErrNotFound)
		queueRepo.On("FindPendingByFingerprint", ctx, sale.Fingerprint()).Return(nil, lookupErr)

		_, err := svc.Enqueue(ctx, sale, decimal.NewFromInt(1200), decimal.NewFromInt(300))

		assert.ErrorIs(t, err, lookupErr)
		queueRepo.AssertNotCalled(t, "SaveWithLockAndEvents", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("manual entry records the manual metrics source", func(t *testing.T) {
		svc, queueRepo, _, metricsRepo := newQueueService(t)
		sale := testSale()

		req := ManualEnqueueRequest{
			SaleID:        sale.SaleID,
			CustomerName:  sale.CustomerName,
			CustomerEmail: sale.CustomerEmail,
			Campaign:      sale.Campaign,
			Channel:       sale.Channel,
			Amount:        sale.Amount,
			Currency:      sale.Currency,
			OccurredAt:    sale.OccurredAt,
			RevenueUSD:    decimal.NewFromInt(900),
			CostUSD:       decimal.NewFromInt(100),
		}

		queueRepo.On("FindBySaleID", ctx, sale.SaleID).Return(nil, shared.ErrNotFound)
		queueRepo.On("FindPendingByFingerprint", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		queueRepo.On("SaveWithLockAndEvents", ctx, mock.Anything, mock.Anything).Return(nil)
		metricsRepo.On("Save", ctx, mock.MatchedBy(func(m *ledger.SaleMetrics) bool {
			return m.CurrencySource == ledger.CurrencySourceManualEntry
		})).Return(nil)

		resp, err := svc.ManualEnqueue(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, queue.ItemSourceManual, resp.Source)
		metricsRepo.AssertExpectations(t)
	})
}

func TestQueueService_Exclude(t *testing.T) {
	ctx := context.Background()

	t.Run("excludes a pending item", func(t *testing.T) {
		svc, queueRepo, _, _ := newQueueService(t)
		item, err := queue.NewQueueItem(testSale(), queue.ItemSourceAutomatic)
		require.NoError(t, err)
		item.ClearDomainEvents()

		queueRepo.On("FindByID", ctx, item.ID).Return(item, nil)
		queueRepo.On("SaveWithLockAndEvents", ctx, item, mock.Anything).Return(nil)

		err = svc.Exclude(ctx, ExcludeRequest{QueueItemID: item.ID, Reason: "test sale", Actor: uuid.New()})

		require.NoError(t, err)
		assert.Equal(t, queue.ItemStatusExcluded, item.Status)
	})

	t.Run("requires a reason", func(t *testing.T) {
		svc, queueRepo, _, _ := newQueueService(t)
		item, err := queue.NewQueueItem(testSale(), queue.ItemSourceAutomatic)
		require.NoError(t, err)

		queueRepo.On("FindByID", ctx, item.ID).Return(item, nil)

		err = svc.Exclude(ctx, ExcludeRequest{QueueItemID: item.ID, Actor: uuid.New()})

		require.Error(t, err)
		assert.Equal(t, queue.ItemStatusPending, item.Status)
	})
}

func TestQueueService_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("restores an excluded item", func(t *testing.T) {
		svc, queueRepo, claimRepo, _ := newQueueService(t)
		item, err := queue.NewQueueItem(testSale(), queue.ItemSourceAutomatic)
		require.NoError(t, err)
		require.NoError(t, item.Exclude("test sale", uuid.New()))
		item.ClearDomainEvents()

		queueRepo.On("FindBySaleID", ctx, item.Sale.SaleID).Return(item, nil)
		claimRepo.On("ExistsBySaleID", ctx, item.Sale.SaleID).Return(false, nil)
		queueRepo.On("SaveWithLockAndEvents", ctx, item, mock.Anything).Return(nil)

		err = svc.Restore(ctx, item.Sale.SaleID)

		require.NoError(t, err)
		assert.Equal(t, queue.ItemStatusPending, item.Status)
		assert.Empty(t, item.ExcludedReason)
	})

	t.Run("refuses to restore a sale that has a claim", func(t *testing.T) {
		svc, queueRepo, claimRepo, _ := newQueueService(t)
		item, err := queue.NewQueueItem(testSale(), queue.ItemSourceAutomatic)
		require.NoError(t, err)
		require.NoError(t, item.Exclude("test sale", uuid.New()))

		queueRepo.On("FindBySaleID", ctx, item.Sale.SaleID).Return(item, nil)
		claimRepo.On("ExistsBySaleID", ctx, item.Sale.SaleID).Return(true, nil)

		err = svc.Restore(ctx, item.Sale.SaleID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CLAIM_EXISTS", domainErr.Code)
		assert.Equal(t, queue.ItemStatusExcluded, item.Status)
	})
}
