package ledger

import (
	"context"

	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/queue"
)

// TransactionScope provides transactional access to the ledger repositories.
// Adjustment cap checks, refund branches and the synchronous adjusted-view
// refresh all run inside one transaction so readers never observe a
// half-applied write.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a ledger
// write can touch, scoped to the current transaction. Refunds cross into the
// queue context (claim finance flag, queue item status), so those
// repositories are part of the same scope.
type TransactionalRepositories interface {
	// MetricsRepo returns the sale metrics repository scoped to the current transaction
	MetricsRepo() ledger.SaleMetricsRepository
	// AdjustmentRepo returns the adjustment repository scoped to the current transaction
	AdjustmentRepo() ledger.AdjustmentRepository
	// RefundRepo returns the refund repository scoped to the current transaction
	RefundRepo() ledger.RefundRepository
	// AdjustedRepo returns the adjusted metrics view repository scoped to the current transaction
	AdjustedRepo() ledger.AdjustedMetricsRepository
	// ClaimRepo returns the claim repository scoped to the current transaction
	ClaimRepo() queue.ClaimRepository
	// QueueItemRepo returns the queue item repository scoped to the current transaction
	QueueItemRepo() queue.QueueItemRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests.
type NoOpTransactionScope struct {
	metricsRepo    ledger.SaleMetricsRepository
	adjustmentRepo ledger.AdjustmentRepository
	refundRepo     ledger.RefundRepository
	adjustedRepo   ledger.AdjustedMetricsRepository
	claimRepo      queue.ClaimRepository
	queueItemRepo  queue.QueueItemRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	metricsRepo ledger.SaleMetricsRepository,
	adjustmentRepo ledger.AdjustmentRepository,
	refundRepo ledger.RefundRepository,
	adjustedRepo ledger.AdjustedMetricsRepository,
	claimRepo queue.ClaimRepository,
	queueItemRepo queue.QueueItemRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		metricsRepo:    metricsRepo,
		adjustmentRepo: adjustmentRepo,
		refundRepo:     refundRepo,
		adjustedRepo:   adjustedRepo,
		claimRepo:      claimRepo,
		queueItemRepo:  queueItemRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// MetricsRepo returns the sale metrics repository
func (s *NoOpTransactionScope) MetricsRepo() ledger.SaleMetricsRepository {
	return s.metricsRepo
}

// AdjustmentRepo returns the adjustment repository
func (s *NoOpTransactionScope) AdjustmentRepo() ledger.AdjustmentRepository {
	return s.adjustmentRepo
}

// RefundRepo returns the refund repository
func (s *NoOpTransactionScope) RefundRepo() ledger.RefundRepository {
	return s.refundRepo
}

// AdjustedRepo returns the adjusted metrics view repository
func (s *NoOpTransactionScope) AdjustedRepo() ledger.AdjustedMetricsRepository {
	return s.adjustedRepo
}

// ClaimRepo returns the claim repository
func (s *NoOpTransactionScope) ClaimRepo() queue.ClaimRepository {
	return s.claimRepo
}

// QueueItemRepo returns the queue item repository
func (s *NoOpTransactionScope) QueueItemRepo() queue.QueueItemRepository {
	return s.queueItemRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
