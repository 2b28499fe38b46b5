package queue

import (
	"context"

	"github.com/winroom/backend/internal/domain/attribution"
	"github.com/winroom/backend/internal/domain/installment"
	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/queue"
)

// TransactionScope provides transactional access to the repositories a claim
// touches. All operations inside Execute share one database transaction and
// commit or roll back atomically; the claim path relies on this plus the
// FOR UPDATE read on the queue row for its exclusivity guarantee.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories a claim
// transaction needs, scoped to the current transaction.
type TransactionalRepositories interface {
	// QueueItemRepo returns the queue item repository scoped to the current transaction
	QueueItemRepo() queue.QueueItemRepository
	// ClaimRepo returns the claim repository scoped to the current transaction
	ClaimRepo() queue.ClaimRepository
	// StreakRepo returns the streak counter repository scoped to the current transaction
	StreakRepo() queue.StreakCounterRepository
	// AttributionRepo returns the attribution repository scoped to the current transaction
	AttributionRepo() attribution.AttributionRepository
	// PlanRepo returns the installment plan repository scoped to the current transaction
	PlanRepo() installment.InstallmentPlanRepository
	// MetricsRepo returns the sale metrics repository scoped to the current transaction
	MetricsRepo() ledger.SaleMetricsRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests.
type NoOpTransactionScope struct {
	queueItemRepo   queue.QueueItemRepository
	claimRepo       queue.ClaimRepository
	streakRepo      queue.StreakCounterRepository
	attributionRepo attribution.AttributionRepository
	planRepo        installment.InstallmentPlanRepository
	metricsRepo     ledger.SaleMetricsRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	queueItemRepo queue.QueueItemRepository,
	claimRepo queue.ClaimRepository,
	streakRepo queue.StreakCounterRepository,
	attributionRepo attribution.AttributionRepository,
	planRepo installment.InstallmentPlanRepository,
	metricsRepo ledger.SaleMetricsRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		queueItemRepo:   queueItemRepo,
		claimRepo:       claimRepo,
		streakRepo:      streakRepo,
		attributionRepo: attributionRepo,
		planRepo:        planRepo,
		metricsRepo:     metricsRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// QueueItemRepo returns the queue item repository
func (s *NoOpTransactionScope) QueueItemRepo() queue.QueueItemRepository {
	return s.queueItemRepo
}

// ClaimRepo returns the claim repository
func (s *NoOpTransactionScope) ClaimRepo() queue.ClaimRepository {
	return s.claimRepo
}

// StreakRepo returns the streak counter repository
func (s *NoOpTransactionScope) StreakRepo() queue.StreakCounterRepository {
	return s.streakRepo
}

// AttributionRepo returns the attribution repository
func (s *NoOpTransactionScope) AttributionRepo() attribution.AttributionRepository {
	return s.attributionRepo
}

// PlanRepo returns the installment plan repository
func (s *NoOpTransactionScope) PlanRepo() installment.InstallmentPlanRepository {
	return s.planRepo
}

// MetricsRepo returns the sale metrics repository
func (s *NoOpTransactionScope) MetricsRepo() ledger.SaleMetricsRepository {
	return s.metricsRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
