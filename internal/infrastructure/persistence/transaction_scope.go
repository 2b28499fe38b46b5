package persistence

import (
	"context"

	"gorm.io/gorm"

	appfinance "github.com/winroom/backend/internal/application/finance"
	appledger "github.com/winroom/backend/internal/application/ledger"
	appobjection "github.com/winroom/backend/internal/application/objection"
	appqueue "github.com/winroom/backend/internal/application/queue"
	"github.com/winroom/backend/internal/domain/attribution"
	"github.com/winroom/backend/internal/domain/installment"
	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/objection"
	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
)

// gormTransactionalRepositories provides access to all repositories within a
// transaction. One struct backs every bounded context's scope interface; each
// interface just sees the subset of accessors it declares.
type gormTransactionalRepositories struct {
	tx          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// QueueItemRepo returns the queue item repository scoped to the current transaction
func (r *gormTransactionalRepositories) QueueItemRepo() queue.QueueItemRepository {
	repo := NewGormQueueItemRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// ClaimRepo returns the claim repository scoped to the current transaction
func (r *gormTransactionalRepositories) ClaimRepo() queue.ClaimRepository {
	repo := NewGormClaimRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// StreakRepo returns the streak counter repository scoped to the current transaction
func (r *gormTransactionalRepositories) StreakRepo() queue.StreakCounterRepository {
	repo := NewGormStreakCounterRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// AttributionRepo returns the attribution repository scoped to the current transaction
func (r *gormTransactionalRepositories) AttributionRepo() attribution.AttributionRepository {
	repo := NewGormAttributionRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// PlanRepo returns the installment plan repository scoped to the current transaction
func (r *gormTransactionalRepositories) PlanRepo() installment.InstallmentPlanRepository {
	repo := NewGormInstallmentPlanRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// MetricsRepo returns the sale metrics repository scoped to the current transaction
func (r *gormTransactionalRepositories) MetricsRepo() ledger.SaleMetricsRepository {
	repo := NewGormSaleMetricsRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// AdjustmentRepo returns the adjustment repository scoped to the current transaction
func (r *gormTransactionalRepositories) AdjustmentRepo() ledger.AdjustmentRepository {
	return NewGormAdjustmentRepository(r.tx)
}

// RefundRepo returns the refund repository scoped to the current transaction
func (r *gormTransactionalRepositories) RefundRepo() ledger.RefundRepository {
	return NewGormRefundRepository(r.tx)
}

// AdjustedRepo returns the adjusted metrics view repository scoped to the current transaction
func (r *gormTransactionalRepositories) AdjustedRepo() ledger.AdjustedMetricsRepository {
	return NewGormAdjustedMetricsRepository(r.tx)
}

// ObjectionRepo returns the objection repository scoped to the current transaction
func (r *gormTransactionalRepositories) ObjectionRepo() objection.ObjectionRepository {
	repo := NewGormObjectionRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// GormQueueTransactionScope implements the claim queue's TransactionScope
// using GORM transactions. The exclusivity guarantee of the claim path relies
// on Execute wrapping the FOR UPDATE read and all writes in one transaction.
type GormQueueTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormQueueTransactionScope creates a new GormQueueTransactionScope
func NewGormQueueTransactionScope(db *gorm.DB) *GormQueueTransactionScope {
	return &GormQueueTransactionScope{db: db}
}

// SetOutboxEventSaver sets the outbox event saver passed to transactional repositories
func (s *GormQueueTransactionScope) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormQueueTransactionScope) Execute(ctx context.Context, fn func(repos appqueue.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx, outboxSaver: s.outboxSaver}
		return fn(repos)
	})
}

// GormLedgerTransactionScope implements the ledger's TransactionScope using
// GORM transactions
type GormLedgerTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// SetOutboxEventSaver sets the outbox event saver passed to transactional repositories
func (s *GormLedgerTransactionScope) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx, outboxSaver: s.outboxSaver}
		return fn(repos)
	})
}

// GormFinanceTransactionScope implements the finance gate's TransactionScope
// using GORM transactions
type GormFinanceTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormFinanceTransactionScope creates a new GormFinanceTransactionScope
func NewGormFinanceTransactionScope(db *gorm.DB) *GormFinanceTransactionScope {
	return &GormFinanceTransactionScope{db: db}
}

// SetOutboxEventSaver sets the outbox event saver passed to transactional repositories
func (s *GormFinanceTransactionScope) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormFinanceTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx, outboxSaver: s.outboxSaver}
		return fn(repos)
	})
}

// GormObjectionTransactionScope implements the objection resolver's
// TransactionScope using GORM transactions
type GormObjectionTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormObjectionTransactionScope creates a new GormObjectionTransactionScope
func NewGormObjectionTransactionScope(db *gorm.DB) *GormObjectionTransactionScope {
	return &GormObjectionTransactionScope{db: db}
}

// SetOutboxEventSaver sets the outbox event saver passed to transactional repositories
func (s *GormObjectionTransactionScope) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormObjectionTransactionScope) Execute(ctx context.Context, fn func(repos appobjection.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx, outboxSaver: s.outboxSaver}
		return fn(repos)
	})
}

// Ensure the scopes implement their TransactionScope interfaces
var _ appqueue.TransactionScope = (*GormQueueTransactionScope)(nil)
var _ appledger.TransactionScope = (*GormLedgerTransactionScope)(nil)
var _ appfinance.TransactionScope = (*GormFinanceTransactionScope)(nil)
var _ appobjection.TransactionScope = (*GormObjectionTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements every TransactionalRepositories interface
var _ appqueue.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ appfinance.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ appobjection.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
