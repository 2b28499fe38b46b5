package finance

import (
	"context"

	appledger "github.com/winroom/backend/internal/application/ledger"
	"github.com/winroom/backend/internal/domain/installment"
)

// TransactionalRepositories provides access to repositories within a transaction.
// Finance updates span the ledger repositories plus the installment plans that
// back the INSTALLMENT status.
type TransactionalRepositories interface {
	appledger.TransactionalRepositories
	PlanRepo() installment.InstallmentPlanRepository
}

// TransactionScope defines the interface for executing operations within a transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests.
type NoOpTransactionScope struct {
	appledger.TransactionalRepositories
	planRepo installment.InstallmentPlanRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(ledgerRepos appledger.TransactionalRepositories, planRepo installment.InstallmentPlanRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		TransactionalRepositories: ledgerRepos,
		planRepo:                  planRepo,
	}
}

// Execute runs the function directly without transaction boundaries
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PlanRepo returns the installment plan repository
func (s *NoOpTransactionScope) PlanRepo() installment.InstallmentPlanRepository {
	return s.planRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
