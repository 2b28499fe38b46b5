package objection

import (
	"context"

	appledger "github.com/winroom/backend/internal/application/ledger"
	"github.com/winroom/backend/internal/domain/attribution"
	"github.com/winroom/backend/internal/domain/objection"
)

// TransactionalRepositories provides access to repositories within a transaction.
// Resolving an objection can fan out into a refund, so the ledger repositories
// ride along with the objection's own.
type TransactionalRepositories interface {
	appledger.TransactionalRepositories
	ObjectionRepo() objection.ObjectionRepository
	AttributionRepo() attribution.AttributionRepository
}

// TransactionScope defines the interface for executing operations within a transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests.
type NoOpTransactionScope struct {
	appledger.TransactionalRepositories
	objectionRepo   objection.ObjectionRepository
	attributionRepo attribution.AttributionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	ledgerRepos appledger.TransactionalRepositories,
	objectionRepo objection.ObjectionRepository,
	attributionRepo attribution.AttributionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		TransactionalRepositories: ledgerRepos,
		objectionRepo:             objectionRepo,
		attributionRepo:           attributionRepo,
	}
}

// Execute runs the function directly without transaction boundaries
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ObjectionRepo returns the objection repository
func (s *NoOpTransactionScope) ObjectionRepo() objection.ObjectionRepository {
	return s.objectionRepo
}

// AttributionRepo returns the attribution repository
func (s *NoOpTransactionScope) AttributionRepo() attribution.AttributionRepository {
	return s.attributionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
