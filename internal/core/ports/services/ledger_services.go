package services

import (
	"context"

	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc defines read access to a user's in-memory ledger mirror.
type LedgerReaderSvc interface {
	// Budgets returns deep copies of the user's budgets. Returns
	// apperrors.ErrNoActiveSession when no mirror is open for the user.
	Budgets(ctx context.Context, userID string) ([]domain.Budget, error)
}

// LedgerMutatorSvc defines the mutation protocol. Each operation
// validates locally, performs exactly one remote write, and commits to
// the mirror only after the write is acknowledged.
type LedgerMutatorSvc interface {
	// AddBudget creates a budget with remaining == total and no expenses.
	AddBudget(ctx context.Context, userID string, name string, total decimal.Decimal) (*domain.Budget, error)

	// AddExpense appends an expense to the budget and decrements its
	// remaining amount. Returns apperrors.ErrInsufficientRemaining when
	// the amount exceeds the budget's remaining.
	AddExpense(ctx context.Context, userID string, budgetID string, name string, amount decimal.Decimal, category domain.Category) (*domain.Budget, error)

	// DeleteExpense removes the expense and restores its amount to the
	// budget's remaining.
	DeleteExpense(ctx context.Context, userID string, budgetID string, expenseID string) (*domain.Budget, error)

	// DeleteBudget deletes the budget document and drops it from the
	// mirror, embedded expenses included.
	DeleteBudget(ctx context.Context, userID string, budgetID string) error
}

// LedgerSessionSvc manages the lifecycle of per-user mirrors. Only the
// session gate calls these.
type LedgerSessionSvc interface {
	// OpenSession loads every budget under the user and replaces the
	// mirror wholesale. A read failure leaves an empty mirror open and
	// returns an error wrapping apperrors.ErrRemoteRead.
	OpenSession(ctx context.Context, userID string) error

	// CloseSession discards the user's mirror.
	CloseSession(userID string)

	// Resync reloads the mirror of every open session from the store.
	Resync(ctx context.Context)
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerMutatorSvc
	LedgerSessionSvc
}
