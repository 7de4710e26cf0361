package repositories

import (
	"context"

	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
)

// BudgetReader defines read operations against the document store.
type BudgetReader interface {
	// ListBudgets retrieves every budget document under the given user,
	// in creation order. Failures wrap apperrors.ErrRemoteRead.
	ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error)
}

// BudgetWriter defines write operations against the document store.
// Every mutation is a single whole-document operation; there are no
// partial-field updates.
type BudgetWriter interface {
	// CreateBudget persists a new budget document and returns the
	// store-assigned budget ID.
	CreateBudget(ctx context.Context, userID string, budget domain.Budget) (string, error)

	// ReplaceBudget replaces the entire document identified by the
	// budget's ID with the given state.
	ReplaceBudget(ctx context.Context, userID string, budget domain.Budget) error

	// DeleteBudget removes the document; embedded expenses go with it.
	DeleteBudget(ctx context.Context, userID string, budgetID string) error
}

// BudgetRepositoryFacade combines all budget document store interfaces.
// This is a facade for clients that need access to all operations.
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
