package pgsql

import (
	portsrepo "github.com/mustafajawed/Budget-Manager/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the all-postgres repository set. When
// the firestore document store is configured, main swaps BudgetRepo
// for the firestore adapter.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	budgetRepo := newPgxBudgetRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		BudgetRepo: budgetRepo,
		UserRepo:   userRepo,
	}
}

// NewBudgetRepository exposes the pgsql document store adapter on its own.
func NewBudgetRepository(dbPool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return newPgxBudgetRepository(dbPool)
}

// NewUserRepository exposes the local account store on its own.
func NewUserRepository(dbPool *pgxpool.Pool) portsrepo.UserRepository {
	return newPgxUserRepository(dbPool)
}
