package pgsql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mustafajawed/Budget-Manager/internal/apperrors"
	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
	portsrepo "github.com/mustafajawed/Budget-Manager/internal/core/ports/repositories"
	"github.com/mustafajawed/Budget-Manager/internal/models"
	"github.com/mustafajawed/Budget-Manager/internal/utils/mapping"
)

// PgxBudgetRepository stores whole budget documents as JSONB rows,
// keyed (user_id, budget_id). Expenses live inside the document; there
// is no expenses table.
type PgxBudgetRepository struct {
	db *pgxpool.Pool
}

func newPgxBudgetRepository(db *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{db: db}
}

// Ensure PgxBudgetRepository implements portsrepo.BudgetRepositoryFacade
var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	query := `
        SELECT budget_id, doc
        FROM budget_documents
        WHERE user_id = $1
        ORDER BY created_at ASC;
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget documents: %w", apperrors.ErrRemoteRead)
	}
	defer rows.Close()

	budgets := []domain.Budget{}
	for rows.Next() {
		var budgetID string
		var raw []byte
		if err := rows.Scan(&budgetID, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan budget document row: %w", apperrors.ErrRemoteRead)
		}
		var doc models.BudgetDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode budget document %s: %w", budgetID, apperrors.ErrRemoteRead)
		}
		budgets = append(budgets, mapping.ToDomainBudget(budgetID, doc))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating budget document rows: %w", apperrors.ErrRemoteRead)
	}

	return budgets, nil
}

func (r *PgxBudgetRepository) CreateBudget(ctx context.Context, userID string, budget domain.Budget) (string, error) {
	budgetID := uuid.NewString()
	raw, err := json.Marshal(mapping.ToBudgetDocument(budget))
	if err != nil {
		return "", fmt.Errorf("failed to encode budget document: %w", err)
	}

	query := `
        INSERT INTO budget_documents (user_id, budget_id, doc, created_at)
        VALUES ($1, $2, $3, $4);
    `
	if _, err := r.db.Exec(ctx, query, userID, budgetID, raw, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("failed to insert budget document: %w", apperrors.ErrRemoteWrite)
	}
	return budgetID, nil
}

func (r *PgxBudgetRepository) ReplaceBudget(ctx context.Context, userID string, budget domain.Budget) error {
	raw, err := json.Marshal(mapping.ToBudgetDocument(budget))
	if err != nil {
		return fmt.Errorf("failed to encode budget document: %w", err)
	}

	query := `
        UPDATE budget_documents
        SET doc = $1
        WHERE user_id = $2 AND budget_id = $3;
    `
	cmdTag, err := r.db.Exec(ctx, query, raw, userID, budget.BudgetID)
	if err != nil {
		return fmt.Errorf("failed to replace budget document: %w", apperrors.ErrRemoteWrite)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("budget %s not found: %w", budget.BudgetID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, userID string, budgetID string) error {
	query := `
        DELETE FROM budget_documents
        WHERE user_id = $1 AND budget_id = $2;
    `
	cmdTag, err := r.db.Exec(ctx, query, userID, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget document: %w", apperrors.ErrRemoteWrite)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("budget %s not found: %w", budgetID, apperrors.ErrNotFound)
	}
	return nil
}
