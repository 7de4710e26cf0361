package mapping

import (
	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
	"github.com/mustafajawed/Budget-Manager/internal/models"
)

// ToBudgetDocument converts a domain.Budget to its persisted document
// shape. The budget ID is not part of the document body; it is the
// document key (users/{userID}/budgets/{budgetID}).
func ToBudgetDocument(b domain.Budget) models.BudgetDocument {
	records := make([]models.ExpenseRecord, len(b.Expenses))
	for i, e := range b.Expenses {
		records[i] = models.ExpenseRecord{
			ExpenseID: e.ExpenseID,
			Name:      e.Name,
			Amount:    e.Amount,
			Category:  string(e.Category),
			Date:      e.Date,
		}
	}
	return models.BudgetDocument{
		Name:      b.Name,
		Total:     b.Total,
		Remaining: b.Remaining,
		Expenses:  records,
		Date:      b.CreatedAt,
	}
}

// ToDomainBudget converts a stored document back to a domain.Budget,
// reattaching the document key as the budget ID.
func ToDomainBudget(budgetID string, doc models.BudgetDocument) domain.Budget {
	expenses := make([]domain.Expense, len(doc.Expenses))
	for i, r := range doc.Expenses {
		expenses[i] = domain.Expense{
			ExpenseID: r.ExpenseID,
			Name:      r.Name,
			Amount:    r.Amount,
			Category:  domain.Category(r.Category),
			Date:      r.Date,
		}
	}
	return domain.Budget{
		BudgetID:  budgetID,
		Name:      doc.Name,
		Total:     doc.Total,
		Remaining: doc.Remaining,
		Expenses:  expenses,
		CreatedAt: doc.Date,
	}
}
