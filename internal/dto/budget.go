package dto

import (
	"time"

	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines the data needed to create a new budget.
// dgt0 is the custom strictly-positive decimal validation registered in
// the handlers package.
type CreateBudgetRequest struct {
	Name  string          `json:"name" binding:"required"`
	Total decimal.Decimal `json:"total" binding:"required,dgt0"`
}

// ListBudgetsParams defines query parameters for the dashboard listing.
// Dates use the 2006-01-02 form the date inputs submit; both must be
// present for the filter to apply.
type ListBudgetsParams struct {
	FilterActive bool   `form:"filterActive"`
	StartDate    string `form:"startDate"`
	EndDate      string `form:"endDate"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID string          `json:"expenseID"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Category  domain.Category `json:"category"`
	Date      time.Time       `json:"date"`
}

// BudgetResponse defines the data returned for a budget.
// Mirrors domain.Budget.
type BudgetResponse struct {
	BudgetID  string            `json:"budgetID"`
	Name      string            `json:"name"`
	Total     decimal.Decimal   `json:"total"`
	Remaining decimal.Decimal   `json:"remaining"`
	Expenses  []ExpenseResponse `json:"expenses"`
	CreatedAt time.Time         `json:"createdAt"`
}

// FilteredBudgetResponse is a BudgetResponse plus the date-range
// projection the dashboard renders.
type FilteredBudgetResponse struct {
	BudgetResponse
	FilteredExpenses []ExpenseResponse `json:"filteredExpenses"`
}

// ListBudgetsResponse wraps the dashboard listing.
type ListBudgetsResponse struct {
	Budgets []FilteredBudgetResponse `json:"budgets"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID: e.ExpenseID,
		Name:      e.Name,
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.Date,
	}
}

// ToExpenseResponses converts a slice of domain.Expense to []ExpenseResponse.
func ToExpenseResponses(expenses []domain.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i])
	}
	return responses
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:  b.BudgetID,
		Name:      b.Name,
		Total:     b.Total,
		Remaining: b.Remaining,
		Expenses:  ToExpenseResponses(b.Expenses),
		CreatedAt: b.CreatedAt,
	}
}

// ToFilteredBudgetResponse converts a domain.FilteredBudget projection.
func ToFilteredBudgetResponse(fb *domain.FilteredBudget) FilteredBudgetResponse {
	return FilteredBudgetResponse{
		BudgetResponse:   ToBudgetResponse(&fb.Budget),
		FilteredExpenses: ToExpenseResponses(fb.FilteredExpenses),
	}
}

// ToListBudgetsResponse converts a slice of projections to the dashboard response.
func ToListBudgetsResponse(filtered []domain.FilteredBudget) ListBudgetsResponse {
	budgets := make([]FilteredBudgetResponse, len(filtered))
	for i := range filtered {
		budgets[i] = ToFilteredBudgetResponse(&filtered[i])
	}
	return ListBudgetsResponse{Budgets: budgets}
}
