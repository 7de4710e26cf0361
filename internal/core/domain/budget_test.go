package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
)

func TestCategory_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		category domain.Category
		want     bool
	}{
		{name: "known category", category: domain.CategoryFood, want: true},
		{name: "last category", category: domain.CategoryOther, want: true},
		{name: "unknown category", category: "Gadgets", want: false},
		{name: "empty category", category: "", want: false},
		{name: "wrong case", category: "food", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.IsValid())
		})
	}
}

func TestBudget_SpentTotal(t *testing.T) {
	b := domain.Budget{
		Total:     decimal.NewFromInt(100),
		Remaining: decimal.NewFromInt(70),
		Expenses: []domain.Expense{
			{ExpenseID: "e1", Amount: decimal.RequireFromString("10.50")},
			{ExpenseID: "e2", Amount: decimal.RequireFromString("19.50")},
		},
	}

	assert.True(t, b.SpentTotal().Equal(decimal.NewFromInt(30)))
	assert.True(t, b.Total.Sub(b.SpentTotal()).Equal(b.Remaining))
}

func TestBudget_SpentTotal_NoExpenses(t *testing.T) {
	b := domain.Budget{Total: decimal.NewFromInt(100)}
	assert.True(t, b.SpentTotal().IsZero())
}

func TestBudget_FindExpense(t *testing.T) {
	b := domain.Budget{
		Expenses: []domain.Expense{
			{ExpenseID: "e1", Name: "Milk"},
			{ExpenseID: "e2", Name: "Bread"},
		},
	}

	expense, pos := b.FindExpense("e2")
	require.NotNil(t, expense)
	assert.Equal(t, 1, pos)
	assert.Equal(t, "Bread", expense.Name)

	expense, pos = b.FindExpense("missing")
	assert.Nil(t, expense)
	assert.Equal(t, -1, pos)
}

func TestBudget_CloneIsDeep(t *testing.T) {
	original := domain.Budget{
		BudgetID: "budget-1",
		Name:     "Groceries",
		Expenses: []domain.Expense{{ExpenseID: "e1", Name: "Milk"}},
	}

	clone := original.Clone()
	clone.Name = "Changed"
	clone.Expenses[0].Name = "Changed"
	clone.Expenses = append(clone.Expenses, domain.Expense{ExpenseID: "e2"})

	assert.Equal(t, "Groceries", original.Name)
	assert.Equal(t, "Milk", original.Expenses[0].Name)
	assert.Len(t, original.Expenses, 1)
}
