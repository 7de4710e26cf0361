package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
)

func day(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}

func testBudgets() []domain.Budget {
	return []domain.Budget{
		{
			BudgetID:  "budget-1",
			Name:      "Groceries",
			Total:     decimal.NewFromInt(100),
			Remaining: decimal.NewFromInt(40),
			Expenses: []domain.Expense{
				{ExpenseID: "e1", Name: "Milk", Amount: decimal.NewFromInt(10), Category: domain.CategoryFood, Date: day(2024, 3, 1, 9, 30)},
				{ExpenseID: "e2", Name: "Bread", Amount: decimal.NewFromInt(20), Category: domain.CategoryFood, Date: day(2024, 3, 5, 23, 59)},
				{ExpenseID: "e3", Name: "Cheese", Amount: decimal.NewFromInt(30), Category: domain.CategoryFood, Date: day(2024, 3, 10, 0, 1)},
			},
		},
		{
			BudgetID:  "budget-2",
			Name:      "Transport",
			Total:     decimal.NewFromInt(50),
			Remaining: decimal.NewFromInt(50),
			Expenses:  []domain.Expense{},
		},
	}
}

func TestFilterExpensesByDate_InactivePassesThrough(t *testing.T) {
	out := domain.FilterExpensesByDate(testBudgets(), false, day(2024, 3, 1, 0, 0), day(2024, 3, 5, 0, 0), time.UTC)

	require.Len(t, out, 2)
	assert.Len(t, out[0].FilteredExpenses, 3)
	assert.Empty(t, out[1].FilteredExpenses)
}

func TestFilterExpensesByDate_ZeroBoundDeactivates(t *testing.T) {
	out := domain.FilterExpensesByDate(testBudgets(), true, time.Time{}, day(2024, 3, 5, 0, 0), time.UTC)
	require.Len(t, out, 2)
	assert.Len(t, out[0].FilteredExpenses, 3)

	out = domain.FilterExpensesByDate(testBudgets(), true, day(2024, 3, 1, 0, 0), time.Time{}, time.UTC)
	assert.Len(t, out[0].FilteredExpenses, 3)
}

func TestFilterExpensesByDate_BoundsAreInclusiveWholeDays(t *testing.T) {
	// Bounds carry times of day; only the calendar day matters. e2 lands
	// at 23:59 on the end day and must be kept.
	out := domain.FilterExpensesByDate(testBudgets(), true, day(2024, 3, 1, 17, 0), day(2024, 3, 5, 8, 0), time.UTC)

	require.Len(t, out, 2)
	ids := expenseIDs(out[0].FilteredExpenses)
	assert.Equal(t, []string{"e1", "e2"}, ids)
}

func TestFilterExpensesByDate_SingleDayRange(t *testing.T) {
	out := domain.FilterExpensesByDate(testBudgets(), true, day(2024, 3, 10, 12, 0), day(2024, 3, 10, 12, 0), time.UTC)

	assert.Equal(t, []string{"e3"}, expenseIDs(out[0].FilteredExpenses))
}

func TestFilterExpensesByDate_InvertedRangeMatchesNothing(t *testing.T) {
	out := domain.FilterExpensesByDate(testBudgets(), true, day(2024, 3, 10, 0, 0), day(2024, 3, 1, 0, 0), time.UTC)

	assert.Empty(t, out[0].FilteredExpenses)
	assert.NotNil(t, out[0].FilteredExpenses)
	// The budget itself is untouched; only the projection is narrowed.
	assert.Len(t, out[0].Expenses, 3)
}

func TestFilterExpensesByDate_DayBoundaryFollowsLocation(t *testing.T) {
	// 00:30 UTC on March 5th is still March 4th in UTC-5.
	budgets := []domain.Budget{{
		BudgetID: "budget-1",
		Expenses: []domain.Expense{
			{ExpenseID: "late", Date: day(2024, 3, 5, 0, 30)},
		},
	}}
	est := time.FixedZone("UTC-5", -5*60*60)

	out := domain.FilterExpensesByDate(budgets, true, day(2024, 3, 5, 12, 0), day(2024, 3, 5, 12, 0), est)
	assert.Empty(t, out[0].FilteredExpenses, "expense belongs to the previous day in UTC-5")

	out = domain.FilterExpensesByDate(budgets, true, day(2024, 3, 4, 12, 0), day(2024, 3, 4, 12, 0), est)
	assert.Equal(t, []string{"late"}, expenseIDs(out[0].FilteredExpenses))
}

func TestFilterExpensesByDate_DoesNotMutateInput(t *testing.T) {
	budgets := testBudgets()

	out := domain.FilterExpensesByDate(budgets, true, day(2024, 3, 1, 0, 0), day(2024, 3, 1, 0, 0), time.UTC)

	require.Len(t, budgets[0].Expenses, 3, "input expense list must keep all entries")
	out[0].FilteredExpenses[0].Name = "Tampered"
	out[0].Name = "Tampered"
	assert.Equal(t, "Milk", budgets[0].Expenses[0].Name)
	assert.Equal(t, "Groceries", budgets[0].Name)
}

func TestFilterExpensesByDate_Idempotent(t *testing.T) {
	budgets := testBudgets()
	first := domain.FilterExpensesByDate(budgets, true, day(2024, 3, 1, 0, 0), day(2024, 3, 5, 0, 0), time.UTC)
	second := domain.FilterExpensesByDate(budgets, true, day(2024, 3, 1, 0, 0), day(2024, 3, 5, 0, 0), time.UTC)

	assert.Equal(t, first, second)
}

func expenseIDs(expenses []domain.Expense) []string {
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ExpenseID
	}
	return ids
}
