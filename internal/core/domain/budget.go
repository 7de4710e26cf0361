package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the fixed set of expense categories.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryHealthcare    Category = "Healthcare"
	CategoryEntertainment Category = "Entertainment"
	CategoryOther         Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryHealthcare,
	CategoryEntertainment,
	CategoryOther,
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Expense is a single spend recorded against a budget. Expenses are
// embedded in their owning budget document and have no independent
// existence; ExpenseID only serves as a stable handle for deletes.
type Expense struct {
	ExpenseID string          `json:"expenseID"` // UUID, assigned at creation
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"` // strictly positive
	Category  Category        `json:"category"`
	Date      time.Time       `json:"date"` // UTC
}

// Budget represents a named budget within the core domain.
// This is the primary representation used by services.
//
// Invariant: Remaining == Total - sum of Expenses[i].Amount after every
// successful mutation.
type Budget struct {
	BudgetID  string          `json:"budgetID"` // assigned by the document store on create
	Name      string          `json:"name"`
	Total     decimal.Decimal `json:"total"`     // fixed at creation, > 0
	Remaining decimal.Decimal `json:"remaining"` // see invariant above
	Expenses  []Expense       `json:"expenses"`  // insertion order == chronological order
	CreatedAt time.Time       `json:"createdAt"` // display-only, UTC
}

// SpentTotal returns the sum of all expense amounts.
func (b *Budget) SpentTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range b.Expenses {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// FindExpense returns the expense with the given ID and its position,
// or nil and -1 when it is not present.
func (b *Budget) FindExpense(expenseID string) (*Expense, int) {
	for i := range b.Expenses {
		if b.Expenses[i].ExpenseID == expenseID {
			return &b.Expenses[i], i
		}
	}
	return nil, -1
}

// Clone returns a deep copy of the budget. The expense slice is copied
// so callers can mutate the clone without touching the original.
func (b Budget) Clone() Budget {
	clone := b
	clone.Expenses = make([]Expense, len(b.Expenses))
	copy(clone.Expenses, b.Expenses)
	return clone
}

// CloneBudgets deep-copies a slice of budgets.
func CloneBudgets(budgets []Budget) []Budget {
	clones := make([]Budget, len(budgets))
	for i, b := range budgets {
		clones[i] = b.Clone()
	}
	return clones
}
