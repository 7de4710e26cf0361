package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseRecord is the embedded expense entry inside a budget document.
// Field names match the documents the original web client wrote, so an
// existing Firestore collection stays readable; expenseID is the one
// addition (stable handle for deletes).
type ExpenseRecord struct {
	ExpenseID string          `json:"expenseID"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Date      time.Time       `json:"date"`
}

// BudgetDocument is the persisted shape of a budget, stored whole under
// users/{userID}/budgets/{budgetID}. Every mutation replaces the entire
// document; expenses are embedded, never separate rows.
type BudgetDocument struct {
	Name      string          `json:"name"`
	Total     decimal.Decimal `json:"total"`
	Remaining decimal.Decimal `json:"remaining"`
	Expenses  []ExpenseRecord `json:"expenses"`
	Date      time.Time       `json:"date"` // creation timestamp, RFC 3339 UTC
}
