package events

import (
	"encoding/json"
	"time"
)

// Event types emitted after each successful ledger mutation.
const (
	TypeBudgetCreated  = "budget.created"
	TypeBudgetDeleted  = "budget.deleted"
	TypeExpenseAdded   = "expense.added"
	TypeExpenseDeleted = "expense.deleted"
)

// LedgerEvent is a lightweight audit message. It carries identifiers
// only; consumers fetch the current document from the store themselves.
type LedgerEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"userID"`
	BudgetID  string    `json:"budgetID"`
	ExpenseID string    `json:"expenseID,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time.
func NewLedgerEvent(eventType, userID, budgetID, expenseID string) LedgerEvent {
	return LedgerEvent{
		Type:      eventType,
		UserID:    userID,
		BudgetID:  budgetID,
		ExpenseID: expenseID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON creates an event from JSON bytes.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
