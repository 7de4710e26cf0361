package dto

import (
	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the data needed to record an expense
// against a budget.
type CreateExpenseRequest struct {
	Name     string          `json:"name" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Category domain.Category `json:"category" binding:"required,oneof=Food Transport Healthcare Entertainment Other"`
}
