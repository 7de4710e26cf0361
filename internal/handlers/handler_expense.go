package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mustafajawed/Budget-Manager/internal/core/ports/services"
	"github.com/mustafajawed/Budget-Manager/internal/dto"
	"github.com/mustafajawed/Budget-Manager/internal/middleware"
)

// ExpenseHandler handles expense requests within a budget.
type ExpenseHandler struct {
	ledger portssvc.LedgerSvcFacade
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(ledger portssvc.LedgerSvcFacade) *ExpenseHandler {
	return &ExpenseHandler{ledger: ledger}
}

// CreateExpense records an expense against a budget and returns the
// updated budget.
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	budgetID := c.Param("budgetID")
	budget, err := h.ledger.AddExpense(c.Request.Context(), userID, budgetID, req.Name, req.Amount, req.Category)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// DeleteExpense removes an expense and restores its amount to the
// budget's remaining.
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	budgetID := c.Param("budgetID")
	expenseID := c.Param("expenseID")
	budget, err := h.ledger.DeleteExpense(c.Request.Context(), userID, budgetID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}
