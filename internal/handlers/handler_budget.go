package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mustafajawed/Budget-Manager/internal/apperrors"
	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
	portssvc "github.com/mustafajawed/Budget-Manager/internal/core/ports/services"
	"github.com/mustafajawed/Budget-Manager/internal/dto"
	"github.com/mustafajawed/Budget-Manager/internal/middleware"
)

// dateParamLayout is the format the dashboard's date inputs submit.
const dateParamLayout = "2006-01-02"

// BudgetHandler handles budget CRUD requests.
type BudgetHandler struct {
	ledger    portssvc.LedgerSvcFacade
	filterLoc *time.Location
}

// NewBudgetHandler creates a new BudgetHandler. filterLoc is the
// location used for date-range day truncation.
func NewBudgetHandler(ledger portssvc.LedgerSvcFacade, filterLoc *time.Location) *BudgetHandler {
	return &BudgetHandler{ledger: ledger, filterLoc: filterLoc}
}

// RegisterBudgetRoutes sets up the budget and expense routes.
func RegisterBudgetRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerSvcFacade, filterLoc *time.Location) {
	h := NewBudgetHandler(ledger, filterLoc)
	eh := NewExpenseHandler(ledger)

	budgets := rg.Group("/budgets")
	{
		budgets.GET("", h.ListBudgets)
		budgets.POST("", h.CreateBudget)
		budgets.DELETE("/:budgetID", h.DeleteBudget)
		budgets.POST("/:budgetID/expenses", eh.CreateExpense)
		budgets.DELETE("/:budgetID/expenses/:expenseID", eh.DeleteExpense)
	}
}

// ListBudgets returns the caller's budgets with the date-range
// projection applied from query parameters.
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListBudgetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	start, end, err := h.parseFilterBounds(params)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.ledger.Budgets(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filtered := domain.FilterExpensesByDate(budgets, params.FilterActive, start, end, h.filterLoc)
	c.JSON(http.StatusOK, dto.ToListBudgetsResponse(filtered))
}

// parseFilterBounds parses the optional startDate/endDate parameters.
// Missing bounds stay zero, which deactivates the filter downstream.
func (h *BudgetHandler) parseFilterBounds(params dto.ListBudgetsParams) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if params.StartDate != "" {
		start, err = time.ParseInLocation(dateParamLayout, params.StartDate, h.filterLoc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid startDate %q: %w", params.StartDate, apperrors.ErrValidation)
		}
	}
	if params.EndDate != "" {
		end, err = time.ParseInLocation(dateParamLayout, params.EndDate, h.filterLoc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid endDate %q: %w", params.EndDate, apperrors.ErrValidation)
		}
	}
	return start, end, nil
}

// CreateBudget creates a new budget for the caller.
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	budget, err := h.ledger.AddBudget(c.Request.Context(), userID, req.Name, req.Total)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// DeleteBudget deletes a budget and all its expenses.
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	budgetID := c.Param("budgetID")
	if err := h.ledger.DeleteBudget(c.Request.Context(), userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
