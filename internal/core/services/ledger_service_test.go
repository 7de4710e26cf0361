package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mustafajawed/Budget-Manager/internal/apperrors"
	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
	portssvc "github.com/mustafajawed/Budget-Manager/internal/core/ports/services"
	"github.com/mustafajawed/Budget-Manager/internal/core/services"
	"github.com/mustafajawed/Budget-Manager/internal/events"
)

// --- Mock BudgetRepositoryFacade ---
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	args := m.Called(ctx, userID)
	var budgets []domain.Budget
	if args.Get(0) != nil {
		budgets = args.Get(0).([]domain.Budget)
	}
	return budgets, args.Error(1)
}

func (m *MockBudgetRepository) CreateBudget(ctx context.Context, userID string, budget domain.Budget) (string, error) {
	args := m.Called(ctx, userID, budget)
	return args.String(0), args.Error(1)
}

func (m *MockBudgetRepository) ReplaceBudget(ctx context.Context, userID string, budget domain.Budget) error {
	args := m.Called(ctx, userID, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) DeleteBudget(ctx context.Context, userID string, budgetID string) error {
	args := m.Called(ctx, userID, budgetID)
	return args.Error(0)
}

// --- Mock Publisher ---
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Test Suite ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo *MockBudgetRepository
	service  portssvc.LedgerSvcFacade
	userID   string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockBudgetRepository)
	suite.service = services.NewLedgerService(suite.mockRepo)
	suite.userID = "user-1"
}

// openSessionWith loads a mirror for suite.userID holding the given budgets.
func (suite *LedgerServiceTestSuite) openSessionWith(budgets []domain.Budget) {
	ctx := context.Background()
	suite.mockRepo.On("ListBudgets", ctx, suite.userID).Return(budgets, nil).Once()
	suite.Require().NoError(suite.service.OpenSession(ctx, suite.userID))
}

func groceries(remaining int64) domain.Budget {
	total := decimal.NewFromInt(100)
	return domain.Budget{
		BudgetID:  "budget-1",
		Name:      "Groceries",
		Total:     total,
		Remaining: decimal.NewFromInt(remaining),
		Expenses: []domain.Expense{
			{
				ExpenseID: "expense-1",
				Name:      "Milk",
				Amount:    total.Sub(decimal.NewFromInt(remaining)),
				Category:  domain.CategoryFood,
			},
		},
	}
}

// --- Session lifecycle ---

func (suite *LedgerServiceTestSuite) TestOpenSession_LoadsMirror() {
	suite.openSessionWith([]domain.Budget{groceries(60)})

	budgets, err := suite.service.Budgets(context.Background(), suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(budgets, 1)
	suite.Equal("Groceries", budgets[0].Name)
	suite.True(budgets[0].Remaining.Equal(decimal.NewFromInt(60)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestOpenSession_LoadFailureLeavesEmptyMirror() {
	ctx := context.Background()
	suite.mockRepo.On("ListBudgets", ctx, suite.userID).Return(nil, apperrors.ErrRemoteRead).Once()

	err := suite.service.OpenSession(ctx, suite.userID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRemoteRead)

	// The session is open regardless; the dashboard is just empty.
	budgets, err := suite.service.Budgets(ctx, suite.userID)
	suite.Require().NoError(err)
	suite.Empty(budgets)
}

func (suite *LedgerServiceTestSuite) TestBudgets_NoSession() {
	budgets, err := suite.service.Budgets(context.Background(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoActiveSession)
	suite.Nil(budgets)
}

func (suite *LedgerServiceTestSuite) TestCloseSession_DiscardsMirror() {
	suite.openSessionWith([]domain.Budget{groceries(60)})

	suite.service.CloseSession(suite.userID)

	_, err := suite.service.Budgets(context.Background(), suite.userID)
	suite.ErrorIs(err, apperrors.ErrNoActiveSession)
}

func (suite *LedgerServiceTestSuite) TestBudgets_ReturnsDeepCopies() {
	suite.openSessionWith([]domain.Budget{groceries(60)})
	ctx := context.Background()

	first, err := suite.service.Budgets(ctx, suite.userID)
	suite.Require().NoError(err)

	// Mutating the caller's copy must not leak into the mirror.
	first[0].Name = "Tampered"
	first[0].Expenses[0].Name = "Tampered"

	second, err := suite.service.Budgets(ctx, suite.userID)
	suite.Require().NoError(err)
	suite.Equal("Groceries", second[0].Name)
	suite.Equal("Milk", second[0].Expenses[0].Name)
}

func (suite *LedgerServiceTestSuite) TestResync_ReloadsOpenMirrors() {
	suite.openSessionWith([]domain.Budget{groceries(60)})
	ctx := context.Background()

	updated := groceries(25)
	suite.mockRepo.On("ListBudgets", ctx, suite.userID).Return([]domain.Budget{updated}, nil).Once()

	suite.service.Resync(ctx)

	budgets, err := suite.service.Budgets(ctx, suite.userID)
	suite.Require().NoError(err)
	suite.True(budgets[0].Remaining.Equal(decimal.NewFromInt(25)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestResync_FailureKeepsCurrentMirror() {
	suite.openSessionWith([]domain.Budget{groceries(60)})
	ctx := context.Background()

	suite.mockRepo.On("ListBudgets", ctx, suite.userID).Return(nil, apperrors.ErrRemoteRead).Once()

	suite.service.Resync(ctx)

	budgets, err := suite.service.Budgets(ctx, suite.userID)
	suite.Require().NoError(err)
	suite.Require().Len(budgets, 1)
	suite.True(budgets[0].Remaining.Equal(decimal.NewFromInt(60)))
}

// --- AddBudget ---

func (suite *LedgerServiceTestSuite) TestAddBudget_Success() {
	suite.openSessionWith([]domain.Budget{})
	ctx := context.Background()
	total := decimal.NewFromInt(500)

	suite.mockRepo.On("CreateBudget", ctx, suite.userID, mock.MatchedBy(func(b domain.Budget) bool {
		return b.Name == "Rent" && b.Total.Equal(total) && b.Remaining.Equal(total) && len(b.Expenses) == 0
	})).Return("budget-new", nil).Once()

	budget, err := suite.service.AddBudget(ctx, suite.userID, "Rent", total)

	suite.Require().NoError(err)
	suite.Require().NotNil(budget)
	suite.Equal("budget-new", budget.BudgetID)
	suite.True(budget.Remaining.Equal(total))
	suite.False(budget.CreatedAt.IsZero())

	budgets, err := suite.service.Budgets(ctx, suite.userID)
	suite.Require().NoError(err)
	suite.Len(budgets, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestAddBudget_EmptyNameRejectedLocally() {
	suite.openSessionWith([]domain.Budget{})

	budget, err := suite.service.AddBudget(context.Background(), suite.userID, "   ", decimal.NewFromInt(10))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(budget)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateBudget", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestAddBudget_NonPositiveTotalRejectedLocally() {
	suite.openSessionWith([]domain.Budget{})

	budget, err := suite.service.AddBudget(context.Background(), suite.userID, "Rent", decimal.Zero)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(budget)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateBudget", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestAddBudget_RemoteFailureLeavesMirrorUnchanged() {
	suite.openSessionWith([]domain.Budget{})
	ctx := context.Background()

	suite.mockRepo.On("CreateBudget", ctx, suite.userID, mock.AnythingOfType("domain.Budget")).
		Return("", apperrors.ErrRemoteWrite).Once()

	budget, err := suite.service.AddBudget(ctx, suite.userID, "Rent", decimal.NewFromInt(10))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRemoteWrite)
	suite.Nil(budget)

	budgets, err := suite.service.Budgets(ctx, suite.userID)
	suite.Require().NoError(err)
	suite.Empty(budgets)
}

func (suite *LedgerServiceTestSuite) TestAddBudget_NoSession() {
	budget, err := suite.service.AddBudget(context.Background(), suite.userID, "Rent", decimal.NewFromInt(10))

	suite.ErrorIs(err, apperrors.ErrNoActiveSession)
	suite.Nil(budget)
}

// --- AddExpense ---

func (suite *LedgerServiceTestSuite) TestAddExpense_Success() {
	suite.openSessionWith([]domain.Budget{groceries(60)})
	ctx := context.Background()
	amount := decimal.NewFromInt(15)

	suite.mockRepo.On("ReplaceBudget", ctx, suite.userID, mock.MatchedBy(func(b domain.Budget) bool {
		return b.BudgetID == "budget-1" &&
			b.Remaining.Equal(decimal.NewFromInt(45)) &&
			len(b.Expenses) == 2 &&
			b.Expenses[1].ExpenseID != ""
	})).Return(nil).Once()

	budget, err := suite.service.AddExpense(ctx, suite.userID, "budget-1", "Cheese", amount, domain.CategoryFood)

	suite.Require().NoError(err)
	suite.Require().NotNil(budget)
	suite.True(budget.Remaining.Equal(decimal.NewFromInt(45)))
	suite.Len(budget.Expenses, 2)
	suite.Equal("Cheese", budget.Expenses[1].Name)
	suite.False(budget.Expenses[1].Date.IsZero())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestAddExpense_ExactRemainingAllowed() {
	suite.openSessionWith([]domain.Budget{groceries(60)})
	ctx := context.Background()

	suite.mockRepo.On("ReplaceBudget", ctx, suite.userID, mock.AnythingOfType("domain.Budget")).
		Return(nil).Once()

	budget, err := suite.service.AddExpense(ctx, suite.userID, "budget-1", "Feast", decimal.NewFromInt(60), domain.CategoryFood)

	suite.Require().NoError(err)
	suite.True(budget.Remaining.IsZero())
}

func (suite *LedgerServiceTestSuite) TestAddExpense_InsufficientRemaining() {
	suite.openSessionWith([]domain.Budget{groceries(60)})

	budget, err := suite.service.AddExpense(context.Background(), suite.userID, "budget-1", "TV", decimal.NewFromInt(61), domain.CategoryEntertainment)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientRemaining)
	suite.Nil(budget)
	suite.mockRepo.AssertNotCalled(suite.T(), "ReplaceBudget", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestAddExpense_UnknownCategoryRejectedLocally() {
	suite.openSessionWith([]domain.Budget{groceries(60)})

	budget, err := suite.service.AddExpense(context.Background(), suite.userID, "budget-1", "Thing", decimal.NewFromInt(1), "Gadgets")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(budget)
	suite.mockRepo.AssertNotCalled(suite.T(), "ReplaceBudget", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestAddExpense_BudgetNotFound() {
	suite.openSessionWith([]domain.Budget{groceries(60)})

	budget, err := suite.service.AddExpense(context.Background(), suite.userID, "missing", "Milk", decimal.NewFromInt(1), domain.CategoryFood)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(budget)
}

func (suite *LedgerServiceTestSuite) TestAddExpense_RemoteFailureLeavesMirrorUnchanged() {
	suite.openSessionWith([]domain.Budget{groceries(60)})
	ctx := context.Background()

	suite.mockRepo.On("ReplaceBudget", ctx, suite.userID, mock.AnythingOfType("domain.Budget")).
		Return(apperrors.ErrRemoteWrite).Once()

	budget, err := suite.service.AddExpense(ctx, suite.userID, "budget-1", "Cheese", decimal.NewFromInt(15), domain.CategoryFood)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRemoteWrite)
	suite.Nil(budget)

	budgets, err := suite.service.Budgets(ctx, suite.userID)
	suite.Require().NoError(err)
	suite.True(budgets[0].Remaining.Equal(decimal.NewFromInt(60)))
	suite.Len(budgets[0].Expenses, 1)
}

// Two mutations racing on the same budget must serialize: with 100
// remaining and ten concurrent 15s, exactly six can commit.
func (suite *LedgerServiceTestSuite) TestAddExpense_ConcurrentMutationsNeverOverdraw() {
	budget := groceries(60)
	budget.Remaining = decimal.NewFromInt(100)
	budget.Expenses = []domain.Expense{}
	suite.openSessionWith([]domain.Budget{budget})
	ctx := context.Background()

	suite.mockRepo.On("ReplaceBudget", mock.Anything, suite.userID, mock.AnythingOfType("domain.Budget")).
		Return(nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.service.AddExpense(ctx, suite.userID, "budget-1", "Snack", decimal.NewFromInt(15), domain.CategoryFood)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(suite.T(), err, apperrors.ErrInsufficientRemaining)
		}()
	}
	wg.Wait()

	suite.Equal(6, succeeded)

	budgets, err := suite.service.Budgets(ctx, suite.userID)
	suite.Require().NoError(err)
	suite.True(budgets[0].Remaining.Equal(decimal.NewFromInt(10)))
	suite.Len(budgets[0].Expenses, 6)
}

// --- DeleteExpense ---

func (suite *LedgerServiceTestSuite) TestDeleteExpense_RestoresRemaining() {
	suite.openSessionWith([]domain.Budget{groceries(60)})
	ctx := context.Background()

	suite.mockRepo.On("ReplaceBudget", ctx, suite.userID, mock.MatchedBy(func(b domain.Budget) bool {
		return b.Remaining.Equal(decimal.NewFromInt(100)) && len(b.Expenses) == 0
	})).Return(nil).Once()

	budget, err := suite.service.DeleteExpense(ctx, suite.userID, "budget-1", "expense-1")

	suite.Require().NoError(err)
	suite.True(budget.Remaining.Equal(budget.Total))
	suite.Empty(budget.Expenses)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeleteExpense_UnknownExpense() {
	suite.openSessionWith([]domain.Budget{groceries(60)})

	budget, err := suite.service.DeleteExpense(context.Background(), suite.userID, "budget-1", "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(budget)
	suite.mockRepo.AssertNotCalled(suite.T(), "ReplaceBudget", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestDeleteExpense_RemoteFailureLeavesMirrorUnchanged() {
	suite.openSessionWith([]domain.Budget{groceries(60)})
	ctx := context.Background()

	suite.mockRepo.On("ReplaceBudget", ctx, suite.userID, mock.AnythingOfType("domain.Budget")).
		Return(apperrors.ErrRemoteWrite).Once()

	budget, err := suite.service.DeleteExpense(ctx, suite.userID, "budget-1", "expense-1")

	suite.Require().Error(err)
	suite.Nil(budget)

	budgets, err := suite.service.Budgets(ctx, suite.userID)
	suite.Require().NoError(err)
	suite.Len(budgets[0].Expenses, 1)
	suite.True(budgets[0].Remaining.Equal(decimal.NewFromInt(60)))
}

// --- DeleteBudget ---

func (suite *LedgerServiceTestSuite) TestDeleteBudget_Success() {
	suite.openSessionWith([]domain.Budget{groceries(60)})
	ctx := context.Background()

	suite.mockRepo.On("DeleteBudget", ctx, suite.userID, "budget-1").Return(nil).Once()

	err := suite.service.DeleteBudget(ctx, suite.userID, "budget-1")

	suite.Require().NoError(err)
	budgets, err := suite.service.Budgets(ctx, suite.userID)
	suite.Require().NoError(err)
	suite.Empty(budgets)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeleteBudget_RemoteFailureLeavesMirrorUnchanged() {
	suite.openSessionWith([]domain.Budget{groceries(60)})
	ctx := context.Background()

	suite.mockRepo.On("DeleteBudget", ctx, suite.userID, "budget-1").
		Return(apperrors.ErrRemoteWrite).Once()

	err := suite.service.DeleteBudget(ctx, suite.userID, "budget-1")

	suite.Require().Error(err)
	budgets, err := suite.service.Budgets(ctx, suite.userID)
	suite.Require().NoError(err)
	suite.Len(budgets, 1)
}

func (suite *LedgerServiceTestSuite) TestDeleteBudget_NotFound() {
	suite.openSessionWith([]domain.Budget{groceries(60)})

	err := suite.service.DeleteBudget(context.Background(), suite.userID, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteBudget", mock.Anything, mock.Anything, mock.Anything)
}

// --- Event publishing ---

func (suite *LedgerServiceTestSuite) TestMutations_PublishLedgerEvents() {
	mockPublisher := new(MockPublisher)
	suite.service = services.NewLedgerService(suite.mockRepo, services.WithEventPublisher(mockPublisher))
	suite.openSessionWith([]domain.Budget{})
	ctx := context.Background()

	suite.mockRepo.On("CreateBudget", ctx, suite.userID, mock.AnythingOfType("domain.Budget")).
		Return("budget-new", nil).Once()
	mockPublisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.LedgerEvent) bool {
		return e.Type == events.TypeBudgetCreated && e.UserID == suite.userID && e.BudgetID == "budget-new"
	})).Return(nil).Once()

	_, err := suite.service.AddBudget(ctx, suite.userID, "Rent", decimal.NewFromInt(10))

	suite.Require().NoError(err)
	mockPublisher.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestMutations_PublishFailureDoesNotFailMutation() {
	mockPublisher := new(MockPublisher)
	suite.service = services.NewLedgerService(suite.mockRepo, services.WithEventPublisher(mockPublisher))
	suite.openSessionWith([]domain.Budget{})
	ctx := context.Background()

	suite.mockRepo.On("CreateBudget", ctx, suite.userID, mock.AnythingOfType("domain.Budget")).
		Return("budget-new", nil).Once()
	mockPublisher.On("Publish", mock.Anything, mock.AnythingOfType("events.LedgerEvent")).
		Return(assert.AnError).Once()

	budget, err := suite.service.AddBudget(ctx, suite.userID, "Rent", decimal.NewFromInt(10))

	suite.Require().NoError(err)
	suite.NotNil(budget)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
