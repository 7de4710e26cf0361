package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mustafajawed/Budget-Manager/internal/apperrors"
	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
	portsrepo "github.com/mustafajawed/Budget-Manager/internal/core/ports/repositories"
	portssvc "github.com/mustafajawed/Budget-Manager/internal/core/ports/services"
	"github.com/mustafajawed/Budget-Manager/internal/events"
)

// ledgerMirror is one signed-in user's in-memory copy of their budgets.
// mu serializes the whole read-validate-write-commit cycle of every
// mutation, so two back-to-back mutations can never both read the same
// stale remaining amount.
type ledgerMirror struct {
	mu      sync.Mutex
	budgets []domain.Budget
}

func (m *ledgerMirror) findBudget(budgetID string) int {
	for i := range m.budgets {
		if m.budgets[i].BudgetID == budgetID {
			return i
		}
	}
	return -1
}

// ledgerServiceImpl implements the LedgerSvcFacade interface.
// The document store is the durable owner of the data; the mirror is
// only ever updated after a remote write is acknowledged, never
// optimistically before.
type ledgerServiceImpl struct {
	BaseService
	budgetRepo portsrepo.BudgetRepositoryFacade
	publisher  events.Publisher

	mu      sync.RWMutex
	mirrors map[string]*ledgerMirror
}

// LedgerOption is a functional option for configuring the ledger service
type LedgerOption func(*ledgerServiceImpl)

// WithEventPublisher adds a ledger event publisher dependency
func WithEventPublisher(p events.Publisher) LedgerOption {
	return func(s *ledgerServiceImpl) {
		s.publisher = p
	}
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(repo portsrepo.BudgetRepositoryFacade, options ...LedgerOption) portssvc.LedgerSvcFacade {
	svc := &ledgerServiceImpl{
		budgetRepo: repo,
		publisher:  events.NopPublisher{},
		mirrors:    make(map[string]*ledgerMirror),
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure ledgerServiceImpl implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerServiceImpl)(nil)

// --- session lifecycle ---

func (s *ledgerServiceImpl) OpenSession(ctx context.Context, userID string) error {
	mirror := &ledgerMirror{budgets: []domain.Budget{}}

	// Register the (empty) mirror first: a failed load still leaves an
	// open session showing an empty dashboard, per the read-error policy.
	s.mu.Lock()
	s.mirrors[userID] = mirror
	s.mu.Unlock()

	budgets, err := s.budgetRepo.ListBudgets(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load budgets, ledger mirror left empty",
			slog.String("user_id", userID))
		return fmt.Errorf("load budgets for user %s: %w", userID, err)
	}

	mirror.mu.Lock()
	mirror.budgets = budgets
	mirror.mu.Unlock()

	s.LogInfo(ctx, "Ledger mirror loaded",
		slog.String("user_id", userID),
		slog.Int("budget_count", len(budgets)))
	return nil
}

func (s *ledgerServiceImpl) CloseSession(userID string) {
	s.mu.Lock()
	delete(s.mirrors, userID)
	s.mu.Unlock()
}

// Resync reloads every open mirror from the document store. A failed
// reload keeps the previous mirror contents rather than clobbering them.
func (s *ledgerServiceImpl) Resync(ctx context.Context) {
	s.mu.RLock()
	userIDs := make([]string, 0, len(s.mirrors))
	for userID := range s.mirrors {
		userIDs = append(userIDs, userID)
	}
	s.mu.RUnlock()

	for _, userID := range userIDs {
		mirror, err := s.mirror(userID)
		if err != nil {
			continue // session closed since we listed it
		}
		budgets, err := s.budgetRepo.ListBudgets(ctx, userID)
		if err != nil {
			s.LogError(ctx, err, "Resync failed, keeping current mirror",
				slog.String("user_id", userID))
			continue
		}
		mirror.mu.Lock()
		mirror.budgets = budgets
		mirror.mu.Unlock()
	}
}

func (s *ledgerServiceImpl) mirror(userID string) (*ledgerMirror, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mirror, ok := s.mirrors[userID]
	if !ok {
		return nil, apperrors.ErrNoActiveSession
	}
	return mirror, nil
}

// --- reads ---

func (s *ledgerServiceImpl) Budgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	mirror, err := s.mirror(userID)
	if err != nil {
		return nil, err
	}

	mirror.mu.Lock()
	defer mirror.mu.Unlock()
	return domain.CloneBudgets(mirror.budgets), nil
}

// --- mutation protocol ---

func (s *ledgerServiceImpl) AddBudget(ctx context.Context, userID string, name string, total decimal.Decimal) (*domain.Budget, error) {
	mirror, err := s.mirror(userID)
	if err != nil {
		return nil, err
	}

	// Local validation happens before any remote call.
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("budget name must not be empty: %w", apperrors.ErrValidation)
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("budget total must be greater than zero: %w", apperrors.ErrValidation)
	}

	budget := domain.Budget{
		Name:      name,
		Total:     total,
		Remaining: total,
		Expenses:  []domain.Expense{},
		CreatedAt: time.Now().UTC(),
	}

	mirror.mu.Lock()
	defer mirror.mu.Unlock()

	budgetID, err := s.budgetRepo.CreateBudget(ctx, userID, budget)
	if err != nil {
		s.LogError(ctx, err, "Failed to create budget document",
			slog.String("user_id", userID))
		return nil, err
	}

	budget.BudgetID = budgetID
	mirror.budgets = append(mirror.budgets, budget)

	s.publish(ctx, events.NewLedgerEvent(events.TypeBudgetCreated, userID, budgetID, ""))
	s.LogInfo(ctx, "Budget created",
		slog.String("user_id", userID),
		slog.String("budget_id", budgetID))

	result := budget.Clone()
	return &result, nil
}

func (s *ledgerServiceImpl) AddExpense(ctx context.Context, userID string, budgetID string, name string, amount decimal.Decimal, category domain.Category) (*domain.Budget, error) {
	mirror, err := s.mirror(userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("expense name must not be empty: %w", apperrors.ErrValidation)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("expense amount must be greater than zero: %w", apperrors.ErrValidation)
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("unknown category %q: %w", category, apperrors.ErrValidation)
	}

	mirror.mu.Lock()
	defer mirror.mu.Unlock()

	idx := mirror.findBudget(budgetID)
	if idx < 0 {
		return nil, fmt.Errorf("budget %s: %w", budgetID, apperrors.ErrNotFound)
	}
	current := &mirror.budgets[idx]

	if amount.GreaterThan(current.Remaining) {
		return nil, fmt.Errorf("amount %s exceeds remaining %s: %w",
			amount.String(), current.Remaining.String(), apperrors.ErrInsufficientRemaining)
	}

	expense := domain.Expense{
		ExpenseID: uuid.NewString(),
		Name:      name,
		Amount:    amount,
		Category:  category,
		Date:      time.Now().UTC(),
	}

	// Build the updated document first; the mirror commit happens only
	// after the whole-document replace is acknowledged.
	updated := current.Clone()
	updated.Expenses = append(updated.Expenses, expense)
	updated.Remaining = updated.Remaining.Sub(amount)

	if err := s.budgetRepo.ReplaceBudget(ctx, userID, updated); err != nil {
		s.LogError(ctx, err, "Failed to persist expense",
			slog.String("user_id", userID),
			slog.String("budget_id", budgetID))
		return nil, err
	}

	mirror.budgets[idx] = updated

	s.publish(ctx, events.NewLedgerEvent(events.TypeExpenseAdded, userID, budgetID, expense.ExpenseID))
	s.LogInfo(ctx, "Expense added",
		slog.String("user_id", userID),
		slog.String("budget_id", budgetID),
		slog.String("expense_id", expense.ExpenseID))

	result := updated.Clone()
	return &result, nil
}

func (s *ledgerServiceImpl) DeleteExpense(ctx context.Context, userID string, budgetID string, expenseID string) (*domain.Budget, error) {
	mirror, err := s.mirror(userID)
	if err != nil {
		return nil, err
	}

	mirror.mu.Lock()
	defer mirror.mu.Unlock()

	idx := mirror.findBudget(budgetID)
	if idx < 0 {
		return nil, fmt.Errorf("budget %s: %w", budgetID, apperrors.ErrNotFound)
	}
	current := &mirror.budgets[idx]

	expense, pos := current.FindExpense(expenseID)
	if pos < 0 {
		return nil, fmt.Errorf("expense %s in budget %s: %w", expenseID, budgetID, apperrors.ErrNotFound)
	}
	restored := expense.Amount

	updated := current.Clone()
	updated.Expenses = append(updated.Expenses[:pos], updated.Expenses[pos+1:]...)
	updated.Remaining = updated.Remaining.Add(restored)

	if err := s.budgetRepo.ReplaceBudget(ctx, userID, updated); err != nil {
		s.LogError(ctx, err, "Failed to persist expense deletion",
			slog.String("user_id", userID),
			slog.String("budget_id", budgetID),
			slog.String("expense_id", expenseID))
		return nil, err
	}

	mirror.budgets[idx] = updated

	s.publish(ctx, events.NewLedgerEvent(events.TypeExpenseDeleted, userID, budgetID, expenseID))
	s.LogInfo(ctx, "Expense deleted",
		slog.String("user_id", userID),
		slog.String("budget_id", budgetID),
		slog.String("expense_id", expenseID))

	result := updated.Clone()
	return &result, nil
}

func (s *ledgerServiceImpl) DeleteBudget(ctx context.Context, userID string, budgetID string) error {
	mirror, err := s.mirror(userID)
	if err != nil {
		return err
	}

	mirror.mu.Lock()
	defer mirror.mu.Unlock()

	idx := mirror.findBudget(budgetID)
	if idx < 0 {
		return fmt.Errorf("budget %s: %w", budgetID, apperrors.ErrNotFound)
	}

	if err := s.budgetRepo.DeleteBudget(ctx, userID, budgetID); err != nil {
		s.LogError(ctx, err, "Failed to delete budget document",
			slog.String("user_id", userID),
			slog.String("budget_id", budgetID))
		return err
	}

	// Removal is by identity, not position; idx was resolved under the
	// same lock as the remote delete.
	mirror.budgets = append(mirror.budgets[:idx], mirror.budgets[idx+1:]...)

	s.publish(ctx, events.NewLedgerEvent(events.TypeBudgetDeleted, userID, budgetID, ""))
	s.LogInfo(ctx, "Budget deleted",
		slog.String("user_id", userID),
		slog.String("budget_id", budgetID))
	return nil
}

// publish delivers an audit event; failures are logged and swallowed so
// they never affect the mutation outcome.
func (s *ledgerServiceImpl) publish(ctx context.Context, event events.LedgerEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.LogWarn(ctx, "Failed to publish ledger event",
			slog.String("type", event.Type),
			slog.String("error", err.Error()))
	}
}
