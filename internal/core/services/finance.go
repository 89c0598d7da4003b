package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/pennywise/internal/core/domain"
	"github.com/ewilliams-labs/pennywise/internal/core/ports"
	"github.com/ewilliams-labs/pennywise/internal/metrics"
)

// FinanceService records expenses and savings goals for the configured user.
type FinanceService struct {
	repo   ports.FinanceRepository
	userID int64
	logger *zap.Logger
}

// NewFinanceService constructs a FinanceService acting on behalf of userID.
func NewFinanceService(repo ports.FinanceRepository, userID int64, logger *zap.Logger) *FinanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceService{
		repo:   repo,
		userID: userID,
		logger: logger,
	}
}

// LogExpense validates and stores an expense dated YYYY-MM-DD.
func (s *FinanceService) LogExpense(ctx context.Context, category string, amount decimal.Decimal, date string) (domain.Expense, error) {
	// 1. Validate before touching storage
	e, err := domain.NewExpense(s.userID, category, amount, date, domain.APIExpenseDescription)
	if err != nil {
		return domain.Expense{}, err
	}

	ctx, span := tracer.Start(ctx, "FinanceService.LogExpense")
	defer span.End()
	span.SetAttributes(attribute.String("expense.category", e.Category))

	// 2. Persist
	saved, err := s.repo.SaveExpense(ctx, e)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save expense")
		return domain.Expense{}, fmt.Errorf("service: failed to save expense: %w", err)
	}

	metrics.ExpensesLogged.Inc()
	s.logger.Info("expense logged",
		zap.Int64("expense_id", saved.ID),
		zap.String("category", saved.Category),
		zap.String("amount", saved.Amount.StringFixed(2)),
	)
	return saved, nil
}

func (s *FinanceService) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	expenses, err := s.repo.ListExpenses(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list expenses: %w", err)
	}
	return expenses, nil
}

// SetSavingsGoal validates and stores a savings goal.
func (s *FinanceService) SetSavingsGoal(ctx context.Context, name string, target, saved decimal.Decimal, deadline string) (domain.SavingsGoal, error) {
	g, err := domain.NewSavingsGoal(s.userID, name, target, saved, deadline)
	if err != nil {
		return domain.SavingsGoal{}, err
	}

	ctx, span := tracer.Start(ctx, "FinanceService.SetSavingsGoal")
	defer span.End()

	stored, err := s.repo.SaveSavingsGoal(ctx, g)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save savings goal")
		return domain.SavingsGoal{}, fmt.Errorf("service: failed to save savings goal: %w", err)
	}

	metrics.SavingsGoalsSet.Inc()
	s.logger.Info("savings goal set",
		zap.Int64("goal_id", stored.ID),
		zap.String("goal_name", stored.Name),
		zap.String("target_amount", stored.TargetAmount.StringFixed(2)),
	)
	return stored, nil
}

func (s *FinanceService) ListSavingsGoals(ctx context.Context) ([]domain.SavingsGoal, error) {
	goals, err := s.repo.ListSavingsGoals(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list savings goals: %w", err)
	}
	return goals, nil
}

func (s *FinanceService) BudgetingAdvice() []string {
	return domain.BudgetingAdvice()
}

func (s *FinanceService) SavingsTips() []string {
	return domain.SavingsTips()
}

// Ready reports whether the backing store is reachable.
func (s *FinanceService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
