package ports

import (
	"context"

	"github.com/ewilliams-labs/pennywise/internal/core/domain"
)

// FinanceRepository persists expenses and savings goals.
type FinanceRepository interface {
	SaveExpense(ctx context.Context, e domain.Expense) (domain.Expense, error)
	ListExpenses(ctx context.Context, userID int64) ([]domain.Expense, error)
	SaveSavingsGoal(ctx context.Context, g domain.SavingsGoal) (domain.SavingsGoal, error)
	ListSavingsGoals(ctx context.Context, userID int64) ([]domain.SavingsGoal, error)
	Ping(ctx context.Context) error
}
