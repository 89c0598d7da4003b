package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ewilliams-labs/pennywise/internal/core/domain"
)

type mockRepo struct {
	expenses []domain.Expense
	goals    []domain.SavingsGoal
	saveErr  error
	listErr  error
	pingErr  error
}

func (m *mockRepo) SaveExpense(_ context.Context, e domain.Expense) (domain.Expense, error) {
	if m.saveErr != nil {
		return domain.Expense{}, m.saveErr
	}
	e.ID = int64(len(m.expenses) + 1)
	m.expenses = append(m.expenses, e)
	return e, nil
}

func (m *mockRepo) ListExpenses(_ context.Context, userID int64) ([]domain.Expense, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []domain.Expense{}
	for _, e := range m.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockRepo) SaveSavingsGoal(_ context.Context, g domain.SavingsGoal) (domain.SavingsGoal, error) {
	if m.saveErr != nil {
		return domain.SavingsGoal{}, m.saveErr
	}
	g.ID = int64(len(m.goals) + 1)
	m.goals = append(m.goals, g)
	return g, nil
}

func (m *mockRepo) ListSavingsGoals(_ context.Context, userID int64) ([]domain.SavingsGoal, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []domain.SavingsGoal{}
	for _, g := range m.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockRepo) Ping(context.Context) error { return m.pingErr }

func TestFinanceService_LogExpense(t *testing.T) {
	tests := []struct {
		name      string
		repo      mockRepo
		category  string
		amount    string
		date      string
		wantErr   bool
		wantInput bool
		wantSaved int
	}{
		{
			name:      "Happy Path",
			category:  "Food",
			amount:    "20.50",
			date:      "2024-05-01",
			wantSaved: 1,
		},
		{
			name:      "Zero amount is allowed",
			category:  "Misc",
			amount:    "0",
			date:      "2024-05-01",
			wantSaved: 1,
		},
		{
			name:      "Negative amount",
			category:  "Food",
			amount:    "-1",
			date:      "2024-05-01",
			wantErr:   true,
			wantInput: true,
		},
		{
			name:      "Missing category",
			category:  " ",
			amount:    "5",
			date:      "2024-05-01",
			wantErr:   true,
			wantInput: true,
		},
		{
			name:      "Bad date",
			category:  "Food",
			amount:    "5",
			date:      "01/05/2024",
			wantErr:   true,
			wantInput: true,
		},
		{
			name:     "Repository error",
			repo:     mockRepo{saveErr: errors.New("disk full")},
			category: "Food",
			amount:   "5",
			date:     "2024-05-01",
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := tc.repo
			svc := NewFinanceService(&repo, 1, zaptest.NewLogger(t))

			got, err := svc.LogExpense(context.Background(), tc.category, decimal.RequireFromString(tc.amount), tc.date)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, tc.wantInput, errors.Is(err, domain.ErrInvalidArgument))
				assert.Empty(t, repo.expenses)
				return
			}
			require.NoError(t, err)
			assert.Len(t, repo.expenses, tc.wantSaved)
			assert.Equal(t, int64(1), got.UserID)
			assert.Equal(t, domain.APIExpenseDescription, got.Description)
			assert.NotZero(t, got.ID)
		})
	}
}

func TestFinanceService_ListExpenses_ScopedToUser(t *testing.T) {
	repo := &mockRepo{}
	mine := NewFinanceService(repo, 1, nil)
	theirs := NewFinanceService(repo, 2, nil)
	ctx := context.Background()

	_, err := mine.LogExpense(ctx, "Food", decimal.NewFromInt(10), "2024-05-01")
	require.NoError(t, err)
	_, err = theirs.LogExpense(ctx, "Rent", decimal.NewFromInt(900), "2024-05-01")
	require.NoError(t, err)

	got, err := mine.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Food", got[0].Category)
}

func TestFinanceService_ListExpenses_Error(t *testing.T) {
	svc := NewFinanceService(&mockRepo{listErr: errors.New("no such table")}, 1, nil)

	_, err := svc.ListExpenses(context.Background())
	assert.ErrorContains(t, err, "no such table")
	assert.False(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestFinanceService_SetSavingsGoal(t *testing.T) {
	tests := []struct {
		name      string
		goalName  string
		target    string
		saved     string
		deadline  string
		wantInput bool
	}{
		{name: "Happy Path", goalName: "Vacation", target: "1500", saved: "0", deadline: "2025-06-30"},
		{name: "Zero target", goalName: "Vacation", target: "0", saved: "0", deadline: "2025-06-30", wantInput: true},
		{name: "Negative saved", goalName: "Vacation", target: "10", saved: "-5", deadline: "2025-06-30", wantInput: true},
		{name: "Missing name", goalName: "", target: "10", saved: "0", deadline: "2025-06-30", wantInput: true},
		{name: "Bad deadline", goalName: "Vacation", target: "10", saved: "0", deadline: "tomorrow", wantInput: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockRepo{}
			svc := NewFinanceService(repo, 1, zaptest.NewLogger(t))

			g, err := svc.SetSavingsGoal(context.Background(), tc.goalName,
				decimal.RequireFromString(tc.target), decimal.RequireFromString(tc.saved), tc.deadline)
			if tc.wantInput {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				assert.Empty(t, repo.goals)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.goalName, g.Name)

			goals, err := svc.ListSavingsGoals(context.Background())
			require.NoError(t, err)
			assert.Len(t, goals, 1)
		})
	}
}

func TestFinanceService_Tips(t *testing.T) {
	svc := NewFinanceService(&mockRepo{}, 1, nil)

	advice := svc.BudgetingAdvice()
	require.Len(t, advice, 3)
	assert.Equal(t, "Track your expenses daily.", advice[0])

	tips := svc.SavingsTips()
	require.Len(t, tips, 3)
	assert.Equal(t, "Automate your savings to ensure consistency.", tips[0])
}

func TestFinanceService_Ready(t *testing.T) {
	assert.NoError(t, NewFinanceService(&mockRepo{}, 1, nil).Ready(context.Background()))
	assert.Error(t, NewFinanceService(&mockRepo{pingErr: errors.New("down")}, 1, nil).Ready(context.Background()))
}
