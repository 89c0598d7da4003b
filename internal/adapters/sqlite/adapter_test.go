package sqlite

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ewilliams-labs/pennywise/internal/core/domain"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAdapter_Expenses(t *testing.T) {
	tests := []struct {
		name      string
		seed      []domain.Expense
		userID    int64
		wantCount int
		wantFirst string
	}{
		{
			name:      "empty ledger",
			userID:    1,
			wantCount: 0,
		},
		{
			name: "returns only the user's expenses ordered by date",
			seed: []domain.Expense{
				mustExpense(t, 1, "Rent", "1200.00", "2024-05-03"),
				mustExpense(t, 1, "Food", "20.50", "2024-05-01"),
				mustExpense(t, 2, "Travel", "300", "2024-05-02"),
			},
			userID:    1,
			wantCount: 2,
			wantFirst: "Food",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t)
			ctx := context.Background()

			for _, e := range tt.seed {
				saved, err := a.SaveExpense(ctx, e)
				if err != nil {
					t.Fatalf("save expense: %v", err)
				}
				if saved.ID == 0 {
					t.Fatalf("expected generated id")
				}
			}

			got, err := a.ListExpenses(ctx, tt.userID)
			if err != nil {
				t.Fatalf("list expenses: %v", err)
			}
			if got == nil {
				t.Fatalf("expected empty slice, got nil")
			}
			if len(got) != tt.wantCount {
				t.Fatalf("count: got %d, want %d", len(got), tt.wantCount)
			}
			if tt.wantCount == 0 {
				return
			}
			first := got[0]
			if first.Category != tt.wantFirst {
				t.Fatalf("first category: got %q, want %q", first.Category, tt.wantFirst)
			}
			if !first.Amount.Equal(decimal.RequireFromString("20.50")) {
				t.Fatalf("amount not preserved: %s", first.Amount)
			}
			if domain.FormatDate(first.Date) != "2024-05-01" {
				t.Fatalf("date not preserved: %s", domain.FormatDate(first.Date))
			}
			if first.Description != domain.APIExpenseDescription {
				t.Fatalf("description not preserved: %q", first.Description)
			}
			if first.CreatedAt.IsZero() {
				t.Fatalf("created_at not populated")
			}
		})
	}
}

func TestAdapter_SavingsGoals(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	goal, err := domain.NewSavingsGoal(1, "Emergency Fund", decimal.NewFromInt(5000), decimal.RequireFromString("125.25"), "2030-01-01")
	if err != nil {
		t.Fatalf("new goal: %v", err)
	}
	saved, err := a.SaveSavingsGoal(ctx, goal)
	if err != nil {
		t.Fatalf("save goal: %v", err)
	}
	if saved.ID == 0 {
		t.Fatalf("expected generated id")
	}

	got, err := a.ListSavingsGoals(ctx, 1)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(got))
	}
	if got[0].Name != "Emergency Fund" {
		t.Fatalf("name: got %q", got[0].Name)
	}
	if !got[0].TargetAmount.Equal(decimal.NewFromInt(5000)) || !got[0].SavedAmount.Equal(decimal.RequireFromString("125.25")) {
		t.Fatalf("amounts not preserved: %+v", got[0])
	}
	if domain.FormatDate(got[0].Deadline) != "2030-01-01" {
		t.Fatalf("deadline: got %s", domain.FormatDate(got[0].Deadline))
	}

	other, err := a.ListSavingsGoals(ctx, 99)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no goals for another user, got %d", len(other))
	}
}

func TestAdapter_Ping(t *testing.T) {
	a := newTestAdapter(t)
	if err := a.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func mustExpense(t *testing.T, userID int64, category, amount, date string) domain.Expense {
	t.Helper()
	e, err := domain.NewExpense(userID, category, decimal.RequireFromString(amount), date, domain.APIExpenseDescription)
	if err != nil {
		t.Fatalf("new expense: %v", err)
	}
	return e
}
