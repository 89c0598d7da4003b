package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// APIExpenseDescription is attached to expenses logged over HTTP.
const APIExpenseDescription = "Expense logged via API"

// Amounts carry at most two decimal places and stay below maxAmount, the
// range every ledger store holds exactly.
const amountScale = 2

var maxAmount = decimal.New(1, 12)

func checkAmount(field string, d decimal.Decimal) error {
	if !d.Equal(d.Round(amountScale)) {
		return invalid(field, "must have at most two decimal places")
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return invalid(field, "must be less than 1000000000000")
	}
	return nil
}

// Expense is a single spending record.
type Expense struct {
	ID          int64
	UserID      int64
	Category    string
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	CreatedAt   time.Time
}

// NewExpense validates and builds an unsaved expense.
func NewExpense(userID int64, category string, amount decimal.Decimal, date, description string) (Expense, error) {
	if userID <= 0 {
		return Expense{}, invalid("user_id", "must be positive")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return Expense{}, invalid("category", "is required")
	}
	if amount.IsNegative() {
		return Expense{}, invalid("amount", "must not be negative")
	}
	if err := checkAmount("amount", amount); err != nil {
		return Expense{}, err
	}
	d, err := ParseDate(date)
	if err != nil {
		return Expense{}, invalid("date", "must be formatted YYYY-MM-DD")
	}
	return Expense{
		UserID:      userID,
		Category:    category,
		Amount:      amount,
		Date:        d,
		Description: description,
	}, nil
}

// SavingsGoal tracks progress toward a target amount.
type SavingsGoal struct {
	ID           int64
	UserID       int64
	Name         string
	TargetAmount decimal.Decimal
	SavedAmount  decimal.Decimal
	Deadline     time.Time
	CreatedAt    time.Time
}

// NewSavingsGoal validates and builds an unsaved goal.
func NewSavingsGoal(userID int64, name string, target, saved decimal.Decimal, deadline string) (SavingsGoal, error) {
	if userID <= 0 {
		return SavingsGoal{}, invalid("user_id", "must be positive")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return SavingsGoal{}, invalid("goal_name", "is required")
	}
	if !target.IsPositive() {
		return SavingsGoal{}, invalid("target_amount", "must be greater than zero")
	}
	if saved.IsNegative() {
		return SavingsGoal{}, invalid("saved_amount", "must not be negative")
	}
	if err := checkAmount("target_amount", target); err != nil {
		return SavingsGoal{}, err
	}
	if err := checkAmount("saved_amount", saved); err != nil {
		return SavingsGoal{}, err
	}
	d, err := ParseDate(deadline)
	if err != nil {
		return SavingsGoal{}, invalid("deadline", "must be formatted YYYY-MM-DD")
	}
	return SavingsGoal{
		UserID:       userID,
		Name:         name,
		TargetAmount: target,
		SavedAmount:  saved,
		Deadline:     d,
	}, nil
}

// Progress is the saved fraction of the target, capped at 1.
func (g SavingsGoal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.SavedAmount.Div(g.TargetAmount)
	if p.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return p
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
