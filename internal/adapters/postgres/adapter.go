// Package postgres provides a PostgreSQL-backed implementation of the finance
// repository port using lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/ewilliams-labs/pennywise/internal/config"
	"github.com/ewilliams-labs/pennywise/internal/core/domain"
	"github.com/ewilliams-labs/pennywise/internal/core/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS expenses (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	category TEXT NOT NULL,
	amount NUMERIC(14, 2) NOT NULL,
	expense_date DATE NOT NULL,
	description TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_expenses_user ON expenses(user_id);

CREATE TABLE IF NOT EXISTS savings_goals (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	goal_name TEXT NOT NULL,
	target_amount NUMERIC(14, 2) NOT NULL,
	saved_amount NUMERIC(14, 2) NOT NULL DEFAULT 0,
	deadline DATE NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_savings_goals_user ON savings_goals(user_id);
`

// Adapter implements ports.FinanceRepository on PostgreSQL.
type Adapter struct {
	db *sql.DB
}

var _ ports.FinanceRepository = (*Adapter)(nil)

// NewAdapter opens a pool, verifies it, and migrates the schema.
func NewAdapter(ctx context.Context, cfg config.PostgresConfig) (*Adapter, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	a, err := NewAdapterWithDB(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// NewAdapterWithDB wraps an existing pool and migrates the schema.
func NewAdapterWithDB(ctx context.Context, db *sql.DB) (*Adapter, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return &Adapter{db: db}, nil
}

func (a *Adapter) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *Adapter) SaveExpense(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	row := a.db.QueryRowContext(ctx, `
		INSERT INTO expenses (user_id, category, amount, expense_date, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		e.UserID, e.Category, e.Amount, domain.FormatDate(e.Date), e.Description,
	)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return domain.Expense{}, fmt.Errorf("failed to insert expense: %w", err)
	}
	return e, nil
}

func (a *Adapter) ListExpenses(ctx context.Context, userID int64) ([]domain.Expense, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, user_id, category, amount, to_char(expense_date, 'YYYY-MM-DD'), COALESCE(description, ''), created_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY expense_date ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		var e domain.Expense
		var date string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Category, &e.Amount, &date, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if e.Date, err = domain.ParseDate(date); err != nil {
			return nil, fmt.Errorf("expense %d has malformed date %q: %w", e.ID, date, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

func (a *Adapter) SaveSavingsGoal(ctx context.Context, g domain.SavingsGoal) (domain.SavingsGoal, error) {
	row := a.db.QueryRowContext(ctx, `
		INSERT INTO savings_goals (user_id, goal_name, target_amount, saved_amount, deadline)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		g.UserID, g.Name, g.TargetAmount, g.SavedAmount, domain.FormatDate(g.Deadline),
	)
	if err := row.Scan(&g.ID, &g.CreatedAt); err != nil {
		return domain.SavingsGoal{}, fmt.Errorf("failed to insert savings goal: %w", err)
	}
	return g, nil
}

func (a *Adapter) ListSavingsGoals(ctx context.Context, userID int64) ([]domain.SavingsGoal, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, user_id, goal_name, target_amount, saved_amount, to_char(deadline, 'YYYY-MM-DD'), created_at
		FROM savings_goals
		WHERE user_id = $1
		ORDER BY deadline ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load savings goals: %w", err)
	}
	defer rows.Close()

	goals := []domain.SavingsGoal{}
	for rows.Next() {
		var g domain.SavingsGoal
		var deadline string
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.SavedAmount, &deadline, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		if g.Deadline, err = domain.ParseDate(deadline); err != nil {
			return nil, fmt.Errorf("savings goal %d has malformed deadline %q: %w", g.ID, deadline, err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate savings goals: %w", err)
	}
	return goals, nil
}
