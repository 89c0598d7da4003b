// Package sqlite provides a SQLite-backed implementation of the finance repository port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ewilliams-labs/pennywise/internal/core/domain"
	"github.com/ewilliams-labs/pennywise/internal/core/ports"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
)

// Adapter implements the repository port for SQLite
type Adapter struct {
	db *sql.DB
}

var _ ports.FinanceRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and
	// serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	if err := adapter.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *Adapter) SaveExpense(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	e.CreatedAt = time.Now().UTC()
	res, err := a.db.ExecContext(ctx, `
		INSERT INTO expenses (user_id, category, amount, expense_date, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.UserID, e.Category, e.Amount, domain.FormatDate(e.Date), e.Description, e.CreatedAt)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("failed to insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Expense{}, fmt.Errorf("failed to read expense id: %w", err)
	}
	e.ID = id
	return e, nil
}

func (a *Adapter) ListExpenses(ctx context.Context, userID int64) ([]domain.Expense, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, user_id, category, amount, expense_date, IFNULL(description, ''), created_at
		FROM expenses
		WHERE user_id = ?
		ORDER BY expense_date ASC, id ASC
	`, userID)
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
	g.CreatedAt = time.Now().UTC()
	res, err := a.db.ExecContext(ctx, `
		INSERT INTO savings_goals (user_id, goal_name, target_amount, saved_amount, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, g.UserID, g.Name, g.TargetAmount, g.SavedAmount, domain.FormatDate(g.Deadline), g.CreatedAt)
	if err != nil {
		return domain.SavingsGoal{}, fmt.Errorf("failed to insert savings goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.SavingsGoal{}, fmt.Errorf("failed to read savings goal id: %w", err)
	}
	g.ID = id
	return g, nil
}

func (a *Adapter) ListSavingsGoals(ctx context.Context, userID int64) ([]domain.SavingsGoal, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, user_id, goal_name, target_amount, saved_amount, deadline, created_at
		FROM savings_goals
		WHERE user_id = ?
		ORDER BY deadline ASC, id ASC
	`, userID)
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

func (a *Adapter) migrate() error {
	// Amounts are stored as decimal text to keep cents exact.
	query := `
	CREATE TABLE IF NOT EXISTS expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		category TEXT NOT NULL,
		amount TEXT NOT NULL,
		expense_date TEXT NOT NULL,
		description TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_user ON expenses(user_id);

	CREATE TABLE IF NOT EXISTS savings_goals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		goal_name TEXT NOT NULL,
		target_amount TEXT NOT NULL,
		saved_amount TEXT NOT NULL DEFAULT '0',
		deadline TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_savings_goals_user ON savings_goals(user_id);
	`
	_, err := a.db.Exec(query)
	return err
}
