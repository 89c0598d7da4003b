package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/pennywise/internal/core/domain"
)

type logExpenseRequest struct {
	Category string           `json:"category" validate:"required"`
	Amount   *decimal.Decimal `json:"amount" validate:"required"`
	Date     string           `json:"date" validate:"required,datetime=2006-01-02"`
}

type expenseResponse struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	Category    string      `json:"category"`
	Amount      json.Number `json:"amount"`
	ExpenseDate string      `json:"expense_date"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
}

func newExpenseResponse(e domain.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Category:    e.Category,
		Amount:      json.Number(e.Amount.StringFixed(2)),
		ExpenseDate: domain.FormatDate(e.Date),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

// LogExpense handles POST /log-expense
func (h *Handler) LogExpense(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	// 1. Decode and validate the request
	var req logExpenseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// 2. Call the service
	if _, err := h.finance.LogExpense(r.Context(), req.Category, *req.Amount, req.Date); err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("log expense failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error logging expense: "+err.Error())
		return
	}

	// 3. Respond
	writeJSON(w, http.StatusOK, map[string]string{"message": "Expense logged successfully"})
}

// ViewExpenses handles GET /view-expenses
func (h *Handler) ViewExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.finance.ListExpenses(r.Context())
	if err != nil {
		h.logger.Error("list expenses failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error retrieving expenses: "+err.Error())
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, newExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": out})
}
