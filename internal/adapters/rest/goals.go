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

type setSavingsGoalRequest struct {
	GoalName     string           `json:"goal_name" validate:"required"`
	TargetAmount *decimal.Decimal `json:"target_amount" validate:"required"`
	SavedAmount  *decimal.Decimal `json:"saved_amount"`
	Deadline     string           `json:"deadline" validate:"required,datetime=2006-01-02"`
}

type savingsGoalResponse struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"user_id"`
	GoalName     string      `json:"goal_name"`
	TargetAmount json.Number `json:"target_amount"`
	SavedAmount  json.Number `json:"saved_amount"`
	Progress     json.Number `json:"progress"`
	Deadline     string      `json:"deadline"`
	CreatedAt    time.Time   `json:"created_at"`
}

func newSavingsGoalResponse(g domain.SavingsGoal) savingsGoalResponse {
	return savingsGoalResponse{
		ID:           g.ID,
		UserID:       g.UserID,
		GoalName:     g.Name,
		TargetAmount: json.Number(g.TargetAmount.StringFixed(2)),
		SavedAmount:  json.Number(g.SavedAmount.StringFixed(2)),
		Progress:     json.Number(g.Progress().StringFixed(4)),
		Deadline:     domain.FormatDate(g.Deadline),
		CreatedAt:    g.CreatedAt,
	}
}

// SetSavingsGoal handles POST /set-savings-goal
func (h *Handler) SetSavingsGoal(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req setSavingsGoalRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	saved := decimal.Zero
	if req.SavedAmount != nil {
		saved = *req.SavedAmount
	}

	if _, err := h.finance.SetSavingsGoal(r.Context(), req.GoalName, *req.TargetAmount, saved, req.Deadline); err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("set savings goal failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error setting savings goal: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Savings goal set successfully"})
}

// ViewSavingsGoals handles GET /view-savings-goals
func (h *Handler) ViewSavingsGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.finance.ListSavingsGoals(r.Context())
	if err != nil {
		h.logger.Error("list savings goals failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error retrieving savings goals: "+err.Error())
		return
	}

	out := make([]savingsGoalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, newSavingsGoalResponse(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{"savings_goals": out})
}
