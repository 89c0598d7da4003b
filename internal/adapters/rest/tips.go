package rest

import "net/http"

// BudgetingAdvice handles GET /get-budgeting-advice
func (h *Handler) BudgetingAdvice(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"budgeting_advice": h.finance.BudgetingAdvice()})
}

// SavingsTips handles GET /get-savings-tips
func (h *Handler) SavingsTips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"savings_tips": h.finance.SavingsTips()})
}
