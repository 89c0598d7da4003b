package domain

var budgetingAdvice = []string{
	"Track your expenses daily.",
	"Set aside at least 20% of your income for savings.",
	"Review your spending monthly and adjust your budget.",
}

var savingsTips = []string{
	"Automate your savings to ensure consistency.",
	"Cut down on non-essential expenses.",
	"Create an emergency fund for unexpected situations.",
}

// BudgetingAdvice returns a fresh copy of the static budgeting advice.
func BudgetingAdvice() []string {
	return append([]string(nil), budgetingAdvice...)
}

// SavingsTips returns a fresh copy of the static savings tips.
func SavingsTips() []string {
	return append([]string(nil), savingsTips...)
}
