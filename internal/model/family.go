package model

// Family is the household sharing inventory, budget and meal plans.
type Family struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	BudgetLimit float64 `json:"budgetLimit"`
	Currency    string  `json:"currency"`
}
