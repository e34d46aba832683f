package services

import (
	"mahindaexpress/internal/domain/models"
)

// BudgetBand labels how far actual spend has eaten into the target.
type BudgetBand string

const (
	BandOK       BudgetBand = "OK"
	BandWarning  BudgetBand = "WARNING"
	BandCritical BudgetBand = "CRITICAL"
	BandBreached BudgetBand = "BREACHED"
)

// BudgetService derives usage percentages and band labels for budgets.
type BudgetService struct{}

// UsagePercent is actual/target*100. A zero or negative target yields 0.
func (BudgetService) UsagePercent(b models.Budget) float64 {
	if b.TargetAmount <= 0 {
		return 0
	}
	return float64(b.ActualAmount) / float64(b.TargetAmount) * 100
}

// Band applies the 70/90/100 thresholds: OK up to 70 inclusive, WARNING up
// to 90 inclusive, CRITICAL up to 100 inclusive, BREACHED above.
func (BudgetService) Band(usage float64) BudgetBand {
	switch {
	case usage > 100:
		return BandBreached
	case usage > 90:
		return BandCritical
	case usage > 70:
		return BandWarning
	default:
		return BandOK
	}
}

// BudgetStatus is a budget row decorated for the summary table.
type BudgetStatus struct {
	models.Budget
	UsagePercent float64    `json:"usagePercent"`
	Band         BudgetBand `json:"band"`
}

// Summarize decorates budgets with usage and band.
func (s BudgetService) Summarize(budgets []models.Budget) []BudgetStatus {
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		usage := s.UsagePercent(b)
		out = append(out, BudgetStatus{
			Budget:       b,
			UsagePercent: usage,
			Band:         s.Band(usage),
		})
	}
	return out
}
