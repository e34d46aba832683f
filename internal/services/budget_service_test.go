package services

import (
	"testing"

	"mahindaexpress/internal/domain/models"
)

func TestBudgetBandThresholds(t *testing.T) {
	var svc BudgetService

	cases := []struct {
		usage float64
		want  BudgetBand
	}{
		{0, BandOK},
		{70, BandOK},
		{70.1, BandWarning},
		{90, BandWarning},
		{90.1, BandCritical},
		{100, BandCritical},
		{100.1, BandBreached},
		{250, BandBreached},
	}
	for _, c := range cases {
		if got := svc.Band(c.usage); got != c.want {
			t.Fatalf("Band(%.1f) = %s, want %s", c.usage, got, c.want)
		}
	}
}

func TestUsagePercent(t *testing.T) {
	var svc BudgetService

	b := models.Budget{TargetAmount: 200000, ActualAmount: 150000}
	if got := svc.UsagePercent(b); got != 75 {
		t.Fatalf("usage = %.1f, want 75", got)
	}
	if got := svc.UsagePercent(models.Budget{TargetAmount: 0, ActualAmount: 5000}); got != 0 {
		t.Fatalf("zero target must yield 0 usage, got %.1f", got)
	}
}

func TestSummarize(t *testing.T) {
	var svc BudgetService

	out := svc.Summarize([]models.Budget{
		{Category: "Fuel", TargetAmount: 100000, ActualAmount: 110000},
		{Category: "Parts", TargetAmount: 100000, ActualAmount: 50000},
	})
	if len(out) != 2 {
		t.Fatalf("got %d rows, want 2", len(out))
	}
	if out[0].Band != BandBreached {
		t.Fatalf("fuel budget should be BREACHED, got %s", out[0].Band)
	}
	if out[1].Band != BandOK {
		t.Fatalf("parts budget should be OK, got %s", out[1].Band)
	}
}
