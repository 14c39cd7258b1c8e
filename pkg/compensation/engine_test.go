package compensation

import (
	"math"
	"testing"

	"github.com/iwvelando/payout-simulator/pkg/rolling"
	"github.com/iwvelando/payout-simulator/pkg/tier"
)

func balancedStructure() Structure {
	return Structure{
		Commission: tier.Table{
			{Threshold: 10000, UpTo: 25000, Rate: 0.02},
			{Threshold: 25000, UpTo: 40000, Rate: 0.04},
			{Threshold: 40000, UpTo: tier.Unbounded, Rate: 0.06},
		},
		Quarterly: tier.Table{
			{Threshold: 90, UpTo: 99, Rate: 1200},
			{Threshold: 100, UpTo: 104, Rate: 1600},
			{Threshold: 105, UpTo: 114, Rate: 2000},
			{Threshold: 115, UpTo: 129, Rate: 2400},
			{Threshold: 130, UpTo: tier.Unbounded, Rate: 2800},
		},
		Continuity: tier.Table{
			{Threshold: 100, UpTo: 104, Rate: 400},
			{Threshold: 105, UpTo: 114, Rate: 500},
			{Threshold: 115, UpTo: 129, Rate: 600},
			{Threshold: 130, UpTo: tier.Unbounded, Rate: 750},
		},
		ContinuityThreshold: 100,
		Rolling:             rolling.Config{Enabled: true, PreviousMonth1: 18000, PreviousMonth2: 19000},
		QuarterlyWeights:    [4]float64{25, 25, 25, 25},
	}
}

func defaultInput() Input {
	return Input{
		MonthlySales:         [12]float64{20000, 22000, 25000, 28000, 30000, 32000, 25000, 20000, 25000, 30000, 35000, 40000},
		QuarterlyAchievement: [4]float64{95, 105, 110, 120},
		FTE:                  1,
	}
}

func TestCommissionMarginalTiers(t *testing.T) {
	s := Structure{
		Commission: tier.Table{
			{Threshold: 0, UpTo: 10000, Rate: 0.02},
			{Threshold: 10000, UpTo: 25000, Rate: 0.04},
			{Threshold: 25000, UpTo: tier.Unbounded, Rate: 0.06},
		},
	}

	result := s.MonthlyCommission(30000, 1, 0, nil)
	if math.Abs(result-1100) > 1e-9 {
		t.Errorf("MonthlyCommission(30000) = %.4f, expected 1100.00", result)
	}
}

func TestCommissionMonotonic(t *testing.T) {
	s := balancedStructure()
	s.Rolling.Enabled = false

	previous := -1.0
	for sales := 0.0; sales <= 80000; sales += 250 {
		result := s.MonthlyCommission(sales, 1, 0, nil)
		if result < previous {
			t.Fatalf("MonthlyCommission(%.0f) = %.4f dropped below previous %.4f", sales, result, previous)
		}
		previous = result
	}
}

func TestCommissionMonotonicWithRolling(t *testing.T) {
	s := balancedStructure()
	in := defaultInput()
	months := in.MonthlySales[:]

	previous := -1.0
	for sales := 0.0; sales <= 80000; sales += 500 {
		result := s.MonthlyCommission(sales, 1, 4, months)
		if result < previous {
			t.Fatalf("MonthlyCommission(%.0f) = %.4f dropped below previous %.4f", sales, result, previous)
		}
		previous = result
	}
}

func TestCommissionFTECutoff(t *testing.T) {
	s := balancedStructure()
	s.Rolling.Enabled = false

	tests := []struct {
		name     string
		fte      float64
		positive bool
	}{
		{"Below cutoff", 0.5, false},
		{"At cutoff", 0.7, false},
		{"Just above cutoff", 0.70001, true},
		{"Full time", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.MonthlyCommission(50000, tt.fte, 0, nil)
			if tt.positive && result <= 0 {
				t.Errorf("MonthlyCommission(fte=%.5f) = %.2f, expected a positive amount", tt.fte, result)
			}
			if !tt.positive && result != 0 {
				t.Errorf("MonthlyCommission(fte=%.5f) = %.2f, expected 0", tt.fte, result)
			}
		})
	}
}

func TestCommissionIsNotProratedByFTE(t *testing.T) {
	s := balancedStructure()
	s.Rolling.Enabled = false

	if full, part := s.MonthlyCommission(30000, 1, 0, nil), s.MonthlyCommission(30000, 0.8, 0, nil); full != part {
		t.Errorf("MonthlyCommission differs by FTE above cutoff: %.2f vs %.2f", full, part)
	}
}

func TestQuarterlyBonus(t *testing.T) {
	s := balancedStructure()

	tests := []struct {
		name        string
		achievement float64
		fte         float64
		expected    float64
	}{
		{"Below first tier", 85, 1, 0},
		{"Inside first tier", 97, 1, 1200},
		{"Inside first tier part time", 97, 0.5, 600},
		{"First tier upper bound", 99, 1, 1200},
		{"Gap between 99 and 100", 99.5, 1, 0},
		{"Target", 100, 1, 1600},
		{"Top tier", 180, 1, 2800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.QuarterlyBonus(tt.achievement, tt.fte)
			if result != tt.expected {
				t.Errorf("QuarterlyBonus(%.1f, %.2f) = %.2f, expected %.2f", tt.achievement, tt.fte, result, tt.expected)
			}
		})
	}
}

func TestContinuityBonusGating(t *testing.T) {
	s := balancedStructure()

	tests := []struct {
		name     string
		previous float64
		current  float64
		expected float64
	}{
		{"Previous below threshold", 95, 105, 0},
		{"Current below threshold", 105, 95, 0},
		{"Both at threshold", 100, 100, 400},
		{"Both above", 110, 120, 600},
		{"Keyed on current quarter", 140, 106, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.ContinuityBonus(tt.previous, tt.current, 1)
			if result != tt.expected {
				t.Errorf("ContinuityBonus(%.0f, %.0f) = %.2f, expected %.2f", tt.previous, tt.current, result, tt.expected)
			}
		})
	}
}

func TestTotalPayout(t *testing.T) {
	s := balancedStructure()
	in := defaultInput()

	r := s.TotalPayout(in)

	if r.YearlyRevenue != 332000 {
		t.Errorf("YearlyRevenue = %.2f, expected 332000", r.YearlyRevenue)
	}
	if r.AvgAchievement != 107.5 {
		t.Errorf("AvgAchievement = %.2f, expected 107.50", r.AvgAchievement)
	}

	expectedQuarterly := [4]float64{1200, 2000, 2000, 2400}
	if r.QuarterlyBonuses != expectedQuarterly {
		t.Errorf("QuarterlyBonuses = %v, expected %v", r.QuarterlyBonuses, expectedQuarterly)
	}

	// Q1 has no predecessor, Q2 follows a 95% quarter.
	expectedContinuity := [4]float64{0, 0, 500, 600}
	if r.ContinuityBonuses != expectedContinuity {
		t.Errorf("ContinuityBonuses = %v, expected %v", r.ContinuityBonuses, expectedContinuity)
	}

	var commission float64
	for m, sales := range in.MonthlySales {
		commission += s.MonthlyCommission(sales, in.FTE, m, in.MonthlySales[:])
	}
	if math.Abs(r.TotalCommission-commission) > 1e-9 {
		t.Errorf("TotalCommission = %.4f, expected %.4f", r.TotalCommission, commission)
	}

	expectedTotal := r.TotalCommission + 7600 + 1100
	if math.Abs(r.TotalPayout-expectedTotal) > 1e-9 {
		t.Errorf("TotalPayout = %.4f, expected %.4f", r.TotalPayout, expectedTotal)
	}
}

func TestTotalPayoutFirstQuarterNeverContinuity(t *testing.T) {
	s := balancedStructure()
	in := defaultInput()
	in.QuarterlyAchievement = [4]float64{150, 150, 150, 150}

	r := s.TotalPayout(in)
	if r.ContinuityBonuses[0] != 0 {
		t.Errorf("ContinuityBonuses[0] = %.2f, expected 0", r.ContinuityBonuses[0])
	}
	if r.TotalContinuityBonus != 2250 {
		t.Errorf("TotalContinuityBonus = %.2f, expected 2250", r.TotalContinuityBonus)
	}
}

func TestTotalPayoutIdempotent(t *testing.T) {
	s := balancedStructure()
	in := defaultInput()

	first := s.TotalPayout(in)
	second := s.TotalPayout(in)
	if first != second {
		t.Errorf("TotalPayout is not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestTotalPayoutDegenerateTable(t *testing.T) {
	s := balancedStructure()
	s.Quarterly = tier.Table{{Threshold: 120, UpTo: 100, Rate: 5000}}
	s.Commission = nil

	r := s.TotalPayout(defaultInput())
	if r.TotalQuarterlyBonus != 0 || r.TotalCommission != 0 {
		t.Errorf("expected zero payouts from degenerate tables, got %+v", r)
	}
}
