// Package compensation computes commissions, quarterly bonuses and continuity
// bonuses for one year of sales performance.
//
// Everything in this package is a pure function of its inputs. Degenerate
// tables or inputs produce arithmetic results, never errors; configuration
// problems are caught by validation before a Structure is built.
package compensation

import (
	"github.com/iwvelando/payout-simulator/pkg/constants"
	"github.com/iwvelando/payout-simulator/pkg/mathutil"
	"github.com/iwvelando/payout-simulator/pkg/rolling"
	"github.com/iwvelando/payout-simulator/pkg/tier"
)

// Structure is a complete payout structure.
type Structure struct {
	// Commission tiers carry fractional rates and accumulate marginally.
	Commission tier.Table `json:"commission"`
	// Quarterly tiers carry flat amounts keyed on quarterly achievement.
	Quarterly tier.Table `json:"quarterly"`
	// Continuity tiers carry flat amounts paid when two consecutive quarters
	// reach ContinuityThreshold.
	Continuity          tier.Table     `json:"continuity"`
	ContinuityThreshold float64        `json:"continuityThreshold"`
	Rolling             rolling.Config `json:"rollingAverage"`
	// QuarterlyWeights are stored alongside the structure but take no part in
	// payout maths.
	QuarterlyWeights [constants.QuartersPerYear]float64 `json:"quarterlyWeights"`
}

// Clone returns a deep copy of the structure.
func (s Structure) Clone() Structure {
	out := s
	out.Commission = s.Commission.Clone()
	out.Quarterly = s.Quarterly.Clone()
	out.Continuity = s.Continuity.Clone()
	return out
}

// Input is one performance profile: a year of monthly sales, four quarterly
// achievement percentages and the employee's FTE.
type Input struct {
	MonthlySales         [constants.MonthsPerYear]float64   `json:"monthlySales"`
	QuarterlyAchievement [constants.QuartersPerYear]float64 `json:"quarterlyAchievement"`
	FTE                  float64                            `json:"fte"`
}

// MonthlyCommission returns the commission for one month. The sales figure is first
// smoothed by the rolling adjuster using months as history, then spread over
// the marginal tiers. Nothing is paid at or below the FTE cutoff.
func (s Structure) MonthlyCommission(sales, fte float64, period int, months []float64) float64 {
	if fte <= constants.FTECommissionCutoff {
		return 0
	}
	value := s.Rolling.Smooth(sales, period, months)
	return s.Commission.Marginal(value)
}

// QuarterlyBonus returns the flat bonus of the first quarterly tier containing
// achievement, prorated by fte.
func (s Structure) QuarterlyBonus(achievement, fte float64) float64 {
	return s.Quarterly.Flat(achievement) * fte
}

// ContinuityBonus pays only when both the previous and the current quarter
// reach the continuity threshold; the amount is keyed on the current quarter.
func (s Structure) ContinuityBonus(previous, current, fte float64) float64 {
	if previous < s.ContinuityThreshold || current < s.ContinuityThreshold {
		return 0
	}
	return s.Continuity.Flat(current) * fte
}

// Result is the full payout breakdown for one year.
type Result struct {
	Commissions          [constants.MonthsPerYear]float64   `json:"commissions"`
	QuarterlyBonuses     [constants.QuartersPerYear]float64 `json:"quarterlyBonuses"`
	ContinuityBonuses    [constants.QuartersPerYear]float64 `json:"continuityBonuses"`
	TotalCommission      float64                            `json:"totalCommission"`
	TotalQuarterlyBonus  float64                            `json:"totalQuarterlyBonus"`
	TotalContinuityBonus float64                            `json:"totalContinuityBonus"`
	TotalPayout          float64                            `json:"totalPayout"`
	YearlyRevenue        float64                            `json:"yearlyRevenue"`
	AvgAchievement       float64                            `json:"avgAchievement"`
}

// TotalPayout computes every component for a year. The first quarter never
// earns a continuity bonus because it has no predecessor.
func (s Structure) TotalPayout(in Input) Result {
	var r Result

	for q, achievement := range in.QuarterlyAchievement {
		r.QuarterlyBonuses[q] = s.QuarterlyBonus(achievement, in.FTE)
		r.TotalQuarterlyBonus += r.QuarterlyBonuses[q]
		if q > 0 {
			r.ContinuityBonuses[q] = s.ContinuityBonus(in.QuarterlyAchievement[q-1], achievement, in.FTE)
			r.TotalContinuityBonus += r.ContinuityBonuses[q]
		}
	}

	months := in.MonthlySales[:]
	for m, sales := range in.MonthlySales {
		r.Commissions[m] = s.MonthlyCommission(sales, in.FTE, m, months)
		r.TotalCommission += r.Commissions[m]
		r.YearlyRevenue += sales
	}

	r.TotalPayout = r.TotalCommission + r.TotalQuarterlyBonus + r.TotalContinuityBonus
	r.AvgAchievement = mathutil.Mean(in.QuarterlyAchievement[:])
	return r
}
