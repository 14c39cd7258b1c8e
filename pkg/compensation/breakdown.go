package compensation

import (
	"github.com/iwvelando/payout-simulator/pkg/constants"
	"github.com/iwvelando/payout-simulator/pkg/mathutil"
)

// QuarterTotal is the payout attributed to one quarter.
type QuarterTotal struct {
	Quarter         int     `json:"quarter"`
	Commission      float64 `json:"commission"`
	QuarterlyBonus  float64 `json:"quarterlyBonus"`
	ContinuityBonus float64 `json:"continuityBonus"`
	Total           float64 `json:"total"`
}

// QuarterTotals splits the result into four quarters, each carrying its own
// bonuses and the commissions of its three months.
func (r Result) QuarterTotals() [constants.QuartersPerYear]QuarterTotal {
	var out [constants.QuartersPerYear]QuarterTotal
	for q := range out {
		var commission float64
		for m := q * constants.MonthsPerQuarter; m < (q+1)*constants.MonthsPerQuarter; m++ {
			commission += r.Commissions[m]
		}
		out[q] = QuarterTotal{
			Quarter:         q + 1,
			Commission:      commission,
			QuarterlyBonus:  r.QuarterlyBonuses[q],
			ContinuityBonus: r.ContinuityBonuses[q],
			Total:           commission + r.QuarterlyBonuses[q] + r.ContinuityBonuses[q],
		}
	}
	return out
}

// MonthRow is one month of the payout schedule. Quarterly and continuity
// bonuses are booked in the last month of their quarter.
type MonthRow struct {
	Month           int     `json:"month"`
	Sales           float64 `json:"sales"`
	Commission      float64 `json:"commission"`
	QuarterlyBonus  float64 `json:"quarterlyBonus"`
	ContinuityBonus float64 `json:"continuityBonus"`
	Total           float64 `json:"total"`
}

// MonthlyBreakdown lays the result out as a twelve month payout schedule.
func (r Result) MonthlyBreakdown(in Input) [constants.MonthsPerYear]MonthRow {
	var rows [constants.MonthsPerYear]MonthRow
	for m := range rows {
		row := MonthRow{
			Month:      m + 1,
			Sales:      in.MonthlySales[m],
			Commission: r.Commissions[m],
		}
		if (m+1)%constants.MonthsPerQuarter == 0 {
			q := m / constants.MonthsPerQuarter
			row.QuarterlyBonus = r.QuarterlyBonuses[q]
			row.ContinuityBonus = r.ContinuityBonuses[q]
		}
		row.Total = row.Commission + row.QuarterlyBonus + row.ContinuityBonus
		rows[m] = row
	}
	return rows
}

// KPIs are the headline indicators shown next to a payout result.
type KPIs struct {
	RevenueVsTargetPct       float64 `json:"revenueVsTargetPct"`
	PayoutPctOfRevenue       float64 `json:"payoutPctOfRevenue"`
	AverageMonthlyCommission float64 `json:"averageMonthlyCommission"`
	// NextQuarterlyThreshold is the lowest quarterly threshold above the
	// average achievement; HasNextThreshold is false at the top tier.
	NextQuarterlyThreshold float64 `json:"nextQuarterlyThreshold"`
	DistanceToNext         float64 `json:"distanceToNext"`
	HasNextThreshold       bool    `json:"hasNextThreshold"`
	// YearEndProjection is the full-year payout rounded to cents. The
	// profile always covers twelve months, so nothing is extrapolated.
	YearEndProjection float64 `json:"yearEndProjection"`
}

// ComputeKPIs derives the headline indicators for a result.
func ComputeKPIs(s Structure, r Result, yearlyTarget float64) KPIs {
	k := KPIs{
		RevenueVsTargetPct:       mathutil.CalculatePercentage(r.YearlyRevenue, yearlyTarget),
		PayoutPctOfRevenue:       mathutil.CalculatePercentage(r.TotalPayout, r.YearlyRevenue),
		AverageMonthlyCommission: r.TotalCommission / constants.MonthsPerYear,
		YearEndProjection:        mathutil.RoundCents(r.TotalPayout),
	}
	if next, ok := s.Quarterly.NextThreshold(r.AvgAchievement); ok {
		k.NextQuarterlyThreshold = next
		k.DistanceToNext = next - r.AvgAchievement
		k.HasNextThreshold = true
	}
	return k
}
