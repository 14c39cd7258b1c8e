// Package risk checks what a payout structure costs the business at low,
// target and high achievement.
package risk

import (
	"github.com/iwvelando/payout-simulator/pkg/compensation"
	"github.com/iwvelando/payout-simulator/pkg/constants"
	"github.com/iwvelando/payout-simulator/pkg/mathutil"
)

// Rating is the overall risk verdict.
type Rating string

const (
	RatingLow    Rating = "Low"
	RatingMedium Rating = "Medium"
	RatingHigh   Rating = "High"
)

// Recommendation returns the guidance attached to a rating.
func (r Rating) Recommendation() string {
	switch r {
	case RatingHigh:
		return "The compensation structure carries significant financial risk at high achievement levels. Consider capping bonuses or a declining rate above 130%."
	case RatingMedium:
		return "The compensation structure is moderately risky at target achievement. Consider moving thresholds to align better with business margins."
	default:
		return "The compensation structure aligns performance and payout well. The risk to profitability stays small even at high achievement levels."
	}
}

// Scenario is one fixed achievement level evaluated for risk.
type Scenario struct {
	Name            string  `json:"name"`
	AchievementPct  float64 `json:"achievementPct"`
	Payout          float64 `json:"payout"`
	Revenue         float64 `json:"revenue"`
	Profit          float64 `json:"profit"`
	PayoutPctProfit float64 `json:"payoutPctOfProfit"`
}

// Assessment is the outcome of a risk check.
type Assessment struct {
	Low            Scenario `json:"low"`
	Target         Scenario `json:"target"`
	High           Scenario `json:"high"`
	Rating         Rating   `json:"rating"`
	Recommendation string   `json:"recommendation"`
}

func evaluate(s compensation.Structure, name string, achievement, yearlyTarget, fte float64) Scenario {
	scale := achievement / constants.PercentageMultiplier

	var in compensation.Input
	in.FTE = fte
	for q := range in.QuarterlyAchievement {
		in.QuarterlyAchievement[q] = achievement
	}
	for m := range in.MonthlySales {
		in.MonthlySales[m] = constants.RiskBaselineMonthlySales * scale
	}

	payout := s.TotalPayout(in).TotalPayout
	revenue := yearlyTarget * scale
	profit := revenue * constants.ProfitMargin
	return Scenario{
		Name:            name,
		AchievementPct:  achievement,
		Payout:          payout,
		Revenue:         revenue,
		Profit:          profit,
		PayoutPctProfit: mathutil.CalculatePercentage(payout, profit),
	}
}

// Assess evaluates the structure at 80%, 100% and 150% achievement against
// a 30% profit margin on the scaled yearly target. The structure is rated
// High when payout exceeds 30% of profit at 150%, Medium when it exceeds 20%
// of profit at target and Low otherwise.
func Assess(s compensation.Structure, yearlyTarget, fte float64) Assessment {
	a := Assessment{
		Low:    evaluate(s, "low", 80, yearlyTarget, fte),
		Target: evaluate(s, "target", 100, yearlyTarget, fte),
		High:   evaluate(s, "high", 150, yearlyTarget, fte),
	}

	switch {
	case a.High.PayoutPctProfit > 30:
		a.Rating = RatingHigh
	case a.Target.PayoutPctProfit > 20:
		a.Rating = RatingMedium
	default:
		a.Rating = RatingLow
	}
	a.Recommendation = a.Rating.Recommendation()
	return a
}
