// Package simulation sweeps a payout structure over achievement levels to
// expose how payout responds to performance.
package simulation

import (
	"github.com/iwvelando/payout-simulator/pkg/compensation"
	"github.com/iwvelando/payout-simulator/pkg/constants"
	"github.com/iwvelando/payout-simulator/pkg/mathutil"
)

// Point is the annual variable pay at one achievement level. Continuity
// bonuses are left out because they depend on quarter-to-quarter history.
type Point struct {
	AchievementPct           float64 `json:"achievementPct"`
	Commission               float64 `json:"commission"`
	QuarterlyBonus           float64 `json:"quarterlyBonus"`
	TotalExcludingContinuity float64 `json:"totalExcludingContinuity"`
}

// ROIPoint relates revenue to payout at one achievement level.
type ROIPoint struct {
	AchievementPct float64 `json:"achievementPct"`
	Revenue        float64 `json:"revenue"`
	Payout         float64 `json:"payout"`
	ROI            float64 `json:"roi"`
}

// Levels returns achievement levels 0, step, 2*step, ... up to max inclusive.
func Levels(step, max float64) []float64 {
	if step <= 0 {
		return nil
	}
	n := int(max/step) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * step
	}
	return out
}

// At evaluates one achievement level: every month of baseSales is scaled by
// achievement/100, commission is summed over the scaled year and the
// quarterly bonus for that achievement is paid four times.
func At(s compensation.Structure, baseSales [constants.MonthsPerYear]float64, fte, achievement float64) Point {
	var scaled [constants.MonthsPerYear]float64
	for m, v := range baseSales {
		scaled[m] = v * achievement / constants.PercentageMultiplier
	}

	var commission float64
	for m, v := range scaled {
		commission += s.MonthlyCommission(v, fte, m, scaled[:])
	}
	quarterly := s.QuarterlyBonus(achievement, fte) * constants.QuartersPerYear

	return Point{
		AchievementPct:           achievement,
		Commission:               commission,
		QuarterlyBonus:           quarterly,
		TotalExcludingContinuity: commission + quarterly,
	}
}

// Elasticity sweeps achievement from 0% to 200% in 5% steps, 41 points.
func Elasticity(s compensation.Structure, baseSales [constants.MonthsPerYear]float64, fte float64) []Point {
	levels := Levels(constants.ElasticityStep, constants.MaxAchievement)
	points := make([]Point, len(levels))
	for i, a := range levels {
		points[i] = At(s, baseSales, fte, a)
	}
	return points
}

// ROI sweeps achievement from 0% to 200% in 10% steps, 21 points. Revenue is
// the yearly target scaled by achievement; ROI is revenue per unit of payout
// and is reported as 0 when nothing is paid.
func ROI(s compensation.Structure, baseSales [constants.MonthsPerYear]float64, yearlyTarget, fte float64) []ROIPoint {
	levels := Levels(constants.ROIStep, constants.MaxAchievement)
	points := make([]ROIPoint, len(levels))
	for i, a := range levels {
		payout := At(s, baseSales, fte, a).TotalExcludingContinuity
		revenue := yearlyTarget * a / constants.PercentageMultiplier
		roi := 0.0
		if payout > 0 {
			roi = revenue / payout
		}
		points[i] = ROIPoint{AchievementPct: a, Revenue: revenue, Payout: payout, ROI: roi}
	}
	return points
}

// Find returns the point whose achievement equals a exactly.
func Find(points []Point, a float64) (Point, bool) {
	for _, p := range points {
		if p.AchievementPct == a {
			return p, true
		}
	}
	return Point{}, false
}

// Marginal summarises the ROI curve around target achievement.
type Marginal struct {
	RevenuePerEuroAtTarget float64 `json:"revenuePerEuroAtTarget"`
	MarginalRevenue        float64 `json:"marginalRevenue"`
	MarginalCompensation   float64 `json:"marginalCompensation"`
	MarginalROI            float64 `json:"marginalRoi"`
}

// MarginalAtTarget measures revenue and payout change per achievement point
// between the 90% and 110% neighbours of the target point. Missing
// neighbours leave the marginal values at zero.
func MarginalAtTarget(points []ROIPoint) Marginal {
	var m Marginal
	idx := -1
	for i, p := range points {
		if p.AchievementPct == constants.TargetAchievement {
			idx = i
			break
		}
	}
	if idx < 0 {
		return m
	}

	m.RevenuePerEuroAtTarget = points[idx].ROI
	if idx > 0 && idx < len(points)-1 {
		lo, hi := points[idx-1], points[idx+1]
		span := hi.AchievementPct - lo.AchievementPct
		m.MarginalRevenue = mathutil.SafeDivide(hi.Revenue-lo.Revenue, span)
		m.MarginalCompensation = mathutil.SafeDivide(hi.Payout-lo.Payout, span)
		m.MarginalROI = mathutil.SafeDivide(m.MarginalRevenue, m.MarginalCompensation)
	}
	return m
}
