// Package elasticity measures how steeply payout rises inside fixed
// achievement bands of a simulation sweep.
package elasticity

import (
	"math"

	"github.com/iwvelando/payout-simulator/pkg/constants"
	"github.com/iwvelando/payout-simulator/pkg/mathutil"
	"github.com/iwvelando/payout-simulator/pkg/simulation"
)

// Band is an inclusive achievement range.
type Band struct {
	Name  string  `json:"name"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Bands are the analysed achievement ranges in ascending order.
var Bands = []Band{
	{Name: "0to40", Start: 0, End: 40},
	{Name: "41to70", Start: 41, End: 70},
	{Name: "71to89", Start: 71, End: 89},
	{Name: "90to99", Start: 90, End: 99},
	{Name: "100to104", Start: 100, End: 104},
	{Name: "105to114", Start: 105, End: 114},
	{Name: "115to129", Start: 115, End: 129},
	{Name: "130plus", Start: 130, End: 200},
}

// RangeResult is the analysis of one band. Elasticity is the secant slope of
// payout per achievement point across the band.
type RangeResult struct {
	Elasticity      float64 `json:"elasticity"`
	RevenuePerPoint float64 `json:"revenuePerPoint"`
	ROI             float64 `json:"roi"`
}

// BandResult pairs a band with its analysis.
type BandResult struct {
	Band
	RangeResult
}

func bandPoints(points []simulation.Point, b Band) []simulation.Point {
	var in []simulation.Point
	for _, p := range points {
		if p.AchievementPct >= b.Start && p.AchievementPct <= b.End {
			in = append(in, p)
		}
	}
	return in
}

func slope(in []simulation.Point) (float64, bool) {
	if len(in) < 2 {
		return 0, false
	}
	first, last := in[0], in[len(in)-1]
	return mathutil.SafeDivide(last.TotalExcludingContinuity-first.TotalExcludingContinuity,
		last.AchievementPct-first.AchievementPct), true
}

// Analyze evaluates one band. Bands holding fewer than two sweep points are
// reported as all zeros.
func Analyze(points []simulation.Point, b Band, yearlyTarget float64) RangeResult {
	e, ok := slope(bandPoints(points, b))
	if !ok {
		return RangeResult{}
	}
	revenuePerPoint := yearlyTarget / constants.PercentageMultiplier
	return RangeResult{
		Elasticity:      e,
		RevenuePerPoint: revenuePerPoint,
		ROI:             mathutil.SafeDivide(revenuePerPoint, e),
	}
}

// AnalyzeRanges evaluates every band, keyed by band name.
func AnalyzeRanges(points []simulation.Point, yearlyTarget float64) map[string]RangeResult {
	out := make(map[string]RangeResult, len(Bands))
	for _, b := range Bands {
		out[b.Name] = Analyze(points, b, yearlyTarget)
	}
	return out
}

// AnalyzeOrdered evaluates every band and keeps band order.
func AnalyzeOrdered(points []simulation.Point, yearlyTarget float64) []BandResult {
	out := make([]BandResult, 0, len(Bands))
	for _, b := range Bands {
		out = append(out, BandResult{Band: b, RangeResult: Analyze(points, b, yearlyTarget)})
	}
	return out
}

// Insight condenses a sweep into the numbers a plan designer acts on.
type Insight struct {
	Steepest          BandResult `json:"steepest"`
	OptimalPoint      float64    `json:"optimalPoint"`
	PayoutPerPoint    float64    `json:"payoutPerPoint"`
	RecommendedTarget float64    `json:"recommendedTarget"`
}

// Insights finds the band with the steepest slope and the achievement level
// paying the most per achievement point. The recommended minimum target is
// never below 90%.
func Insights(points []simulation.Point, yearlyTarget float64) Insight {
	var in Insight
	steepest := math.Inf(-1)
	for _, br := range AnalyzeOrdered(points, yearlyTarget) {
		if br.Elasticity > steepest {
			steepest = br.Elasticity
			in.Steepest = br
		}
	}

	best := math.Inf(-1)
	for _, p := range points {
		if p.AchievementPct <= 0 {
			continue
		}
		ratio := p.TotalExcludingContinuity / p.AchievementPct
		if ratio > best {
			best = ratio
			in.OptimalPoint = p.AchievementPct
			in.PayoutPerPoint = ratio
		}
	}
	in.RecommendedTarget = math.Max(90, in.OptimalPoint)
	return in
}
