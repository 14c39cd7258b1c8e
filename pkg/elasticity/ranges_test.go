package elasticity

import (
	"math"
	"testing"

	"github.com/iwvelando/payout-simulator/pkg/simulation"
)

// linearSweep pays slope euros per achievement point on the 5% grid.
func linearSweep(slope float64) []simulation.Point {
	var points []simulation.Point
	for a := 0.0; a <= 200; a += 5 {
		points = append(points, simulation.Point{AchievementPct: a, TotalExcludingContinuity: a * slope})
	}
	return points
}

func TestAnalyzeRangesLinear(t *testing.T) {
	ranges := AnalyzeRanges(linearSweep(100), 332000)

	if len(ranges) != len(Bands) {
		t.Fatalf("AnalyzeRanges() returned %d bands, expected %d", len(ranges), len(Bands))
	}

	r := ranges["90to99"]
	if r.Elasticity != 100 {
		t.Errorf("90to99 elasticity = %.2f, expected 100", r.Elasticity)
	}
	if r.RevenuePerPoint != 3320 {
		t.Errorf("90to99 revenuePerPoint = %.2f, expected 3320", r.RevenuePerPoint)
	}
	if math.Abs(r.ROI-33.2) > 1e-9 {
		t.Errorf("90to99 roi = %.4f, expected 33.2", r.ROI)
	}
}

func TestAnalyzeDegenerateBand(t *testing.T) {
	// Only the 100% point lies in [100, 104] on a 5% grid.
	r := AnalyzeRanges(linearSweep(100), 332000)["100to104"]
	if r != (RangeResult{}) {
		t.Errorf("100to104 = %+v, expected all zeros", r)
	}

	empty := Analyze(nil, Bands[0], 332000)
	if empty != (RangeResult{}) {
		t.Errorf("empty sweep = %+v, expected all zeros", empty)
	}
}

func TestAnalyzeFlatBandHasZeroROI(t *testing.T) {
	r := AnalyzeRanges(linearSweep(0), 332000)["130plus"]
	if r.Elasticity != 0 {
		t.Errorf("elasticity = %.2f, expected 0", r.Elasticity)
	}
	if r.ROI != 0 || math.IsInf(r.ROI, 0) {
		t.Errorf("roi = %v, expected exactly 0", r.ROI)
	}
	if r.RevenuePerPoint != 3320 {
		t.Errorf("revenuePerPoint = %.2f, expected 3320", r.RevenuePerPoint)
	}
}

func TestAnalyzeOrderedKeepsBandOrder(t *testing.T) {
	results := AnalyzeOrdered(linearSweep(1), 100)
	for i, br := range results {
		if br.Name != Bands[i].Name {
			t.Errorf("result %d is %s, expected %s", i, br.Name, Bands[i].Name)
		}
	}
}

func TestInsights(t *testing.T) {
	points := linearSweep(10)
	// Step up hard between 90 and 95.
	for i := range points {
		if points[i].AchievementPct >= 95 {
			points[i].TotalExcludingContinuity += 5000
		}
	}

	in := Insights(points, 332000)
	if in.Steepest.Name != "90to99" {
		t.Errorf("steepest band = %s, expected 90to99", in.Steepest.Name)
	}
	if in.OptimalPoint != 95 {
		t.Errorf("optimal point = %.0f, expected 95", in.OptimalPoint)
	}
	if in.RecommendedTarget != 95 {
		t.Errorf("recommended target = %.0f, expected 95", in.RecommendedTarget)
	}

	low := Insights(linearSweep(10), 332000)
	if low.RecommendedTarget != 90 {
		t.Errorf("recommended target = %.0f, expected the 90%% floor", low.RecommendedTarget)
	}
}
