package simulation

import (
	"math"
	"testing"

	"github.com/iwvelando/payout-simulator/pkg/compensation"
	"github.com/iwvelando/payout-simulator/pkg/rolling"
	"github.com/iwvelando/payout-simulator/pkg/tier"
)

var baseSales = [12]float64{20000, 22000, 25000, 28000, 30000, 32000, 25000, 20000, 25000, 30000, 35000, 40000}

func testStructure() compensation.Structure {
	return compensation.Structure{
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
			{Threshold: 100, UpTo: tier.Unbounded, Rate: 99999},
		},
		ContinuityThreshold: 100,
		Rolling:             rolling.Config{Enabled: true, PreviousMonth1: 18000, PreviousMonth2: 19000},
	}
}

func TestElasticityPoints(t *testing.T) {
	points := Elasticity(testStructure(), baseSales, 1)

	if len(points) != 41 {
		t.Fatalf("Elasticity() returned %d points, expected 41", len(points))
	}
	for i, p := range points {
		if p.AchievementPct != float64(i*5) {
			t.Errorf("point %d at %.1f%%, expected %d%%", i, p.AchievementPct, i*5)
		}
		if p.TotalExcludingContinuity != p.Commission+p.QuarterlyBonus {
			t.Errorf("point %d total %.2f does not add up", i, p.TotalExcludingContinuity)
		}
	}
}

func TestElasticityExcludesContinuity(t *testing.T) {
	p, ok := Find(Elasticity(testStructure(), baseSales, 1), 150)
	if !ok {
		t.Fatal("expected a 150% point")
	}
	if p.QuarterlyBonus != 4*2800 {
		t.Errorf("QuarterlyBonus(150%%) = %.2f, expected %.2f", p.QuarterlyBonus, 4*2800.0)
	}
	if p.TotalExcludingContinuity > 1e5 {
		t.Errorf("continuity leaked into the sweep: %.2f", p.TotalExcludingContinuity)
	}
}

func TestElasticityAtZero(t *testing.T) {
	s := testStructure()
	s.Rolling.Enabled = false
	points := Elasticity(s, baseSales, 1)
	if points[0].TotalExcludingContinuity != 0 {
		t.Errorf("payout at 0%% = %.2f, expected 0", points[0].TotalExcludingContinuity)
	}
}

func TestAtMatchesEngine(t *testing.T) {
	s := testStructure()
	p := At(s, baseSales, 1, 100)

	r := s.TotalPayout(compensation.Input{MonthlySales: baseSales, FTE: 1})
	if math.Abs(p.Commission-r.TotalCommission) > 1e-9 {
		t.Errorf("At(100) commission = %.4f, expected %.4f", p.Commission, r.TotalCommission)
	}
	if p.QuarterlyBonus != 6400 {
		t.Errorf("At(100) quarterly = %.2f, expected 6400", p.QuarterlyBonus)
	}
}

func TestROI(t *testing.T) {
	s := testStructure()
	s.Rolling.Enabled = false
	points := ROI(s, baseSales, 332000, 1)

	if len(points) != 21 {
		t.Fatalf("ROI() returned %d points, expected 21", len(points))
	}
	first := points[0]
	if first.Payout != 0 {
		t.Errorf("payout at 0%% = %.2f, expected 0", first.Payout)
	}
	if first.ROI != 0 || math.IsNaN(first.ROI) || math.IsInf(first.ROI, 0) {
		t.Errorf("ROI at 0%% = %v, expected exactly 0", first.ROI)
	}

	target := points[10]
	if target.AchievementPct != 100 || target.Revenue != 332000 {
		t.Errorf("target point = %+v", target)
	}
	if math.Abs(target.ROI-target.Revenue/target.Payout) > 1e-12 {
		t.Errorf("ROI at target = %.4f, expected revenue/payout", target.ROI)
	}
}

func TestLevels(t *testing.T) {
	if got := Levels(10, 200); len(got) != 21 || got[20] != 200 {
		t.Errorf("Levels(10, 200) = %v", got)
	}
	if got := Levels(0, 200); got != nil {
		t.Errorf("Levels(0, 200) = %v, expected nil", got)
	}
}

func TestMarginalAtTarget(t *testing.T) {
	points := []ROIPoint{
		{AchievementPct: 90, Revenue: 900, Payout: 90},
		{AchievementPct: 100, Revenue: 1000, Payout: 100, ROI: 10},
		{AchievementPct: 110, Revenue: 1100, Payout: 120},
	}

	m := MarginalAtTarget(points)
	if m.RevenuePerEuroAtTarget != 10 {
		t.Errorf("RevenuePerEuroAtTarget = %.2f, expected 10", m.RevenuePerEuroAtTarget)
	}
	if m.MarginalRevenue != 10 || m.MarginalCompensation != 1.5 {
		t.Errorf("marginal = %+v", m)
	}

	if empty := MarginalAtTarget(points[:1]); empty != (Marginal{}) {
		t.Errorf("expected zero marginal without a target point, got %+v", empty)
	}
}
