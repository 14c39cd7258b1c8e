// Package analysis defines the report produced for one payout structure and
// performance profile and includes functions for computing it.
package analysis

import (
	"fmt"

	"github.com/iwvelando/payout-simulator/internal/config"
	"github.com/iwvelando/payout-simulator/pkg/compensation"
	"github.com/iwvelando/payout-simulator/pkg/constants"
	"github.com/iwvelando/payout-simulator/pkg/elasticity"
	"github.com/iwvelando/payout-simulator/pkg/philosophy"
	"github.com/iwvelando/payout-simulator/pkg/risk"
	"github.com/iwvelando/payout-simulator/pkg/simulation"
	"go.uber.org/zap"
)

// Report holds everything computed for one structure and profile.
type Report struct {
	StructureName string                 `json:"structureName"`
	ProfileName   string                 `json:"profileName"`
	Structure     compensation.Structure `json:"structure"`
	Input         compensation.Input     `json:"input"`
	YearlyTarget  float64                `json:"yearlyTarget"`
	Goal          philosophy.Goal        `json:"goal"`

	Payout        compensation.Result                                  `json:"payout"`
	QuarterTotals [constants.QuartersPerYear]compensation.QuarterTotal `json:"quarterTotals"`
	Monthly       [constants.MonthsPerYear]compensation.MonthRow       `json:"monthly"`
	KPIs          compensation.KPIs                                    `json:"kpis"`

	Elasticity  []simulation.Point      `json:"elasticity"`
	ROI         []simulation.ROIPoint   `json:"roi"`
	Marginal    simulation.Marginal     `json:"marginal"`
	Ranges      []elasticity.BandResult `json:"ranges"`
	Insight     elasticity.Insight      `json:"insight"`
	Incremental []simulation.Point      `json:"incremental"`

	Risk            risk.Assessment             `json:"risk"`
	Philosophy      philosophy.Metrics          `json:"philosophy"`
	Recommendations []philosophy.Recommendation `json:"recommendations"`
	ProjectedRadar  philosophy.Radar            `json:"projectedRadar"`

	Warnings []string `json:"warnings,omitempty"`
}

// Params are the plan-level inputs of an evaluation besides structure and
// profile.
type Params struct {
	YearlyTarget float64
	BaseSalary   float64
	Goal         philosophy.Goal
}

// ExactPayout returns a function evaluating the exact sweep payout of s at any
// achievement level, used for levels missing from the 5% grid.
func ExactPayout(s compensation.Structure, in compensation.Input) philosophy.PayoutFunc {
	return func(achievement float64) float64 {
		return simulation.At(s, in.MonthlySales, in.FTE, achievement).TotalExcludingContinuity
	}
}

// Metrics runs the elasticity sweep for s and scores it.
func Metrics(s compensation.Structure, in compensation.Input, p Params) ([]simulation.Point, philosophy.Metrics) {
	points := simulation.Elasticity(s, in.MonthlySales, in.FTE)
	m := philosophy.Analyze(points, ExactPayout(s, in), philosophy.Settings{
		BaseSalary:   p.BaseSalary,
		YearlyTarget: p.YearlyTarget,
	})
	return points, m
}

// Evaluate computes the full report for a structure and input. It never
// fails; degenerate inputs produce arithmetic results.
func Evaluate(s compensation.Structure, in compensation.Input, p Params) Report {
	r := Report{
		Structure:    s,
		Input:        in,
		YearlyTarget: p.YearlyTarget,
		Goal:         p.Goal,
	}

	r.Payout = s.TotalPayout(in)
	r.QuarterTotals = r.Payout.QuarterTotals()
	r.Monthly = r.Payout.MonthlyBreakdown(in)
	r.KPIs = compensation.ComputeKPIs(s, r.Payout, p.YearlyTarget)

	r.Elasticity, r.Philosophy = Metrics(s, in, p)
	r.ROI = simulation.ROI(s, in.MonthlySales, p.YearlyTarget, in.FTE)
	r.Marginal = simulation.MarginalAtTarget(r.ROI)
	r.Ranges = elasticity.AnalyzeOrdered(r.Elasticity, p.YearlyTarget)
	r.Insight = elasticity.Insights(r.Elasticity, p.YearlyTarget)
	r.Incremental = philosophy.IncrementalPayouts(r.Elasticity, ExactPayout(s, in))

	r.Risk = risk.Assess(s, p.YearlyTarget, in.FTE)
	r.Recommendations = philosophy.Recommend(r.Philosophy, s, p.Goal)
	r.ProjectedRadar = r.Philosophy.Radar.Project(p.Goal)
	return r
}

// ParamsFor extracts evaluation parameters from a configuration.
func ParamsFor(conf config.Configuration) (Params, error) {
	goal, err := conf.Goal()
	if err != nil {
		return Params{}, err
	}
	return Params{
		YearlyTarget: conf.YearlyTarget(),
		BaseSalary:   conf.Analysis.BaseSalary,
		Goal:         goal,
	}, nil
}

// Run validates the configuration and computes its report.
func Run(logger *zap.Logger, conf config.Configuration) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	warnings, err := conf.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	for _, w := range warnings {
		logger.Warn(w, zap.String("op", "analysis.Run"))
	}

	params, err := ParamsFor(conf)
	if err != nil {
		return nil, err
	}

	report := Evaluate(conf.Structure.ToStructure(), conf.Profile.ToInput(), params)
	report.StructureName = conf.Structure.Name
	report.ProfileName = conf.Profile.Name
	report.Warnings = warnings

	logger.Debug(fmt.Sprintf("computed payout %.2f for structure %q and profile %q",
		report.Payout.TotalPayout, report.StructureName, report.ProfileName),
		zap.String("op", "analysis.Run"),
		zap.Int("recommendations", len(report.Recommendations)),
	)
	return &report, nil
}
