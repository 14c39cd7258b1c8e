// Package advisor applies philosophy recommendations to a configured payout
// structure and reports how the payout curve and scores move.
package advisor

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/payout-simulator/internal/analysis"
	"github.com/iwvelando/payout-simulator/internal/config"
	"github.com/iwvelando/payout-simulator/pkg/philosophy"
	"github.com/iwvelando/payout-simulator/pkg/simulation"
	"go.uber.org/zap"
)

// SignificantDifference is the largest per-point payout change, in euros,
// below which two curves count as equivalent.
const SignificantDifference = 50.0

// ErrUnknownRecommendation is returned when a selected index does not name
// one of the current recommendations.
var ErrUnknownRecommendation = errors.New("unknown recommendation")

// Runner applies recommendations for one configuration.
type Runner struct {
	logger *zap.Logger
	conf   *config.Configuration
}

// CurvePoint compares the two sweeps at one achievement level.
type CurvePoint struct {
	AchievementPct float64 `json:"achievementPct"`
	Before         float64 `json:"before"`
	After          float64 `json:"after"`
	Difference     float64 `json:"difference"`
}

// Curve is the before/after comparison of the elasticity sweep.
type Curve struct {
	Points        []CurvePoint `json:"points"`
	MaxDifference float64      `json:"maxDifference"`
	Significant   bool         `json:"significant"`
}

// Result summarizes an application of recommendations.
type Result struct {
	Applied   []philosophy.Recommendation `json:"applied"`
	Changes   []string                    `json:"changes"`
	Before    philosophy.Metrics          `json:"before"`
	After     philosophy.Metrics          `json:"after"`
	Curve     Curve                       `json:"curve"`
	Structure config.StructureConfig      `json:"structure"`
}

// Empty indicates whether any change was applied.
func (r Result) Empty() bool {
	return len(r.Changes) == 0
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, conf: conf}, nil
}

// Run recomputes the recommendations for the configured goal and applies the
// ones at the given indexes, or all of them when indexes is empty. The
// configuration itself is left untouched.
func (r *Runner) Run(indexes []int) (*Result, error) {
	if _, err := r.conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	params, err := analysis.ParamsFor(*r.conf)
	if err != nil {
		return nil, err
	}

	structure := r.conf.Structure.ToStructure()
	input := r.conf.Profile.ToInput()

	beforePoints, before := analysis.Metrics(structure, input, params)
	recs := philosophy.Recommend(before, structure, params.Goal)

	selected, err := selectRecommendations(recs, indexes)
	if err != nil {
		return nil, err
	}

	result := &Result{Applied: selected, Before: before}
	for _, rec := range selected {
		for _, c := range rec.Changes {
			result.Changes = append(result.Changes, c.Describe())
			r.logger.Debug(fmt.Sprintf("applying %s", c.Describe()),
				zap.String("op", "advisor.Run"),
				zap.String("recommendation", rec.Title),
			)
		}
	}

	updated := philosophy.Apply(structure, selected...)
	afterPoints, after := analysis.Metrics(updated, input, params)
	result.After = after
	result.Curve = CompareCurves(beforePoints, afterPoints)
	result.Structure = config.FromStructure(r.conf.Structure.Name, updated)

	r.logger.Info(fmt.Sprintf("applied %d of %d recommendations", len(selected), len(recs)),
		zap.String("op", "advisor.Run"),
		zap.Float64("maxDifference", result.Curve.MaxDifference),
	)
	return result, nil
}

func selectRecommendations(recs []philosophy.Recommendation, indexes []int) ([]philosophy.Recommendation, error) {
	if len(indexes) == 0 {
		return recs, nil
	}
	seen := make(map[int]bool, len(indexes))
	var out []philosophy.Recommendation
	for _, i := range indexes {
		if i < 0 || i >= len(recs) {
			return nil, fmt.Errorf("%w: index %d out of range, %d available", ErrUnknownRecommendation, i, len(recs))
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, recs[i])
	}
	return out, nil
}

// CompareCurves lines two sweeps up on the 5% grid. Levels missing from a
// sweep read as zero.
func CompareCurves(before, after []simulation.Point) Curve {
	levels := before
	if len(after) > len(levels) {
		levels = after
	}

	var c Curve
	for _, p := range levels {
		var b, a float64
		if bp, ok := simulation.Find(before, p.AchievementPct); ok {
			b = bp.TotalExcludingContinuity
		}
		if ap, ok := simulation.Find(after, p.AchievementPct); ok {
			a = ap.TotalExcludingContinuity
		}
		diff := a - b
		c.Points = append(c.Points, CurvePoint{
			AchievementPct: p.AchievementPct,
			Before:         b,
			After:          a,
			Difference:     diff,
		})
		c.MaxDifference = math.Max(c.MaxDifference, math.Abs(diff))
	}
	c.Significant = c.MaxDifference > SignificantDifference
	return c
}
