// Package philosophy scores a payout curve against compensation design
// principles (size of prize, reward distribution and the psychology of
// thresholds) and proposes concrete structure changes.
package philosophy

import (
	"math"
	"sort"

	"github.com/iwvelando/payout-simulator/pkg/mathutil"
	"github.com/iwvelando/payout-simulator/pkg/simulation"
)

// referenceThresholds are the achievement levels whose spacing drives the
// psychological distance score.
var referenceThresholds = []float64{90, 100, 105, 115, 130}

// PayoutFunc evaluates the payout at an achievement level missing from the sweep.
type PayoutFunc func(achievement float64) float64

// Settings carries the plan-level figures the scorer needs besides the curve.
type Settings struct {
	BaseSalary   float64 `json:"baseSalary"`
	YearlyTarget float64 `json:"yearlyTarget"`
}

// SizeOfPrize measures how much is at stake.
type SizeOfPrize struct {
	Score                  int        `json:"score"`
	Label                  string     `json:"label"`
	Description            string     `json:"description"`
	MaxPotential           float64    `json:"maxPotential"`
	TargetPayout           float64    `json:"targetPayout"`
	TargetMultiple         float64    `json:"targetMultiple"`
	RelativeSizePercentage float64    `json:"relativeSizePercentage"`
	TargetMultipleTypical  Typicality `json:"targetMultipleTypicality"`
	RelativeSizeTypical    Typicality `json:"relativeSizeTypicality"`
}

// PayMix relates variable pay at target to base salary.
type PayMix struct {
	BaseSalary     float64    `json:"baseSalary"`
	TargetVariable float64    `json:"targetVariable"`
	TargetTotal    float64    `json:"targetTotal"`
	Ratio          float64    `json:"ratio"`
	Typicality     Typicality `json:"typicality"`
}

// Distribution splits the maximum payout into below, at and above target.
type Distribution struct {
	Score            int        `json:"score"`
	Label            string     `json:"label"`
	Description      string     `json:"description"`
	BelowTargetShare float64    `json:"belowTargetShare"`
	AtTargetShare    float64    `json:"atTargetShare"`
	AboveTargetShare float64    `json:"aboveTargetShare"`
	BelowTypical     Typicality `json:"belowTargetTypicality"`
	AtTypical        Typicality `json:"atTargetTypicality"`
	AboveTypical     Typicality `json:"aboveTargetTypicality"`
}

// Jump is the payout change between two achievement levels.
type Jump struct {
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Change float64 `json:"change"`
}

// NearMiss measures the pull of the last step before target.
type NearMiss struct {
	Score               int        `json:"score"`
	Label               string     `json:"label"`
	TargetJump          float64    `json:"targetJump"`
	TargetJumpPct       float64    `json:"targetJumpPercentage"`
	TargetJumpTypical   Typicality `json:"targetJumpTypicality"`
	PrimaryJump         Jump       `json:"primaryJump"`
	IsTargetJumpPrimary bool       `json:"isTargetJumpPrimary"`
	Jumps               []Jump     `json:"jumps"`
}

// PsychDistance measures the spacing of achievement milestones.
type PsychDistance struct {
	Score         int       `json:"score"`
	Label         string    `json:"label"`
	AverageGap    float64   `json:"avgGap"`
	ThresholdGaps []float64 `json:"thresholdGaps"`
}

// Psychology combines the near-miss and distance scores.
type Psychology struct {
	Score         int           `json:"score"`
	Label         string        `json:"label"`
	Description   string        `json:"description"`
	NearMiss      NearMiss      `json:"nearMiss"`
	PsychDistance PsychDistance `json:"psychDistance"`
}

// Metrics is the complete philosophy assessment of one payout curve.
type Metrics struct {
	SizeOfPrize  SizeOfPrize  `json:"sizeOfPrize"`
	PayMix       PayMix       `json:"payMix"`
	Distribution Distribution `json:"distribution"`
	Psychology   Psychology   `json:"psychology"`
	Radar        Radar        `json:"radar"`
}

type curve struct {
	points []simulation.Point
	exact  PayoutFunc
}

// at reads the payout at achievement a from the sweep, falling back to the
// exact payout for off-grid levels and to zero when there is none.
func (c curve) at(a float64) float64 {
	if p, ok := simulation.Find(c.points, a); ok {
		return p.TotalExcludingContinuity
	}
	if c.exact != nil {
		return c.exact(a)
	}
	return 0
}

func (c curve) max() float64 {
	if len(c.points) == 0 {
		return 0
	}
	return c.points[len(c.points)-1].TotalExcludingContinuity
}

// Analyze scores a sweep. The sweep's last point is taken as the maximum
// payout. exact may be nil, in which case off-grid levels such as 99% read
// as zero.
func Analyze(points []simulation.Point, exact PayoutFunc, settings Settings) Metrics {
	c := curve{points: points, exact: exact}

	p90 := c.at(90)
	p95 := c.at(95)
	p99 := c.at(99)
	p100 := c.at(100)
	p105 := c.at(105)
	p115 := c.at(115)
	maxPayout := c.max()

	targetMultiple := mathutil.SafeDivide(maxPayout, p100)
	relativeSize := mathutil.CalculatePercentage(p100, settings.YearlyTarget)

	jumps := []Jump{
		{From: 95, To: 100, Change: p100 - p95},
		{From: 99, To: 100, Change: p100 - p99},
		{From: 100, To: 105, Change: p105 - p100},
		{From: 105, To: 115, Change: p115 - p105},
	}
	sort.SliceStable(jumps, func(i, j int) bool { return jumps[i].Change > jumps[j].Change })
	primary := jumps[0]
	targetPrimary := primary.From == 99 && primary.To == 100

	targetJump := p100 - p99
	targetJumpPct := 0.0
	if p99 > 0 {
		targetJumpPct = targetJump / p99 * 100
	}

	gaps := make([]float64, 0, len(referenceThresholds)-1)
	for i := 1; i < len(referenceThresholds); i++ {
		gaps = append(gaps, referenceThresholds[i]-referenceThresholds[i-1])
	}
	avgGap := mathutil.Mean(gaps)

	below := mathutil.CalculatePercentage(p90, maxPayout)
	atTarget := mathutil.CalculatePercentage(p100-p90, maxPayout)
	above := mathutil.CalculatePercentage(maxPayout-p100, maxPayout)
	payMixRatio := mathutil.CalculatePercentage(p100, settings.BaseSalary)

	sizeScore := clampScore(sizeOfPrizeScore(targetMultiple, relativeSize))
	distScore := clampScore(distributionScore(below, atTarget, above))
	nearScore := clampScore(nearMissScore(targetJumpPct, targetPrimary))
	distanceScore := clampScore(psychDistanceScore(avgGap))
	psychScore := int(math.Round(float64(nearScore+distanceScore) / 2))

	m := Metrics{
		SizeOfPrize: SizeOfPrize{
			Score:                  sizeScore,
			Label:                  sizeOfPrizeLabel(sizeScore),
			Description:            sizeOfPrizeDescription(sizeScore),
			MaxPotential:           maxPayout,
			TargetPayout:           p100,
			TargetMultiple:         targetMultiple,
			RelativeSizePercentage: relativeSize,
			TargetMultipleTypical:  TypicalTargetMultiple.Classify(targetMultiple),
			RelativeSizeTypical:    TypicalRelativeSize.Classify(relativeSize),
		},
		PayMix: PayMix{
			BaseSalary:     settings.BaseSalary,
			TargetVariable: p100,
			TargetTotal:    settings.BaseSalary + p100,
			Ratio:          payMixRatio,
			Typicality:     TypicalPayMix.Classify(payMixRatio),
		},
		Distribution: Distribution{
			Score:            distScore,
			Label:            distributionLabel(distScore),
			Description:      distributionDescription(distScore),
			BelowTargetShare: below,
			AtTargetShare:    atTarget,
			AboveTargetShare: above,
			BelowTypical:     TypicalBelowShare.Classify(below),
			AtTypical:        TypicalAtShare.Classify(atTarget),
			AboveTypical:     TypicalAboveShare.Classify(above),
		},
		Psychology: Psychology{
			Score:       psychScore,
			Label:       psychologyLabel(psychScore),
			Description: psychologyDescription(psychScore),
			NearMiss: NearMiss{
				Score:               nearScore,
				Label:               nearMissLabel(nearScore),
				TargetJump:          targetJump,
				TargetJumpPct:       targetJumpPct,
				TargetJumpTypical:   TypicalTargetJump.Classify(targetJumpPct),
				PrimaryJump:         primary,
				IsTargetJumpPrimary: targetPrimary,
				Jumps:               jumps,
			},
			PsychDistance: PsychDistance{
				Score:         distanceScore,
				Label:         psychDistanceLabel(distanceScore),
				AverageGap:    avgGap,
				ThresholdGaps: gaps,
			},
		},
	}
	m.Radar = radarFor(m)
	return m
}

func sizeOfPrizeScore(multiple, relativeSize float64) int {
	score := 5
	if multiple < 1.5 {
		score -= 2
	} else if multiple < 2 {
		score--
	}
	if multiple >= 2 && multiple <= 3 {
		score += 2
	} else if multiple > 3 {
		score++
	}

	switch {
	case relativeSize > 5:
		score--
	case relativeSize < 1:
		score--
	case relativeSize >= 1.5 && relativeSize <= 3:
		score++
	}
	return score
}

func distributionScore(below, at, above float64) int {
	score := 5
	switch {
	case below < 15:
		score -= 2
	case below < 25:
		score--
	case below > 50:
		score -= 2
	case below <= 40:
		score++
	}

	switch {
	case at < 10:
		score--
	case at >= 15 && at <= 25:
		score++
	}

	switch {
	case above < 30:
		score -= 2
	case above < 40:
		score--
	case above <= 60:
		score += 2
	}
	return score
}

func nearMissScore(jumpPct float64, targetPrimary bool) int {
	score := 5
	switch {
	case jumpPct >= 15:
		score += 2
	case jumpPct >= 10:
		score++
	case jumpPct < 5:
		score -= 2
	default:
		score--
	}
	if targetPrimary {
		score++
	}
	return score
}

func psychDistanceScore(avgGap float64) int {
	score := 5
	switch {
	case avgGap >= 10 && avgGap <= 15:
		score += 2
	case avgGap < 5:
		score -= 2
	case avgGap < 10:
		score--
	case avgGap > 25:
		score -= 2
	case avgGap > 15:
		score--
	}
	return score
}

func clampScore(score int) int {
	return int(mathutil.Clamp(float64(score), 1, 10))
}

// IncrementalPayouts returns the payout at every whole achievement point from
// 90% to 105%, showing where the curve steps.
func IncrementalPayouts(points []simulation.Point, exact PayoutFunc) []simulation.Point {
	c := curve{points: points, exact: exact}
	out := make([]simulation.Point, 0, 16)
	for a := 90.0; a <= 105; a++ {
		out = append(out, simulation.Point{AchievementPct: a, TotalExcludingContinuity: c.at(a)})
	}
	return out
}
