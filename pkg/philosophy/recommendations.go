package philosophy

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/payout-simulator/pkg/compensation"
)

// Goal selects which recommendations are relevant.
type Goal string

const (
	GoalOverall       Goal = "overall"
	GoalTarget        Goal = "target"
	GoalTopPerformers Goal = "topPerformers"
	GoalBalance       Goal = "balance"
)

// Goals lists every supported goal.
var Goals = []Goal{GoalOverall, GoalTarget, GoalTopPerformers, GoalBalance}

// ErrUnknownGoal is returned by ParseGoal for names outside Goals.
var ErrUnknownGoal = errors.New("unknown goal focus")

// ParseGoal validates a goal name. An empty name means overall.
func ParseGoal(name string) (Goal, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return GoalOverall, nil
	}
	for _, g := range Goals {
		if string(g) == trimmed {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownGoal, name)
}

// Impact rates how much a recommendation is expected to matter.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Category groups recommendations by the dimension they address.
type Category string

const (
	CategorySizeOfPrize  Category = "sizeOfPrize"
	CategoryDistribution Category = "distribution"
	CategoryPsychology   Category = "psychology"
	CategoryStructure    Category = "structure"
)

// Explanation describes the principle behind a category.
func (c Category) Explanation() string {
	switch c {
	case CategorySizeOfPrize:
		return "The size of prize determines how much is at stake. Larger multiples between target and maximum payout create stronger incentives for exceptional performance."
	case CategoryDistribution:
		return "Reward distribution balances support below target with stretch above it. Too little below target feels punitive, too little above target caps ambition."
	case CategoryPsychology:
		return "Threshold psychology uses near-miss tension and milestone spacing. A visible step at 100% and evenly spaced milestones keep the next goal within reach."
	case CategoryStructure:
		return "Structural rules shape behaviour between payouts. Smoothing sales over several months discourages pulling deals into a single period."
	default:
		return ""
	}
}

// ChangeKind tags a Change variant.
type ChangeKind string

const (
	KindCommission     ChangeKind = "commission"
	KindQuarterlyBonus ChangeKind = "quarterlyBonus"
	KindRollingAverage ChangeKind = "rollingAverage"
)

// Change is one edit to a payout structure. The concrete types are
// CommissionChange, QuarterlyBonusChange and RollingAverageChange.
type Change interface {
	Kind() ChangeKind
	// Describe renders the change for people, e.g. "Commission Tier 3: 6.0% -> 8.0%".
	Describe() string
	apply(s *compensation.Structure)
}

// CommissionChange sets the rate of a commission tier. Rates are in percent.
type CommissionChange struct {
	Tier     int
	OldValue float64
	NewValue float64
}

func (c CommissionChange) Kind() ChangeKind { return KindCommission }

func (c CommissionChange) Describe() string {
	return fmt.Sprintf("Commission Tier %d: %.1f%% -> %.1f%%", c.Tier+1, c.OldValue, c.NewValue)
}

func (c CommissionChange) apply(s *compensation.Structure) {
	if c.Tier < 0 || c.Tier >= len(s.Commission) {
		return
	}
	s.Commission[c.Tier].Rate = c.NewValue / 100
}

// MarshalJSON adds the variant tag.
func (c CommissionChange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     ChangeKind `json:"type"`
		Tier     int        `json:"tier"`
		OldValue float64    `json:"oldValue"`
		NewValue float64    `json:"newValue"`
	}{KindCommission, c.Tier, c.OldValue, c.NewValue})
}

// BonusField selects the quarterly tier attribute a change edits.
type BonusField string

const (
	FieldThreshold BonusField = "threshold"
	FieldUpTo      BonusField = "upTo"
	FieldBonus     BonusField = "bonus"
)

// QuarterlyBonusChange edits one attribute of a quarterly bonus tier.
type QuarterlyBonusChange struct {
	Tier     int
	Field    BonusField
	OldValue float64
	NewValue float64
}

func (c QuarterlyBonusChange) Kind() ChangeKind { return KindQuarterlyBonus }

func (c QuarterlyBonusChange) Describe() string {
	switch c.Field {
	case FieldThreshold:
		return fmt.Sprintf("Q-Bonus Threshold %d: %g%% -> %g%%", c.Tier+1, c.OldValue, c.NewValue)
	case FieldUpTo:
		return fmt.Sprintf("Q-Bonus Upper Limit %d: %g%% -> %g%%", c.Tier+1, c.OldValue, c.NewValue)
	default:
		return fmt.Sprintf("Q-Bonus Amount %d: %.0f -> %.0f", c.Tier+1, c.OldValue, c.NewValue)
	}
}

func (c QuarterlyBonusChange) apply(s *compensation.Structure) {
	if c.Tier < 0 || c.Tier >= len(s.Quarterly) {
		return
	}
	t := &s.Quarterly[c.Tier]
	switch c.Field {
	case FieldThreshold:
		t.Threshold = c.NewValue
	case FieldUpTo:
		t.UpTo = c.NewValue
	case FieldBonus:
		t.Rate = c.NewValue
	}
}

// MarshalJSON adds the variant tag.
func (c QuarterlyBonusChange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     ChangeKind `json:"type"`
		Tier     int        `json:"tier"`
		Field    BonusField `json:"field"`
		OldValue float64    `json:"oldValue"`
		NewValue float64    `json:"newValue"`
	}{KindQuarterlyBonus, c.Tier, c.Field, c.OldValue, c.NewValue})
}

// RollingAverageChange toggles sales smoothing.
type RollingAverageChange struct {
	OldValue bool
	NewValue bool
}

func (c RollingAverageChange) Kind() ChangeKind { return KindRollingAverage }

func (c RollingAverageChange) Describe() string {
	return fmt.Sprintf("Rolling Average: %s -> %s", onOff(c.OldValue), onOff(c.NewValue))
}

func (c RollingAverageChange) apply(s *compensation.Structure) {
	s.Rolling.Enabled = c.NewValue
}

// MarshalJSON adds the variant tag.
func (c RollingAverageChange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     ChangeKind `json:"type"`
		OldValue bool       `json:"oldValue"`
		NewValue bool       `json:"newValue"`
	}{KindRollingAverage, c.OldValue, c.NewValue})
}

func onOff(v bool) string {
	if v {
		return "Enabled"
	}
	return "Disabled"
}

// Recommendation is one proposed structure change with its rationale.
type Recommendation struct {
	Title     string   `json:"title"`
	Impact    Impact   `json:"impact"`
	Reasoning string   `json:"reasoning"`
	Category  Category `json:"type"`
	Goals     []Goal   `json:"goals"`
	Changes   []Change `json:"changes"`
}

// Serves reports whether the recommendation is relevant for goal.
func (r Recommendation) Serves(goal Goal) bool {
	if goal == GoalOverall {
		return true
	}
	for _, g := range r.Goals {
		if g == goal {
			return true
		}
	}
	return false
}

// Recommend evaluates every rule once against metrics and the structure
// that produced them and returns the recommendations serving goal.
func Recommend(m Metrics, s compensation.Structure, goal Goal) []Recommendation {
	var recs []Recommendation

	if m.SizeOfPrize.Score <= 4 && m.SizeOfPrize.TargetMultiple < 1.5 {
		var changes []Change
		if r, ok := commissionRate(s, 2); ok {
			changes = append(changes, CommissionChange{Tier: 2, OldValue: r, NewValue: math.Min(10, r*1.33)})
		}
		if b, ok := bonus(s, 4); ok {
			changes = append(changes, QuarterlyBonusChange{Tier: 4, Field: FieldBonus, OldValue: b, NewValue: b * 1.25})
		}
		recs = append(recs, Recommendation{
			Title:  "Increase upside potential",
			Impact: ImpactMedium,
			Reasoning: fmt.Sprintf("The current model has limited upside with only a %.1fx multiple from target to maximum payout. "+
				"Raising the top commission rate and the highest quarterly bonus strengthens the incentive for top performance.",
				m.SizeOfPrize.TargetMultiple),
			Category: CategorySizeOfPrize,
			Goals:    []Goal{GoalOverall, GoalTopPerformers},
			Changes:  changes,
		})
	}

	if m.Distribution.AboveTargetShare < 30 {
		var changes []Change
		if b, ok := bonus(s, 3); ok {
			changes = append(changes, QuarterlyBonusChange{Tier: 3, Field: FieldBonus, OldValue: b, NewValue: b * 1.2})
		}
		if b, ok := bonus(s, 4); ok {
			changes = append(changes, QuarterlyBonusChange{Tier: 4, Field: FieldBonus, OldValue: b, NewValue: b * 1.3})
		}
		recs = append(recs, Recommendation{
			Title:  "Enhance above-target incentives",
			Impact: ImpactMedium,
			Reasoning: fmt.Sprintf("Only %.1f%% of potential compensation is available above target, limiting motivation for exceptional performance. "+
				"Larger rewards above 115%% give top performers a reason to keep going.", m.Distribution.AboveTargetShare),
			Category: CategoryDistribution,
			Goals:    []Goal{GoalOverall, GoalBalance},
			Changes:  changes,
		})
	}

	switch {
	case m.Distribution.BelowTargetShare < 20:
		var changes []Change
		if t, ok := threshold(s, 0); ok {
			changes = append(changes, QuarterlyBonusChange{Tier: 0, Field: FieldThreshold, OldValue: t, NewValue: math.Max(70, t-15)})
		}
		if b, ok := bonus(s, 0); ok {
			changes = append(changes, QuarterlyBonusChange{Tier: 0, Field: FieldBonus, OldValue: b, NewValue: b * 0.7})
		}
		recs = append(recs, Recommendation{
			Title:  "Improve below-target support",
			Impact: ImpactMedium,
			Reasoning: fmt.Sprintf("Only %.1f%% of potential compensation is available below target, which can feel punitive in difficult periods. "+
				"A lower entry threshold with a smaller first bonus keeps people engaged.", m.Distribution.BelowTargetShare),
			Category: CategoryDistribution,
			Goals:    []Goal{GoalOverall, GoalBalance},
			Changes:  changes,
		})
	case m.Distribution.BelowTargetShare > 50:
		var changes []Change
		if b, ok := bonus(s, 0); ok {
			changes = append(changes, QuarterlyBonusChange{Tier: 0, Field: FieldBonus, OldValue: b, NewValue: b * 0.8})
		}
		if b, ok := bonus(s, 1); ok {
			changes = append(changes, QuarterlyBonusChange{Tier: 1, Field: FieldBonus, OldValue: b, NewValue: b * 1.3})
		}
		recs = append(recs, Recommendation{
			Title:  "Strengthen target achievement incentives",
			Impact: ImpactHigh,
			Reasoning: fmt.Sprintf("%.1f%% of potential compensation is available below target, which may reduce motivation to reach 100%%. "+
				"Shifting money from the first tier to the target tier rewards reaching the full goal.", m.Distribution.BelowTargetShare),
			Category: CategoryDistribution,
			Goals:    []Goal{GoalOverall, GoalBalance},
			Changes:  changes,
		})
	}

	if m.Psychology.NearMiss.Score <= 4 {
		var changes []Change
		if t, ok := threshold(s, 1); ok {
			changes = append(changes, QuarterlyBonusChange{Tier: 1, Field: FieldThreshold, OldValue: t, NewValue: 100})
		}
		if u, ok := upTo(s, 1); ok {
			changes = append(changes, QuarterlyBonusChange{Tier: 1, Field: FieldUpTo, OldValue: u, NewValue: 102})
		}
		if b, ok := bonus(s, 1); ok {
			changes = append(changes, QuarterlyBonusChange{Tier: 1, Field: FieldBonus, OldValue: b, NewValue: b * 1.25})
		}
		recs = append(recs, Recommendation{
			Title:  "Enhance target achievement incentive",
			Impact: ImpactHigh,
			Reasoning: fmt.Sprintf("The payout increase at 100%% achievement is only %.1f%%, creating weak psychological tension. "+
				"A distinct, larger step exactly at target makes the last few points worth chasing.", m.Psychology.NearMiss.TargetJumpPct),
			Category: CategoryPsychology,
			Goals:    []Goal{GoalOverall, GoalTarget},
			Changes:  changes,
		})
	}

	if d := m.Psychology.PsychDistance; d.Score <= 4 {
		switch {
		case d.AverageGap > 20:
			var changes []Change
			t2, ok2 := threshold(s, 1)
			t3, ok3 := threshold(s, 2)
			t4, ok4 := threshold(s, 3)
			b2, okb2 := bonus(s, 1)
			b3, okb3 := bonus(s, 2)
			b4, okb4 := bonus(s, 3)
			if ok2 && ok3 {
				changes = append(changes, QuarterlyBonusChange{Tier: 2, Field: FieldThreshold, OldValue: t3, NewValue: math.Round((t2 + t3) / 2)})
			}
			if u3, ok := upTo(s, 2); ok && ok4 {
				changes = append(changes, QuarterlyBonusChange{Tier: 2, Field: FieldUpTo, OldValue: u3, NewValue: t4 - 1})
			}
			if okb2 && okb3 && okb4 {
				changes = append(changes, QuarterlyBonusChange{Tier: 2, Field: FieldBonus, OldValue: b3, NewValue: math.Round((b2 + b4) / 2)})
			}
			recs = append(recs, Recommendation{
				Title:  "Optimize threshold spacing",
				Impact: ImpactMedium,
				Reasoning: fmt.Sprintf("The average gap between thresholds (%.1f%%) is too wide, making higher levels feel unattainable. "+
					"An intermediate milestone creates a more motivating ladder.", d.AverageGap),
				Category: CategoryPsychology,
				Goals:    []Goal{GoalOverall, GoalTarget},
				Changes:  changes,
			})
		case d.AverageGap < 5:
			var changes []Change
			if t, ok := threshold(s, 2); ok {
				changes = append(changes, QuarterlyBonusChange{Tier: 2, Field: FieldThreshold, OldValue: t, NewValue: t + 5})
			}
			if t, ok := threshold(s, 3); ok {
				changes = append(changes, QuarterlyBonusChange{Tier: 3, Field: FieldThreshold, OldValue: t, NewValue: t + 10})
			}
			recs = append(recs, Recommendation{
				Title:  "Optimize threshold spacing",
				Impact: ImpactLow,
				Reasoning: fmt.Sprintf("The average gap between thresholds (%.1f%%) is too narrow, making milestones feel trivial. "+
					"Spacing the upper thresholds further apart makes each one meaningful.", d.AverageGap),
				Category: CategoryPsychology,
				Goals:    []Goal{GoalOverall, GoalTarget},
				Changes:  changes,
			})
		}
	}

	if !s.Rolling.Enabled {
		recs = append(recs, Recommendation{
			Title:  "Implement 3-month rolling average",
			Impact: ImpactMedium,
			Reasoning: "Paying on raw monthly sales invites end-of-month and end-of-quarter deal timing. " +
				"A 3-month rolling average smooths performance and removes the reward for pulling sales forward.",
			Category: CategoryStructure,
			Goals:    []Goal{GoalOverall, GoalBalance},
			Changes:  []Change{RollingAverageChange{OldValue: false, NewValue: true}},
		})
	}

	filtered := recs[:0]
	for _, r := range recs {
		if r.Serves(goal) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Apply returns a copy of s with every change of recs applied in order.
func Apply(s compensation.Structure, recs ...Recommendation) compensation.Structure {
	out := s.Clone()
	for _, r := range recs {
		for _, c := range r.Changes {
			c.apply(&out)
		}
	}
	return out
}

func commissionRate(s compensation.Structure, i int) (float64, bool) {
	if i >= len(s.Commission) {
		return 0, false
	}
	return s.Commission[i].Rate * 100, true
}

func threshold(s compensation.Structure, i int) (float64, bool) {
	if i >= len(s.Quarterly) {
		return 0, false
	}
	return s.Quarterly[i].Threshold, true
}

func upTo(s compensation.Structure, i int) (float64, bool) {
	if i >= len(s.Quarterly) || s.Quarterly[i].IsUnbounded() {
		return 0, false
	}
	return s.Quarterly[i].UpTo, true
}

func bonus(s compensation.Structure, i int) (float64, bool) {
	if i >= len(s.Quarterly) {
		return 0, false
	}
	return s.Quarterly[i].Rate, true
}
