package config

import (
	"github.com/iwvelando/payout-simulator/pkg/compensation"
	"github.com/iwvelando/payout-simulator/pkg/constants"
	"github.com/iwvelando/payout-simulator/pkg/rolling"
	"github.com/iwvelando/payout-simulator/pkg/tier"
)

// ToStructure converts a configured structure into the engine representation.
// Commission percentages become fractional rates, a missing UpTo becomes
// unbounded and the last tier of every table is opened.
func (s StructureConfig) ToStructure() compensation.Structure {
	out := compensation.Structure{
		Commission:          make(tier.Table, len(s.Commission)),
		Quarterly:           bonusTable(s.Quarterly),
		Continuity:          bonusTable(s.Continuity),
		ContinuityThreshold: s.ContinuityThreshold,
		Rolling: rolling.Config{
			Enabled:        s.RollingAverage.Enabled,
			PreviousMonth1: s.RollingAverage.PreviousMonth1,
			PreviousMonth2: s.RollingAverage.PreviousMonth2,
		},
	}
	for i, t := range s.Commission {
		out.Commission[i] = tier.Tier{
			Threshold: t.Threshold,
			UpTo:      upper(t.UpTo),
			Rate:      t.Percentage / constants.PercentageMultiplier,
		}
	}
	out.Commission = out.Commission.WithOpenTop()
	copy(out.QuarterlyWeights[:], s.QuarterlyWeights)
	return out
}

func bonusTable(tiers []BonusTier) tier.Table {
	out := make(tier.Table, len(tiers))
	for i, t := range tiers {
		out[i] = tier.Tier{Threshold: t.Threshold, UpTo: upper(t.UpTo), Rate: t.Bonus}
	}
	return out.WithOpenTop()
}

func upper(upTo *float64) float64 {
	if upTo == nil {
		return tier.Unbounded
	}
	return *upTo
}

func bound(t tier.Tier) *float64 {
	if t.IsUnbounded() {
		return nil
	}
	v := t.UpTo
	return &v
}

// FromStructure converts an engine structure back into its configuration
// form, for example after recommendations have been applied. Weights are
// left out when all four are zero, as they were never configured.
func FromStructure(name string, s compensation.Structure) StructureConfig {
	out := StructureConfig{
		Name:                name,
		Commission:          make([]CommissionTier, len(s.Commission)),
		Quarterly:           make([]BonusTier, len(s.Quarterly)),
		Continuity:          make([]BonusTier, len(s.Continuity)),
		ContinuityThreshold: s.ContinuityThreshold,
		RollingAverage: RollingAverage{
			Enabled:        s.Rolling.Enabled,
			PreviousMonth1: s.Rolling.PreviousMonth1,
			PreviousMonth2: s.Rolling.PreviousMonth2,
		},
	}
	if s.QuarterlyWeights != [constants.QuartersPerYear]float64{} {
		out.QuarterlyWeights = append([]float64(nil), s.QuarterlyWeights[:]...)
	}
	for i, t := range s.Commission {
		out.Commission[i] = CommissionTier{
			Threshold:  t.Threshold,
			UpTo:       bound(t),
			Percentage: t.Rate * constants.PercentageMultiplier,
		}
	}
	for i, t := range s.Quarterly {
		out.Quarterly[i] = BonusTier{Threshold: t.Threshold, UpTo: bound(t), Bonus: t.Rate}
	}
	for i, t := range s.Continuity {
		out.Continuity[i] = BonusTier{Threshold: t.Threshold, UpTo: bound(t), Bonus: t.Rate}
	}
	return out
}

// ToInput converts a profile into the engine input. Missing entries stay
// zero and extra entries are ignored; validation rejects both beforehand.
func (p ProfileConfig) ToInput() compensation.Input {
	in := compensation.Input{FTE: p.FTE}
	copy(in.MonthlySales[:], p.MonthlySales)
	copy(in.QuarterlyAchievement[:], p.QuarterlyAchievements)
	return in
}

// FromInput converts an engine input into a named profile.
func FromInput(name string, in compensation.Input) ProfileConfig {
	return ProfileConfig{
		Name:                  name,
		FTE:                   in.FTE,
		QuarterlyAchievements: append([]float64(nil), in.QuarterlyAchievement[:]...),
		MonthlySales:          append([]float64(nil), in.MonthlySales[:]...),
	}
}
