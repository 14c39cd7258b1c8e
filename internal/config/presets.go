package config

import (
	"math"

	"github.com/iwvelando/payout-simulator/pkg/constants"
)

// DefaultBaseSalary is the yearly base salary used for the pay-mix ratio
// when none is configured.
const DefaultBaseSalary = 48000.0

// DefaultMonthlySales is the reference sales year. It sums to 332 000.
var DefaultMonthlySales = []float64{
	20000, 22000, 25000, 28000, 30000, 32000,
	25000, 20000, 25000, 30000, 35000, 40000,
}

var averageMonthlySales = []float64{
	20000, 22000, 25000, 28000, 30000, 32000,
	35000, 28000, 30000, 32000, 35000, 40000,
}

func f(v float64) *float64 { return &v }

func evenWeights() []float64 {
	w := make([]float64, constants.QuartersPerYear)
	for i := range w {
		w[i] = constants.PercentageMultiplier / constants.QuartersPerYear
	}
	return w
}

// DefaultStructure returns the balanced structure used when a configuration
// does not define one.
func DefaultStructure() StructureConfig {
	return StructureConfig{
		Name: "Balanced Model",
		Commission: []CommissionTier{
			{Threshold: 10000, UpTo: f(25000), Percentage: 2},
			{Threshold: 25000, UpTo: f(40000), Percentage: 4},
			{Threshold: 40000, Percentage: 6},
		},
		Quarterly: []BonusTier{
			{Threshold: 90, UpTo: f(99), Bonus: 1200},
			{Threshold: 100, UpTo: f(104), Bonus: 1600},
			{Threshold: 105, UpTo: f(114), Bonus: 2000},
			{Threshold: 115, UpTo: f(129), Bonus: 2400},
			{Threshold: 130, Bonus: 2800},
		},
		ContinuityThreshold: 100,
		Continuity: []BonusTier{
			{Threshold: 100, UpTo: f(104), Bonus: 400},
			{Threshold: 105, UpTo: f(114), Bonus: 500},
			{Threshold: 115, UpTo: f(129), Bonus: 600},
			{Threshold: 130, Bonus: 750},
		},
		RollingAverage:   RollingAverage{Enabled: true, PreviousMonth1: 18000, PreviousMonth2: 19000},
		QuarterlyWeights: evenWeights(),
	}
}

// ConservativeStructure pays lower rates from higher thresholds.
func ConservativeStructure() StructureConfig {
	s := DefaultStructure()
	s.Name = "Conservative Model"
	s.Commission = []CommissionTier{
		{Threshold: 15000, UpTo: f(30000), Percentage: 1.5},
		{Threshold: 30000, UpTo: f(45000), Percentage: 3},
		{Threshold: 45000, Percentage: 4.5},
	}
	s.Quarterly = []BonusTier{
		{Threshold: 95, UpTo: f(99), Bonus: 1000},
		{Threshold: 100, UpTo: f(109), Bonus: 1200},
		{Threshold: 110, UpTo: f(119), Bonus: 1500},
		{Threshold: 120, UpTo: f(129), Bonus: 1800},
		{Threshold: 130, Bonus: 2000},
	}
	s.Continuity = []BonusTier{
		{Threshold: 100, UpTo: f(109), Bonus: 300},
		{Threshold: 110, UpTo: f(119), Bonus: 350},
		{Threshold: 120, UpTo: f(129), Bonus: 400},
		{Threshold: 130, Bonus: 500},
	}
	return s
}

// AggressiveStructure pays steep rates from low thresholds and does not
// smooth commission sales.
func AggressiveStructure() StructureConfig {
	s := DefaultStructure()
	s.Name = "Aggressive Model"
	s.Commission = []CommissionTier{
		{Threshold: 8000, UpTo: f(20000), Percentage: 3},
		{Threshold: 20000, UpTo: f(35000), Percentage: 5},
		{Threshold: 35000, Percentage: 8},
	}
	for i, bonus := range []float64{1500, 2000, 2500, 3000, 3500} {
		s.Quarterly[i].Bonus = bonus
	}
	for i, bonus := range []float64{500, 700, 900, 1200} {
		s.Continuity[i].Bonus = bonus
	}
	s.RollingAverage.Enabled = false
	return s
}

// StructurePresets returns the built-in structures in display order.
func StructurePresets() []StructureConfig {
	return []StructureConfig{ConservativeStructure(), DefaultStructure(), AggressiveStructure()}
}

// DefaultProfile returns the reference full-time profile.
func DefaultProfile() ProfileConfig {
	return ProfileConfig{
		Name:                  "Default Profile",
		FTE:                   1.0,
		QuarterlyAchievements: []float64{95, 105, 110, 120},
		MonthlySales:          append([]float64(nil), DefaultMonthlySales...),
	}
}

func scaledSales(factor float64) []float64 {
	out := make([]float64, len(DefaultMonthlySales))
	for i, v := range DefaultMonthlySales {
		out[i] = math.Round(v * factor)
	}
	return out
}

// LowPerformerProfile sells at three quarters of the reference year.
func LowPerformerProfile() ProfileConfig {
	return ProfileConfig{
		Name:                  "Low Performer",
		FTE:                   1.0,
		QuarterlyAchievements: []float64{75, 80, 82, 85},
		MonthlySales:          scaledSales(0.75),
	}
}

// AveragePerformerProfile hovers around target.
func AveragePerformerProfile() ProfileConfig {
	return ProfileConfig{
		Name:                  "Average Performer",
		FTE:                   1.0,
		QuarterlyAchievements: []float64{90, 98, 102, 105},
		MonthlySales:          append([]float64(nil), averageMonthlySales...),
	}
}

// TopPerformerProfile sells 30% above the reference year.
func TopPerformerProfile() ProfileConfig {
	return ProfileConfig{
		Name:                  "Top Performer",
		FTE:                   1.0,
		QuarterlyAchievements: []float64{120, 125, 130, 140},
		MonthlySales:          scaledSales(1.3),
	}
}

// ProfilePresets returns the built-in profiles in display order.
func ProfilePresets() []ProfileConfig {
	return []ProfileConfig{LowPerformerProfile(), AveragePerformerProfile(), TopPerformerProfile()}
}

// Default returns a complete configuration built from the defaults.
func Default() Configuration {
	return Configuration{
		Structure: DefaultStructure(),
		Profile:   DefaultProfile(),
		Analysis:  AnalysisConfig{BaseSalary: DefaultBaseSalary, Goal: "overall"},
		Output:    OutputConfig{Format: constants.OutputFormatPretty},
	}
}
