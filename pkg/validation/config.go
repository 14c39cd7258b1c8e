// Package validation provides configuration validation utilities.
package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/payout-simulator/pkg/constants"
	"github.com/iwvelando/payout-simulator/pkg/mathutil"
)

// Sentinel errors matched with errors.Is by callers that map them to
// user-facing responses.
var (
	ErrInvalidStructure = errors.New("invalid payout structure")
	ErrInvalidProfile   = errors.New("invalid performance profile")
	ErrInvalidSelection = errors.New("invalid comparison selection")
)

// TierBounds is the part of a tier that validation cares about. An
// unbounded tier has HasUpTo set to false.
type TierBounds struct {
	Threshold float64
	UpTo      float64
	HasUpTo   bool
}

// StructureConfig is the validation view of a payout structure.
type StructureConfig struct {
	Name             string
	RequireName      bool
	Commission       []TierBounds
	Quarterly        []TierBounds
	Continuity       []TierBounds
	QuarterlyWeights []float64
}

// ProfileConfig is the validation view of a performance profile.
type ProfileConfig struct {
	Name                  string
	RequireName           bool
	FTE                   float64
	QuarterlyAchievements int
	MonthlySales          int
}

// ValidateTierCount checks that a tier table has exactly the expected size.
func ValidateTierCount(kind string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s expects %d tiers, got %d", ErrInvalidStructure, kind, want, got)
	}
	return nil
}

// ValidateTierBounds returns warnings for tiers whose threshold exceeds
// their upper bound. Such tiers never match.
func ValidateTierBounds(kind string, tiers []TierBounds) []string {
	var warnings []string
	for i, t := range tiers {
		if t.HasUpTo && t.Threshold > t.UpTo {
			warnings = append(warnings, fmt.Sprintf("%s tier %d has threshold %.2f above its upper bound %.2f and will never match",
				kind, i+1, t.Threshold, t.UpTo))
		}
	}
	return warnings
}

// ValidateWeights returns a warning when the quarterly weights do not sum to
// 100 within tolerance. An empty list is not checked.
func ValidateWeights(weights []float64) string {
	if len(weights) == 0 {
		return ""
	}
	sum := mathutil.Sum(weights)
	if !mathutil.WithinTolerance(sum, constants.PercentageMultiplier, constants.WeightTolerance) {
		return fmt.Sprintf("quarterly weights sum to %.2f instead of 100", sum)
	}
	return ""
}

// ValidateFTE returns a warning when the FTE leaves the employee without
// commission or is not positive. Any finite FTE is accepted, including
// values above 1; only NaN and infinities are errors.
func ValidateFTE(fte float64) (string, error) {
	if math.IsNaN(fte) || math.IsInf(fte, 0) {
		return "", fmt.Errorf("%w: fte must be a finite number, got %v", ErrInvalidProfile, fte)
	}
	if fte <= 0 {
		return fmt.Sprintf("fte %.2f is not positive, bonuses will be zero or negative and no commission is paid", fte), nil
	}
	if fte <= constants.FTECommissionCutoff {
		return fmt.Sprintf("fte %.2f is at or below %.1f, commission will be zero", fte, constants.FTECommissionCutoff), nil
	}
	return "", nil
}

// ValidateStructure returns an error for a structure the engine cannot
// evaluate, plus warnings for settings that are accepted but suspicious.
func ValidateStructure(s StructureConfig) ([]string, error) {
	if s.RequireName && strings.TrimSpace(s.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidStructure)
	}
	if err := ValidateTierCount("commission", len(s.Commission), constants.CommissionTiers); err != nil {
		return nil, err
	}
	if err := ValidateTierCount("quarterly bonus", len(s.Quarterly), constants.QuarterlyTiers); err != nil {
		return nil, err
	}
	if err := ValidateTierCount("continuity bonus", len(s.Continuity), constants.ContinuityTiers); err != nil {
		return nil, err
	}
	if len(s.QuarterlyWeights) != 0 && len(s.QuarterlyWeights) != constants.QuartersPerYear {
		return nil, fmt.Errorf("%w: expected %d quarterly weights, got %d",
			ErrInvalidStructure, constants.QuartersPerYear, len(s.QuarterlyWeights))
	}

	var warnings []string
	warnings = append(warnings, ValidateTierBounds("Commission", s.Commission)...)
	warnings = append(warnings, ValidateTierBounds("Quarterly bonus", s.Quarterly)...)
	warnings = append(warnings, ValidateTierBounds("Continuity bonus", s.Continuity)...)
	if w := ValidateWeights(s.QuarterlyWeights); w != "" {
		warnings = append(warnings, w)
	}
	return warnings, nil
}

// ValidateProfile checks series lengths and FTE of a performance profile.
func ValidateProfile(p ProfileConfig) ([]string, error) {
	if p.RequireName && strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if p.QuarterlyAchievements != constants.QuartersPerYear {
		return nil, fmt.Errorf("%w: expected %d quarterly achievements, got %d",
			ErrInvalidProfile, constants.QuartersPerYear, p.QuarterlyAchievements)
	}
	if p.MonthlySales != constants.MonthsPerYear {
		return nil, fmt.Errorf("%w: expected %d monthly sales values, got %d",
			ErrInvalidProfile, constants.MonthsPerYear, p.MonthlySales)
	}
	warning, err := ValidateFTE(p.FTE)
	if err != nil {
		return nil, err
	}
	if warning != "" {
		return []string{warning}, nil
	}
	return nil, nil
}

// ValidateSelection checks the size of a comparison request.
func ValidateSelection(structures, profiles int) error {
	if structures < 1 || structures > constants.MaxComparisonStructures {
		return fmt.Errorf("%w: select between 1 and %d structures, got %d",
			ErrInvalidSelection, constants.MaxComparisonStructures, structures)
	}
	if profiles < 1 || profiles > constants.MaxComparisonProfiles {
		return fmt.Errorf("%w: select between 1 and %d profiles, got %d",
			ErrInvalidSelection, constants.MaxComparisonProfiles, profiles)
	}
	return nil
}
