package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func bounded(threshold, upTo float64) TierBounds {
	return TierBounds{Threshold: threshold, UpTo: upTo, HasUpTo: true}
}

func validStructure() StructureConfig {
	return StructureConfig{
		Name:        "Balanced",
		RequireName: true,
		Commission:  []TierBounds{bounded(10000, 25000), bounded(25000, 40000), {Threshold: 40000}},
		Quarterly: []TierBounds{
			bounded(90, 99), bounded(100, 104), bounded(105, 114), bounded(115, 129), {Threshold: 130},
		},
		Continuity:       []TierBounds{bounded(100, 104), bounded(105, 114), bounded(115, 129), {Threshold: 130}},
		QuarterlyWeights: []float64{25, 25, 25, 25},
	}
}

func TestValidateStructure(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(s *StructureConfig)
		expectErr     bool
		expectWarning string
	}{
		{
			name:   "Valid structure",
			mutate: func(s *StructureConfig) {},
		},
		{
			name:      "Missing name",
			mutate:    func(s *StructureConfig) { s.Name = "  " },
			expectErr: true,
		},
		{
			name:   "Missing name allowed for ad-hoc runs",
			mutate: func(s *StructureConfig) { s.Name = ""; s.RequireName = false },
		},
		{
			name:      "Two commission tiers",
			mutate:    func(s *StructureConfig) { s.Commission = s.Commission[:2] },
			expectErr: true,
		},
		{
			name:      "Six quarterly tiers",
			mutate:    func(s *StructureConfig) { s.Quarterly = append(s.Quarterly, bounded(140, 150)) },
			expectErr: true,
		},
		{
			name:      "Three continuity tiers",
			mutate:    func(s *StructureConfig) { s.Continuity = s.Continuity[1:] },
			expectErr: true,
		},
		{
			name:      "Wrong weight count",
			mutate:    func(s *StructureConfig) { s.QuarterlyWeights = []float64{50, 50} },
			expectErr: true,
		},
		{
			name:          "Weights off by more than tolerance",
			mutate:        func(s *StructureConfig) { s.QuarterlyWeights = []float64{25, 25, 25, 24} },
			expectWarning: "quarterly weights sum to 99.00",
		},
		{
			name:   "Weights within tolerance",
			mutate: func(s *StructureConfig) { s.QuarterlyWeights = []float64{25, 25, 25, 25.005} },
		},
		{
			name:          "Inverted tier",
			mutate:        func(s *StructureConfig) { s.Quarterly[1] = bounded(105, 100) },
			expectWarning: "Quarterly bonus tier 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStructure()
			tt.mutate(&s)
			warnings, err := ValidateStructure(s)

			if tt.expectErr {
				if !errors.Is(err, ErrInvalidStructure) {
					t.Errorf("ValidateStructure() error = %v, expected ErrInvalidStructure", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateStructure() unexpected error = %v", err)
			}
			if tt.expectWarning == "" {
				if len(warnings) != 0 {
					t.Errorf("ValidateStructure() warnings = %v, expected none", warnings)
				}
				return
			}
			if len(warnings) != 1 || !strings.Contains(warnings[0], tt.expectWarning) {
				t.Errorf("ValidateStructure() warnings = %v, expected one containing %q", warnings, tt.expectWarning)
			}
		})
	}
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name       string
		profile    ProfileConfig
		expectErr  bool
		expectWarn bool
	}{
		{
			name:    "Valid profile",
			profile: ProfileConfig{Name: "Default", RequireName: true, FTE: 1, QuarterlyAchievements: 4, MonthlySales: 12},
		},
		{
			name:      "Missing name",
			profile:   ProfileConfig{RequireName: true, FTE: 1, QuarterlyAchievements: 4, MonthlySales: 12},
			expectErr: true,
		},
		{
			name:      "Eleven months",
			profile:   ProfileConfig{FTE: 1, QuarterlyAchievements: 4, MonthlySales: 11},
			expectErr: true,
		},
		{
			name:      "Three quarters",
			profile:   ProfileConfig{FTE: 1, QuarterlyAchievements: 3, MonthlySales: 12},
			expectErr: true,
		},
		{
			name:       "Zero FTE",
			profile:    ProfileConfig{FTE: 0, QuarterlyAchievements: 4, MonthlySales: 12},
			expectWarn: true,
		},
		{
			name:       "Negative FTE",
			profile:    ProfileConfig{FTE: -0.5, QuarterlyAchievements: 4, MonthlySales: 12},
			expectWarn: true,
		},
		{
			name:    "FTE above one",
			profile: ProfileConfig{FTE: 1.2, QuarterlyAchievements: 4, MonthlySales: 12},
		},
		{
			name:      "NaN FTE",
			profile:   ProfileConfig{FTE: math.NaN(), QuarterlyAchievements: 4, MonthlySales: 12},
			expectErr: true,
		},
		{
			name:       "Part-time at cutoff",
			profile:    ProfileConfig{FTE: 0.7, QuarterlyAchievements: 4, MonthlySales: 12},
			expectWarn: true,
		},
		{
			name:    "Part-time above cutoff",
			profile: ProfileConfig{FTE: 0.8, QuarterlyAchievements: 4, MonthlySales: 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings, err := ValidateProfile(tt.profile)
			if tt.expectErr {
				if !errors.Is(err, ErrInvalidProfile) {
					t.Errorf("ValidateProfile() error = %v, expected ErrInvalidProfile", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateProfile() unexpected error = %v", err)
			}
			if (len(warnings) > 0) != tt.expectWarn {
				t.Errorf("ValidateProfile() warnings = %v, expectWarn %v", warnings, tt.expectWarn)
			}
		})
	}
}

func TestValidateSelection(t *testing.T) {
	tests := []struct {
		structures, profiles int
		expectErr            bool
	}{
		{1, 1, false},
		{3, 12, false},
		{0, 1, true},
		{4, 1, true},
		{1, 0, true},
		{1, 13, true},
	}
	for _, tt := range tests {
		err := ValidateSelection(tt.structures, tt.profiles)
		if tt.expectErr && !errors.Is(err, ErrInvalidSelection) {
			t.Errorf("ValidateSelection(%d, %d) error = %v, expected ErrInvalidSelection", tt.structures, tt.profiles, err)
		}
		if !tt.expectErr && err != nil {
			t.Errorf("ValidateSelection(%d, %d) unexpected error = %v", tt.structures, tt.profiles, err)
		}
	}
}
