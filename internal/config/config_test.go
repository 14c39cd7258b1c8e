package config

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/payout-simulator/pkg/mathutil"
	"github.com/iwvelando/payout-simulator/pkg/philosophy"
	"github.com/iwvelando/payout-simulator/pkg/validation"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Test config file",
			configPath: "../../test/test_config.yaml",
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Logging.Level != "warn" || config.Output.Format != "csv" {
		t.Errorf("Expected logging level warn and csv output, got %q and %q", config.Logging.Level, config.Output.Format)
	}
	if config.Structure.Name != "Field Sales 2025" {
		t.Errorf("Expected structure name Field Sales 2025, got %s", config.Structure.Name)
	}
	if len(config.Structure.Commission) != 3 || len(config.Structure.Quarterly) != 5 || len(config.Structure.Continuity) != 4 {
		t.Fatalf("Unexpected tier counts %d/%d/%d", len(config.Structure.Commission),
			len(config.Structure.Quarterly), len(config.Structure.Continuity))
	}
	if config.Structure.Commission[0].UpTo == nil || *config.Structure.Commission[0].UpTo != 25000 {
		t.Errorf("Expected first commission tier to end at 25000, got %v", config.Structure.Commission[0].UpTo)
	}
	if config.Structure.Commission[2].UpTo != nil {
		t.Errorf("Expected last commission tier to be open-ended")
	}
	if config.Structure.RollingAverage.Enabled {
		t.Errorf("Expected rolling average to be disabled")
	}
	if config.Profile.FTE != 1.0 || len(config.Profile.MonthlySales) != 12 {
		t.Errorf("Unexpected profile %+v", config.Profile)
	}
	if got := config.YearlyTarget(); got != 332000 {
		t.Errorf("YearlyTarget() = %.2f, expected %.2f", got, 332000.0)
	}

	warnings, err := config.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Validate() warnings = %v, expected none", warnings)
	}
}

func TestLoadConfigurationFromReaderDefaults(t *testing.T) {
	yaml := `
structure:
  name: Partial
  rollingAverage:
    enabled: true
profile:
  fte: 0.8
analysis:
  yearlyTarget: 400000
`
	config, err := LoadConfigurationFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	def := DefaultStructure()
	if len(config.Structure.Commission) != len(def.Commission) || config.Structure.Commission[1].Percentage != 4 {
		t.Errorf("Expected default commission tiers, got %+v", config.Structure.Commission)
	}
	if config.Structure.ContinuityThreshold != 100 {
		t.Errorf("Expected default continuity threshold 100, got %.2f", config.Structure.ContinuityThreshold)
	}
	if config.Profile.FTE != 0.8 {
		t.Errorf("Expected fte 0.8, got %.2f", config.Profile.FTE)
	}
	if len(config.Profile.MonthlySales) != 12 {
		t.Errorf("Expected default monthly sales, got %v", config.Profile.MonthlySales)
	}
	if config.Analysis.BaseSalary != DefaultBaseSalary {
		t.Errorf("Expected default base salary, got %.2f", config.Analysis.BaseSalary)
	}
	if config.YearlyTarget() != 400000 {
		t.Errorf("YearlyTarget() = %.2f, expected 400000", config.YearlyTarget())
	}
	if goal, err := config.Goal(); err != nil || goal != philosophy.GoalOverall {
		t.Errorf("Goal() = %s, %v", goal, err)
	}
}

func TestLoadConfigurationFromReaderEmpty(t *testing.T) {
	config, err := LoadConfigurationFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if config.Structure.Name != "Balanced Model" || !config.Structure.RollingAverage.Enabled {
		t.Errorf("Expected the balanced default structure, got %+v", config.Structure)
	}
	if config.Profile.Name != "Default Profile" {
		t.Errorf("Expected the default profile, got %s", config.Profile.Name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Configuration)
		wantErr   error
		wantWarns int
	}{
		{
			name:   "Defaults are valid",
			mutate: func(c *Configuration) {},
		},
		{
			name:    "Missing commission tier",
			mutate:  func(c *Configuration) { c.Structure.Commission = c.Structure.Commission[:2] },
			wantErr: validation.ErrInvalidStructure,
		},
		{
			name:    "Short sales year",
			mutate:  func(c *Configuration) { c.Profile.MonthlySales = c.Profile.MonthlySales[:6] },
			wantErr: validation.ErrInvalidProfile,
		},
		{
			name:      "Part-time below cutoff",
			mutate:    func(c *Configuration) { c.Profile.FTE = 0.5 },
			wantWarns: 1,
		},
		{
			name:      "Uneven weights",
			mutate:    func(c *Configuration) { c.Structure.QuarterlyWeights = []float64{40, 20, 20, 10} },
			wantWarns: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			warnings, err := c.Validate()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() error = %v, expected %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error = %v", err)
			}
			if len(warnings) != tt.wantWarns {
				t.Errorf("Validate() warnings = %v, expected %d", warnings, tt.wantWarns)
			}
		})
	}
}

func TestValidateUnknownGoalAndFormat(t *testing.T) {
	c := Default()
	c.Analysis.Goal = "everything"
	if _, err := c.Validate(); err == nil {
		t.Error("Expected an error for an unknown goal")
	}

	c = Default()
	c.Output.Format = "xml"
	if _, err := c.Validate(); err == nil {
		t.Error("Expected an error for an unknown output format")
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		name        string
		profile     ProfileConfig
		expectedSum float64
	}{
		{"Default", DefaultProfile(), 332000},
		{"Low", LowPerformerProfile(), 249000},
		{"Average", AveragePerformerProfile(), 357000},
		{"Top", TopPerformerProfile(), 431600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mathutil.Sum(tt.profile.MonthlySales); math.Abs(got-tt.expectedSum) > 1e-6 {
				t.Errorf("sum of monthly sales = %.2f, expected %.2f", got, tt.expectedSum)
			}
			if _, err := tt.profile.Validate(true); err != nil {
				t.Errorf("preset profile invalid: %v", err)
			}
		})
	}

	for _, s := range StructurePresets() {
		if _, err := s.Validate(true); err != nil {
			t.Errorf("preset structure %s invalid: %v", s.Name, err)
		}
	}
	if AggressiveStructure().RollingAverage.Enabled {
		t.Error("Expected the aggressive preset to disable the rolling average")
	}
	if DefaultStructure().Quarterly[0].Bonus != 1200 {
		t.Error("AggressiveStructure() must not modify the default preset")
	}
}
