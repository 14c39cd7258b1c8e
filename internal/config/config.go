// Package config defines the data structures related to configuration and
// includes functions for loading, defaulting and validating it.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/payout-simulator/pkg/mathutil"
	"github.com/iwvelando/payout-simulator/pkg/philosophy"
	"github.com/iwvelando/payout-simulator/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for a payout simulation run.
type Configuration struct {
	Structure StructureConfig `yaml:"structure" json:"structure"`
	Profile   ProfileConfig   `yaml:"profile" json:"profile"`
	Analysis  AnalysisConfig  `yaml:"analysis" json:"analysis"`
	Logging   LoggingConfig   `yaml:"logging,omitempty" json:"-"`
	Output    OutputConfig    `yaml:"output,omitempty" json:"-"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// CommissionTier is one commission band. Percentage is a percent (3 means
// 3%). A nil UpTo leaves the band open-ended.
type CommissionTier struct {
	Threshold  float64  `yaml:"threshold" json:"threshold"`
	UpTo       *float64 `yaml:"upTo,omitempty" json:"upTo,omitempty"`
	Percentage float64  `yaml:"percentage" json:"percentage"`
}

// BonusTier is one quarterly or continuity bonus band keyed on achievement
// percent.
type BonusTier struct {
	Threshold float64  `yaml:"threshold" json:"threshold"`
	UpTo      *float64 `yaml:"upTo,omitempty" json:"upTo,omitempty"`
	Bonus     float64  `yaml:"bonus" json:"bonus"`
}

// RollingAverage configures the 3-month smoothing of commission sales.
type RollingAverage struct {
	Enabled        bool    `yaml:"enabled" json:"enabled"`
	PreviousMonth1 float64 `yaml:"previousMonth1" json:"previousMonth1"`
	PreviousMonth2 float64 `yaml:"previousMonth2" json:"previousMonth2"`
}

// StructureConfig is a named payout structure as written in configuration
// files and request bodies.
type StructureConfig struct {
	Name                string           `yaml:"name" json:"name"`
	Commission          []CommissionTier `yaml:"commission" json:"commission"`
	Quarterly           []BonusTier      `yaml:"quarterly" json:"quarterly"`
	ContinuityThreshold float64          `yaml:"continuityThreshold" json:"continuityThreshold"`
	Continuity          []BonusTier      `yaml:"continuity" json:"continuity"`
	RollingAverage      RollingAverage   `yaml:"rollingAverage" json:"rollingAverage"`
	QuarterlyWeights    []float64        `yaml:"quarterlyWeights,omitempty" json:"quarterlyWeights,omitempty"`
}

// ProfileConfig is a named performance profile.
type ProfileConfig struct {
	Name                  string    `yaml:"name" json:"name"`
	FTE                   float64   `yaml:"fte" json:"fte"`
	QuarterlyAchievements []float64 `yaml:"quarterlyAchievements" json:"quarterlyAchievements"`
	MonthlySales          []float64 `yaml:"monthlySales" json:"monthlySales"`
}

// AnalysisConfig holds the plan-level figures used by the philosophy scorer.
// A zero YearlyTarget means the sum of the profile's monthly sales.
type AnalysisConfig struct {
	BaseSalary   float64 `yaml:"baseSalary" json:"baseSalary"`
	YearlyTarget float64 `yaml:"yearlyTarget,omitempty" json:"yearlyTarget,omitempty"`
	Goal         string  `yaml:"goal,omitempty" json:"goal,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix("PAYSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.applyDefaults(v.IsSet)
	return &configuration, nil
}

// applyDefaults fills sections the file left out. isSet reports whether a
// key was present in the source.
func (conf *Configuration) applyDefaults(isSet func(string) bool) {
	if !isSet("structure") {
		conf.Structure = DefaultStructure()
	} else {
		def := DefaultStructure()
		if len(conf.Structure.Commission) == 0 {
			conf.Structure.Commission = def.Commission
		}
		if len(conf.Structure.Quarterly) == 0 {
			conf.Structure.Quarterly = def.Quarterly
		}
		if len(conf.Structure.Continuity) == 0 {
			conf.Structure.Continuity = def.Continuity
		}
		if !isSet("structure.continuityThreshold") {
			conf.Structure.ContinuityThreshold = def.ContinuityThreshold
		}
	}

	if !isSet("profile") {
		conf.Profile = DefaultProfile()
	} else {
		def := DefaultProfile()
		if conf.Profile.FTE == 0 && !isSet("profile.fte") {
			conf.Profile.FTE = def.FTE
		}
		if len(conf.Profile.QuarterlyAchievements) == 0 {
			conf.Profile.QuarterlyAchievements = def.QuarterlyAchievements
		}
		if len(conf.Profile.MonthlySales) == 0 {
			conf.Profile.MonthlySales = def.MonthlySales
		}
	}

	if !isSet("analysis.baseSalary") {
		conf.Analysis.BaseSalary = DefaultBaseSalary
	}
	if conf.Analysis.Goal == "" {
		conf.Analysis.Goal = string(philosophy.GoalOverall)
	}
}

// YearlyTarget returns the configured yearly target or, when none is set,
// the sum of the profile's monthly sales.
func (conf *Configuration) YearlyTarget() float64 {
	if conf.Analysis.YearlyTarget > 0 {
		return conf.Analysis.YearlyTarget
	}
	return mathutil.Sum(conf.Profile.MonthlySales)
}

// Goal returns the parsed recommendation goal.
func (conf *Configuration) Goal() (philosophy.Goal, error) {
	return philosophy.ParseGoal(conf.Analysis.Goal)
}

// Validate checks the configuration and returns warnings for accepted but
// suspicious settings. Errors wrap the validation sentinels.
func (conf *Configuration) Validate() ([]string, error) {
	warnings, err := conf.Structure.Validate(false)
	if err != nil {
		return nil, err
	}
	profileWarnings, err := conf.Profile.Validate(false)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, profileWarnings...)

	if _, err := conf.Goal(); err != nil {
		return nil, err
	}
	if conf.Output.Format != "" {
		if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
			return nil, err
		}
	}
	if conf.Analysis.BaseSalary < 0 {
		return nil, fmt.Errorf("base salary must not be negative, got %.2f", conf.Analysis.BaseSalary)
	}
	return warnings, nil
}

// Validate checks a structure. Stored structures require a name.
func (s StructureConfig) Validate(requireName bool) ([]string, error) {
	return validation.ValidateStructure(validation.StructureConfig{
		Name:             s.Name,
		RequireName:      requireName,
		Commission:       commissionBounds(s.Commission),
		Quarterly:        bonusBounds(s.Quarterly),
		Continuity:       bonusBounds(s.Continuity),
		QuarterlyWeights: s.QuarterlyWeights,
	})
}

// Validate checks a profile. Stored profiles require a name.
func (p ProfileConfig) Validate(requireName bool) ([]string, error) {
	return validation.ValidateProfile(validation.ProfileConfig{
		Name:                  p.Name,
		RequireName:           requireName,
		FTE:                   p.FTE,
		QuarterlyAchievements: len(p.QuarterlyAchievements),
		MonthlySales:          len(p.MonthlySales),
	})
}

func commissionBounds(tiers []CommissionTier) []validation.TierBounds {
	out := make([]validation.TierBounds, len(tiers))
	for i, t := range tiers {
		out[i] = bounds(t.Threshold, t.UpTo, i == len(tiers)-1)
	}
	return out
}

func bonusBounds(tiers []BonusTier) []validation.TierBounds {
	out := make([]validation.TierBounds, len(tiers))
	for i, t := range tiers {
		out[i] = bounds(t.Threshold, t.UpTo, i == len(tiers)-1)
	}
	return out
}

// bounds ignores UpTo on the last tier because conversion opens it.
func bounds(threshold float64, upTo *float64, last bool) validation.TierBounds {
	b := validation.TierBounds{Threshold: threshold}
	if upTo != nil && !last {
		b.UpTo = *upTo
		b.HasUpTo = true
	}
	return b
}
