// Package constants provides shared constants for the payout simulator.
package constants

// Calendar constants
const (
	// MonthsPerYear is the number of monthly sales figures in a performance profile
	MonthsPerYear = 12

	// QuartersPerYear is the number of quarterly achievement figures in a profile
	QuartersPerYear = 4

	// MonthsPerQuarter is the number of months rolled into one quarter
	MonthsPerQuarter = 3
)

// Tier table shapes
const (
	// CommissionTiers is the number of marginal commission tiers
	CommissionTiers = 3

	// QuarterlyTiers is the number of quarterly bonus tiers
	QuarterlyTiers = 5

	// ContinuityTiers is the number of continuity bonus tiers
	ContinuityTiers = 4
)

// Compensation rules
const (
	// FTECommissionCutoff is the FTE at or below which no commission is paid
	FTECommissionCutoff = 0.7

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// WeightTolerance is the allowed deviation of quarterly weights from 100
	WeightTolerance = 0.01
)

// Simulation sweep parameters
const (
	// ElasticityStep is the achievement step of the elasticity sweep
	ElasticityStep = 5.0

	// ROIStep is the achievement step of the ROI sweep
	ROIStep = 10.0

	// MaxAchievement is the upper end of both sweeps
	MaxAchievement = 200.0

	// TargetAchievement is the 100% achievement reference point
	TargetAchievement = 100.0

	// ProfitMargin is the share of revenue assumed to be profit in risk checks
	ProfitMargin = 0.3

	// RiskBaselineMonthlySales is the monthly sales volume used by risk scenarios at 100%
	RiskBaselineMonthlySales = 20000.0
)

// Comparison limits
const (
	// MaxComparisonStructures is the largest number of structures compared at once
	MaxComparisonStructures = 3

	// MaxComparisonProfiles is the largest number of profiles compared at once
	MaxComparisonProfiles = 12
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultDatabasePath is the default SQLite file backing the scenario store
	DefaultDatabasePath = "paysim.db"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
