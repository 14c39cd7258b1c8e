package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/payout-simulator/internal/advisor"
	"github.com/iwvelando/payout-simulator/internal/analysis"
	"github.com/iwvelando/payout-simulator/internal/config"
	"github.com/iwvelando/payout-simulator/internal/logging"
	"github.com/iwvelando/payout-simulator/pkg/constants"
	"github.com/iwvelando/payout-simulator/pkg/output"
	"github.com/iwvelando/payout-simulator/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	goal := flag.String("goal", "", "recommendation goal override (overall, target, topPerformers, balance)")
	apply := flag.Bool("apply", false, "apply all recommendations and print the updated configuration as YAML")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *goal != "" {
		conf.Analysis.Goal = *goal
	}

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	conf.Output.Format = outputFormat

	if *apply {
		runApply(logger, conf)
		return
	}

	report, err := analysis.Run(logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute payout",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if err := output.Write(os.Stdout, outputFormat, report); err != nil {
		logger.Fatal("failed to write report",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func runApply(logger *zap.Logger, conf *config.Configuration) {
	runner, err := advisor.NewRunner(logger, conf)
	if err != nil {
		logger.Fatal("failed to initialize advisor",
			zap.String("op", "main.runApply"),
			zap.Error(err),
		)
	}

	result, err := runner.Run(nil)
	if err != nil {
		logger.Fatal("failed to apply recommendations",
			zap.String("op", "main.runApply"),
			zap.Error(err),
		)
	}
	if result.Empty() {
		logger.Info("no recommendations to apply", zap.String("op", "main.runApply"))
		return
	}

	for _, change := range result.Changes {
		fmt.Fprintf(os.Stderr, "# %s\n", change)
	}
	if !result.Curve.Significant {
		fmt.Fprintf(os.Stderr, "# payout curve moved by at most %.2f\n", result.Curve.MaxDifference)
	}

	conf.Structure = result.Structure
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(conf); err != nil {
		logger.Fatal("failed to encode configuration",
			zap.String("op", "main.runApply"),
			zap.Error(err),
		)
	}
	_ = enc.Close()
}
