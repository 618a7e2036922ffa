package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finqa/internal/dataset"
	"finqa/internal/evaluation"
	"finqa/internal/logging"
	"finqa/internal/pkg/openai"
)

var evaluateFlags struct {
	inputFile       string
	outputDir       string
	numericPrecheck bool
	noColor         bool
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Judge predictions against reference answers",
	RunE:  runEvaluate,
}

func init() {
	f := evaluateCmd.Flags()
	f.StringVarP(&evaluateFlags.inputFile, "input-file", "i", "", "Predictions file (default from config)")
	f.StringVarP(&evaluateFlags.outputDir, "output-dir", "o", "", "Directory for evaluation results (default from config)")
	f.BoolVar(&evaluateFlags.numericPrecheck, "numeric-precheck", false, "Accept answers equal up to a percentage conversion")
	f.BoolVar(&evaluateFlags.noColor, "no-color", false, "Disable colored summary output")
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	cfg := appConfig
	inputFile := evaluateFlags.inputFile
	if inputFile == "" {
		inputFile = cfg.OutputFile
	}
	if evaluateFlags.outputDir != "" {
		cfg.EvaluationDir = evaluateFlags.outputDir
	}
	if evaluateFlags.numericPrecheck {
		cfg.NumericPrecheck = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New("evaluate")
	logger.Info("starting evaluation", "input", inputFile, "output_dir", cfg.EvaluationDir, "numeric_precheck", cfg.NumericPrecheck)

	items, err := dataset.Load(inputFile, 0)
	if err != nil {
		return err
	}

	client, err := openai.NewClient(cfg, clientOptions...)
	if err != nil {
		return err
	}

	processor := evaluation.NewProcessor(evaluation.NewJudge(client, cfg))
	results, summary := processor.Run(cmd.Context(), items)

	reporter := evaluation.NewReporter(cmd.OutOrStdout(), evaluation.WithNoColor(evaluateFlags.noColor))
	resultsFile, err := reporter.SaveResults(results, summary, cfg.EvaluationDir)
	if err != nil {
		return err
	}
	reporter.PrintSummary(summary, resultsFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nOverall accuracy: %.1f%%\n", summary.OverallAccuracy)
	return nil
}
