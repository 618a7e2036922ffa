package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finqa/internal/dataset"
	"finqa/internal/logging"
	"finqa/internal/pkg/openai"
	"finqa/internal/prediction"
)

var predictFlags struct {
	inputFile   string
	outputFile  string
	maxExamples int
	workers     int
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Generate program and answer predictions for a dataset",
	Example: "  finqa predict                 # process all examples\n" +
		"  finqa predict -n 5            # process the first 5 examples\n" +
		"  finqa predict -i in.json -o out.json --workers 4",
	RunE: runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.StringVarP(&predictFlags.inputFile, "input-file", "i", "", "Input dataset (default from config)")
	f.StringVarP(&predictFlags.outputFile, "output-file", "o", "", "Output predictions file (default from config)")
	f.IntVarP(&predictFlags.maxExamples, "max-examples", "n", 0, "Maximum number of examples to process (0 for all)")
	f.IntVar(&predictFlags.workers, "workers", 0, "Items processed concurrently (default from config)")
}

func runPredict(cmd *cobra.Command, _ []string) error {
	cfg := appConfig
	if predictFlags.maxExamples < 0 {
		return errors.New("--max-examples must be a positive integer")
	}
	if predictFlags.inputFile != "" {
		cfg.InputFile = predictFlags.inputFile
	}
	if predictFlags.outputFile != "" {
		cfg.OutputFile = predictFlags.outputFile
	}
	if predictFlags.workers > 0 {
		cfg.Workers = predictFlags.workers
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger := logging.New("predict")
	if err := validateInput(cfg.InputFile); err != nil {
		return err
	}

	outputFile := dataset.LimitedOutputPath(cfg.OutputFile, predictFlags.maxExamples)
	logger.Info("starting prediction run",
		"input", cfg.InputFile,
		"output", outputFile,
		"max_examples", predictFlags.maxExamples,
		"workers", cfg.Workers,
	)

	items, err := dataset.Load(cfg.InputFile, predictFlags.maxExamples)
	if err != nil {
		return err
	}

	client, err := openai.NewClient(cfg, clientOptions...)
	if err != nil {
		return err
	}

	processor := prediction.NewProcessor(
		prediction.NewGenerator(client, cfg),
		prediction.WithWorkers(cfg.Workers),
	)
	results, stats := processor.Process(cmd.Context(), items)

	if err := dataset.Save(outputFile, results); err != nil {
		return err
	}
	processor.LogStats(stats, outputFile)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processed %d items with %d total turns\n", stats.TotalItems, stats.TotalTurns)
	fmt.Fprintf(out, "Success rate: %.1f%%\n", stats.SuccessRate)
	fmt.Fprintf(out, "Results saved to: %s\n", outputFile)
	return nil
}

// validateInput checks the input file before any model call is made. Item
// level issues are only logged since Load skips those items.
func validateInput(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("input file %s: %w", path, err)
	}

	err = dataset.Validate(data)
	var validationErr *dataset.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &validationErr):
		logger := logging.New("predict")
		for _, issue := range validationErr.Issues {
			logger.Warn("dataset issue", "issue", issue.String())
		}
		return nil
	default:
		return fmt.Errorf("input file %s: %w", path, err)
	}
}
