package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"finqa/internal/dataset"
)

var validateFlags struct {
	inputFile string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report every structural issue in a dataset file",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFlags.inputFile, "input-file", "i", "", "Dataset file (default from config)")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	path := validateFlags.inputFile
	if path == "" {
		path = appConfig.InputFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	out := cmd.OutOrStdout()
	err = dataset.Validate(data)
	var validationErr *dataset.ValidationError
	if errors.As(err, &validationErr) {
		for _, issue := range validationErr.Issues {
			fmt.Fprintln(out, issue.String())
		}
		return fmt.Errorf("%s: %d issue(s) found", path, len(validationErr.Issues))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Fprintf(out, "%s: %d items, no issues\n", path, len(gjson.ParseBytes(data).Array()))
	return nil
}
