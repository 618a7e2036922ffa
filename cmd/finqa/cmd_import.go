package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finqa/internal/dataset"
	"finqa/internal/logging"
	"finqa/internal/models"
	"finqa/internal/pkg/filing"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Build datasets from external sources",
}

var convfinqaFlags struct {
	inputFile  string
	outputFile string
}

var convfinqaCmd = &cobra.Command{
	Use:   "convfinqa",
	Short: "Convert raw ConvFinQA records into the dataset format",
	RunE:  runImportConvFinQA,
}

var filingFlags struct {
	htmlFile      string
	id            string
	questionsFile string
	outputFile    string
}

var filingCmd = &cobra.Command{
	Use:   "filing",
	Short: "Build a dataset item from an HTML filing and a question list",
	RunE:  runImportFiling,
}

func init() {
	f := convfinqaCmd.Flags()
	f.StringVarP(&convfinqaFlags.inputFile, "input-file", "i", "train.json", "Raw ConvFinQA file")
	f.StringVarP(&convfinqaFlags.outputFile, "output-file", "o", "", "Output dataset (default from config)")

	f = filingCmd.Flags()
	f.StringVar(&filingFlags.htmlFile, "html", "", "HTML filing (required)")
	f.StringVar(&filingFlags.id, "id", "", "Item id (defaults to the document title)")
	f.StringVar(&filingFlags.questionsFile, "questions", "", "YAML or JSON question list (required)")
	f.StringVarP(&filingFlags.outputFile, "output-file", "o", "", "Output dataset (default from config)")
	_ = filingCmd.MarkFlagRequired("html")
	_ = filingCmd.MarkFlagRequired("questions")

	importCmd.AddCommand(convfinqaCmd)
	importCmd.AddCommand(filingCmd)
}

func runImportConvFinQA(cmd *cobra.Command, _ []string) error {
	output := convfinqaFlags.outputFile
	if output == "" {
		output = appConfig.InputFile
	}

	data, err := os.ReadFile(convfinqaFlags.inputFile)
	if err != nil {
		return fmt.Errorf("read records: %w", err)
	}

	items, err := dataset.FromConvFinQA(data)
	if err != nil {
		return err
	}
	if err := dataset.Save(output, items); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Converted %d records to %s\n", len(items), output)
	return nil
}

func runImportFiling(cmd *cobra.Command, _ []string) error {
	output := filingFlags.outputFile
	if output == "" {
		output = appConfig.InputFile
	}

	raw, err := os.ReadFile(filingFlags.htmlFile)
	if err != nil {
		return fmt.Errorf("read filing: %w", err)
	}

	report, err := filing.ParseHTML(raw)
	if err != nil {
		return fmt.Errorf("parse filing: %w", err)
	}

	turns, err := filing.LoadQuestions(filingFlags.questionsFile)
	if err != nil {
		return err
	}

	id := filingFlags.id
	if id == "" {
		id = filing.Title(raw)
	}
	if id == "" {
		return errors.New("--id is required when the filing has no title")
	}

	item := models.Item{ID: id, FinancialReport: *report, Conversation: turns}
	if err := dataset.Save(output, []models.Item{item}); err != nil {
		return err
	}

	logging.New("import").Info("filing imported",
		"id", id,
		"pre_text", len(report.PreText),
		"table_rows", len(report.Table),
		"post_text", len(report.PostText),
		"questions", len(turns),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote item %q with %d questions to %s\n", id, len(turns), output)
	return nil
}
