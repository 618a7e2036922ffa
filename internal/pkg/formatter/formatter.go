package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"finqa/internal/models"
	"finqa/internal/pkg/table"
)

const (
	contextHeader    = "FINANCIAL REPORT CONTEXT:\n\n"
	backgroundHeader = "Background Information:\n"
	tableHeader      = "Financial Data (JSON):\n"
	additionalHeader = "Additional Information:\n"
	historyHeader    = "\nPREVIOUS CONVERSATION:\n"
	notAvailable     = "N/A"
)

// FormatContext renders a report as the context block of a prompt. Sections
// always appear in the order background, table, additional; a section whose
// source is absent is left out entirely, header included.
func FormatContext(report models.FinancialReport) (string, error) {
	builder := strings.Builder{}
	builder.WriteString(contextHeader)

	if report.PreText != nil {
		builder.WriteString(backgroundHeader)
		writeBullets(&builder, report.PreText)
		builder.WriteString("\n")
	}

	if len(report.Table) > 0 {
		tableJSON, err := table.FormatJSON(report.Table)
		if err != nil {
			return "", fmt.Errorf("format table: %w", err)
		}
		if tableJSON != "" {
			builder.WriteString(tableHeader)
			builder.WriteString(tableJSON)
			builder.WriteString("\n\n")
		}
	}

	if report.PostText != nil {
		builder.WriteString(additionalHeader)
		writeBullets(&builder, report.PostText)
	}

	return builder.String(), nil
}

// FormatHistory renders prior turns using their reference program and answer.
func FormatHistory(turns []models.ConversationTurn) string {
	if len(turns) == 0 {
		return ""
	}

	builder := strings.Builder{}
	builder.WriteString(historyHeader)
	for i, turn := range turns {
		builder.WriteString(fmt.Sprintf("Q%d: %s\n", i+1, turn.Question))
		builder.WriteString(fmt.Sprintf("Program: %s\n", programOrNA(turn.ExpectedProgram)))
		builder.WriteString(fmt.Sprintf("Answer: %s\n\n", answerOrNA(turn.ExpectedAnswer)))
	}

	return builder.String()
}

// FormatNumber renders a float without exponent or trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeBullets(builder *strings.Builder, lines []string) {
	for _, line := range lines {
		builder.WriteString(fmt.Sprintf("- %s\n", line))
	}
}

func programOrNA(program *string) string {
	if program == nil {
		return notAvailable
	}
	return *program
}

func answerOrNA(answer *float64) string {
	if answer == nil {
		return notAvailable
	}
	return FormatNumber(*answer)
}
