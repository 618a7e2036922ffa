package evaluation

import (
	"fmt"
	"strconv"
	"strings"
)

const SystemPrompt = "You are a financial analyst. Respond only with valid JSON."

const evaluationTemplate = `Evaluate this financial calculation prediction:

Question: %s
Expected Answer: %s
Predicted Answer: %s
Expected Program: %s
Predicted Program: %s

Determine:
1. Is the predicted answer correct? (Consider decimal vs percentage formats - e.g., 0.14 = 14%%)
2. Is the predicted program correct? (Consider functionally equivalent calculations)

Important: Answers may be equivalent even if in different formats:
- 0.14 and 14.0 both represent 14%%
- Programs may be equivalent with different percentage conversions

Respond with:
- answer_correct: true/false
- program_correct: true/false  
- reasoning: Brief explanation of why answers/programs are correct or incorrect, especially for format differences`

// EvaluationPrompt renders the judge's user prompt for one prediction.
func EvaluationPrompt(question string, expectedAnswer, predictedAnswer float64, expectedProgram, predictedProgram string) string {
	return fmt.Sprintf(evaluationTemplate,
		question,
		formatAnswer(expectedAnswer),
		formatAnswer(predictedAnswer),
		expectedProgram,
		predictedProgram,
	)
}

// formatAnswer keeps a trailing ".0" on whole numbers so the judge sees
// answers as decimals.
func formatAnswer(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
