package evaluation

import (
	"math"

	"finqa/internal/models"
)

// Summarize counts correct verdicts and derives percentages rounded to two
// decimals. An empty result set yields zero accuracies.
func Summarize(results []models.EvaluationResult) models.EvaluationSummary {
	summary := models.EvaluationSummary{Total: len(results)}
	for _, r := range results {
		if r.AnswerCorrect {
			summary.AnswerCorrect++
		}
		if r.ProgramCorrect {
			summary.ProgramCorrect++
		}
		if r.AnswerCorrect && r.ProgramCorrect {
			summary.BothCorrect++
		}
	}

	summary.AnswerAccuracy = percentage(summary.AnswerCorrect, summary.Total)
	summary.ProgramAccuracy = percentage(summary.ProgramCorrect, summary.Total)
	summary.OverallAccuracy = percentage(summary.BothCorrect, summary.Total)
	return summary
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}
