package evaluation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"finqa/internal/evaluation"
	"finqa/internal/models"
)

var _ = Describe("Summarize", func() {
	It("computes accuracies from counts", func() {
		results := []models.EvaluationResult{
			{AnswerCorrect: true, ProgramCorrect: true},
			{AnswerCorrect: true},
			{ProgramCorrect: true},
			{},
		}

		Expect(evaluation.Summarize(results)).To(Equal(models.EvaluationSummary{
			Total:           4,
			AnswerCorrect:   2,
			ProgramCorrect:  2,
			BothCorrect:     1,
			AnswerAccuracy:  50.0,
			ProgramAccuracy: 50.0,
			OverallAccuracy: 25.0,
		}))
	})

	It("rounds to two decimals", func() {
		results := []models.EvaluationResult{{AnswerCorrect: true}, {}, {}}

		summary := evaluation.Summarize(results)
		Expect(summary.AnswerAccuracy).To(Equal(33.33))
		Expect(summary.ProgramAccuracy).To(BeZero())
	})

	It("is zero for no results", func() {
		Expect(evaluation.Summarize(nil)).To(Equal(models.EvaluationSummary{}))
	})

	It("is a pure function of its input", func() {
		results := []models.EvaluationResult{{AnswerCorrect: true}, {ProgramCorrect: true}}
		Expect(evaluation.Summarize(results)).To(Equal(evaluation.Summarize(results)))
	})
})
