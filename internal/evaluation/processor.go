package evaluation

import (
	"context"
	"log/slog"

	"finqa/internal/logging"
	"finqa/internal/models"
)

// Evaluator judges single turns.
type Evaluator interface {
	Evaluate(ctx context.Context, itemID string, idx int, turn models.ConversationTurn) models.EvaluationResult
}

// Processor judges every turn of every item, one at a time and in order.
type Processor struct {
	evaluator Evaluator
	logger    *slog.Logger
}

func NewProcessor(evaluator Evaluator) *Processor {
	return &Processor{
		evaluator: evaluator,
		logger:    logging.New("evaluation"),
	}
}

// EvaluateAll returns one result per turn. A failing turn is reported in its
// result and does not stop the run.
func (p *Processor) EvaluateAll(ctx context.Context, items []models.Item) []models.EvaluationResult {
	var results []models.EvaluationResult

	for i, item := range items {
		p.logger.Info("processing item", "item", i+1, "of", len(items), "id", item.ID)

		for idx, turn := range item.Conversation {
			p.logger.Info("evaluating turn", "id", item.ID, "turn", idx+1, "of", len(item.Conversation))

			result := p.evaluator.Evaluate(ctx, item.ID, idx, turn)
			results = append(results, result)
			p.logResult(result)
		}
	}

	return results
}

// Run evaluates items and summarises the verdicts.
func (p *Processor) Run(ctx context.Context, items []models.Item) ([]models.EvaluationResult, models.EvaluationSummary) {
	results := p.EvaluateAll(ctx, items)
	return results, Summarize(results)
}

func (p *Processor) logResult(r models.EvaluationResult) {
	attrs := []any{
		"question_id", r.QuestionID,
		"answer_correct", r.AnswerCorrect,
		"program_correct", r.ProgramCorrect,
		"expected", r.ExpectedAnswer,
		"predicted", r.PredictedAnswer,
	}
	if r.Reasoning != "" {
		attrs = append(attrs, "reasoning", r.Reasoning)
	}
	if r.Error != nil {
		p.logger.Warn("turn evaluation failed", append(attrs, "error", *r.Error)...)
		return
	}
	p.logger.Info("turn evaluated", attrs...)
}
