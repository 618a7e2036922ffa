package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"

	"finqa/internal/config"
	"finqa/internal/logging"
	"finqa/internal/models"
	"finqa/internal/pkg/openai"
)

const (
	failedReasoning = "Evaluation failed due to error"
	precheckNote    = "Numeric check: answers are equivalent within tolerance."
	unknownQuestion = "unknown"
)

var (
	ErrMissingExpectedAnswer  = errors.New("expected_answer is missing")
	ErrMissingPredictedAnswer = errors.New("predicted_answer is missing")
	ErrInvalidVerdict         = errors.New("verdict is not a JSON object")
)

type verdict struct {
	AnswerCorrect  bool   `json:"answer_correct"`
	ProgramCorrect bool   `json:"program_correct"`
	Reasoning      string `json:"reasoning"`
}

// Judge asks the model whether a predicted program and answer match the
// reference ones.
type Judge struct {
	completer openai.Completer
	opts      openai.Options
	precheck  bool
	logger    *slog.Logger
}

func NewJudge(completer openai.Completer, cfg *config.Config) *Judge {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Judge{
		completer: completer,
		opts: openai.Options{
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.JudgeTemperature,
			JSONMode:    true,
		},
		precheck: cfg.NumericPrecheck,
		logger:   logging.New("judge"),
	}
}

// QuestionID identifies turn idx (0-based) of item itemID.
func QuestionID(itemID string, idx int) string {
	return fmt.Sprintf("%s-%d", itemID, idx)
}

// Evaluate judges one enhanced turn. It never fails: any problem produces a
// result with both flags false and the error recorded.
func (j *Judge) Evaluate(ctx context.Context, itemID string, idx int, turn models.ConversationTurn) models.EvaluationResult {
	result := models.EvaluationResult{
		QuestionID:       QuestionID(itemID, idx),
		Question:         turn.Question,
		ExpectedProgram:  deref(turn.ExpectedProgram),
		PredictedProgram: deref(turn.PredictedProgram),
	}
	if turn.ExpectedAnswer != nil {
		result.ExpectedAnswer = *turn.ExpectedAnswer
	}
	if turn.PredictedAnswer != nil {
		result.PredictedAnswer = *turn.PredictedAnswer
	}

	v, err := j.judge(ctx, turn, result)
	if err != nil {
		j.logger.Error("evaluate prediction", "question_id", result.QuestionID, "error", err)
		return failed(result, err)
	}

	result.AnswerCorrect = v.AnswerCorrect
	result.ProgramCorrect = v.ProgramCorrect
	result.Reasoning = v.Reasoning

	if j.precheck && !result.AnswerCorrect && EquivalentAnswers(result.ExpectedAnswer, result.PredictedAnswer) {
		result.AnswerCorrect = true
		result.Reasoning = strings.TrimSpace(result.Reasoning + " " + precheckNote)
	}

	return result
}

func (j *Judge) judge(ctx context.Context, turn models.ConversationTurn, r models.EvaluationResult) (verdict, error) {
	if turn.ExpectedAnswer == nil {
		return verdict{}, ErrMissingExpectedAnswer
	}
	if turn.PredictedAnswer == nil {
		return verdict{}, ErrMissingPredictedAnswer
	}

	prompt := EvaluationPrompt(r.Question, r.ExpectedAnswer, r.PredictedAnswer, r.ExpectedProgram, r.PredictedProgram)
	messages := []openai.Message{
		openai.SystemMessage(SystemPrompt),
		openai.UserMessage(prompt),
	}

	raw, err := j.completer.Complete(ctx, messages, j.opts)
	if err != nil {
		return verdict{}, fmt.Errorf("complete: %w", err)
	}

	raw = strings.TrimSpace(raw)
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return verdict{}, fmt.Errorf("%w: %s", ErrInvalidVerdict, preview(raw, 80))
	}

	var v verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	return v, nil
}

func failed(r models.EvaluationResult, err error) models.EvaluationResult {
	if r.Question == "" {
		r.Question = unknownQuestion
	}
	msg := err.Error()
	r.AnswerCorrect = false
	r.ProgramCorrect = false
	r.Reasoning = failedReasoning
	r.Error = &msg
	return r
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
