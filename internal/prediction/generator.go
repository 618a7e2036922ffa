package prediction

import (
	"context"
	"fmt"
	"log/slog"

	"finqa/internal/config"
	"finqa/internal/logging"
	"finqa/internal/models"
	"finqa/internal/pkg/formatter"
	"finqa/internal/pkg/openai"
	"finqa/internal/pkg/parser"
)

// Generator answers one question of a conversation with a single model call.
type Generator struct {
	completer openai.Completer
	opts      openai.Options
	logger    *slog.Logger
}

func NewGenerator(completer openai.Completer, cfg *config.Config) *Generator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Generator{
		completer: completer,
		opts: openai.Options{
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		},
		logger: logging.New("prediction"),
	}
}

// Messages builds the system and user messages for question.
func (g *Generator) Messages(report models.FinancialReport, history []models.ConversationTurn, question string) ([]openai.Message, error) {
	ctxText, err := formatter.FormatContext(report)
	if err != nil {
		return nil, fmt.Errorf("format context: %w", err)
	}
	user := UserMessage(ctxText, formatter.FormatHistory(history), question)
	g.logger.Debug("built prompt", "history_turns", len(history), "user_chars", len(user))

	return []openai.Message{
		openai.SystemMessage(SystemPrompt),
		openai.UserMessage(user),
	}, nil
}

// Predict asks the model for a program and answer. Parsing never fails, so
// an error always means the prompt could not be built or the call failed; the
// returned prediction is then the default one.
func (g *Generator) Predict(ctx context.Context, report models.FinancialReport, history []models.ConversationTurn, question string) (models.Prediction, error) {
	messages, err := g.Messages(report, history, question)
	if err != nil {
		return models.Prediction{}, err
	}

	raw, err := g.completer.Complete(ctx, messages, g.opts)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("complete: %w", err)
	}
	g.logger.Debug("raw response", "text", raw)

	p := parser.Parse(raw)
	g.logger.Debug("parsed prediction", "program", p.Program, "answer", p.Answer)
	return p, nil
}

// Generate is Predict with failures logged and replaced by the default prediction.
func (g *Generator) Generate(ctx context.Context, report models.FinancialReport, history []models.ConversationTurn, question string) models.Prediction {
	p, err := g.Predict(ctx, report, history, question)
	if err != nil {
		g.logger.Error("generate prediction", "question", question, "error", err)
		return models.Prediction{}
	}
	return p
}
