package prediction

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"finqa/internal/logging"
	"finqa/internal/models"
)

// Predictor produces a prediction for one question given the prior turns of
// the same item.
type Predictor interface {
	Predict(ctx context.Context, report models.FinancialReport, history []models.ConversationTurn, question string) (models.Prediction, error)
}

// Stats summarises a prediction run. SuccessRate is a percentage.
type Stats struct {
	TotalItems  int     `json:"total_items"`
	TotalTurns  int     `json:"total_turns"`
	Successful  int     `json:"successful_predictions"`
	Failed      int     `json:"failed_predictions"`
	SuccessRate float64 `json:"success_rate"`
}

type ItemStats struct {
	Turns      int
	Successful int
	Failed     int
}

type Option func(*Processor)

// WithWorkers processes up to n items concurrently. Turns of one item are
// always handled in order by a single worker.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// Processor drives predictions over a dataset of items.
type Processor struct {
	predictor Predictor
	workers   int
	logger    *slog.Logger
}

func NewProcessor(predictor Predictor, opts ...Option) *Processor {
	p := &Processor{
		predictor: predictor,
		workers:   1,
		logger:    logging.New("processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process enhances every turn of every item. A failed turn keeps the default
// prediction and is counted, it never stops the run. Output order matches input.
func (p *Processor) Process(ctx context.Context, items []models.Item) ([]models.Item, Stats) {
	results := make([]models.Item, len(items))
	itemStats := make([]ItemStats, len(items))

	var g errgroup.Group
	g.SetLimit(p.workers)

	for i, item := range items {
		g.Go(func() error {
			p.logger.Info("processing item", "item", i+1, "of", len(items), "id", item.ID)
			results[i], itemStats[i] = p.ProcessItem(ctx, item)
			p.logger.Info("item completed", "item", i+1, "id", item.ID)
			return nil
		})
	}
	_ = g.Wait()

	stats := Stats{TotalItems: len(results)}
	for _, s := range itemStats {
		stats.TotalTurns += s.Turns
		stats.Successful += s.Successful
		stats.Failed += s.Failed
	}
	if stats.TotalTurns > 0 {
		stats.SuccessRate = float64(stats.Successful) / float64(stats.TotalTurns) * 100
	}
	return results, stats
}

// ProcessItem walks the conversation of item in order. History passed to the
// predictor holds the original turns, never the enhanced ones.
func (p *Processor) ProcessItem(ctx context.Context, item models.Item) (models.Item, ItemStats) {
	conversation := item.Conversation
	stats := ItemStats{Turns: len(conversation)}
	p.logger.Debug("item conversation", "id", item.ID, "turns", len(conversation))

	history := make([]models.ConversationTurn, 0, len(conversation))
	enhanced := make([]models.ConversationTurn, 0, len(conversation))

	for idx, turn := range conversation {
		p.logger.Info("processing turn", "id", item.ID, "turn", idx+1, "of", len(conversation), "question", preview(turn.Question, 50))

		prediction, err := p.predictor.Predict(ctx, item.FinancialReport, history, turn.Question)
		if err != nil {
			p.logger.Error("turn failed", "id", item.ID, "turn", idx+1, "error", err)
			prediction = models.Prediction{}
			stats.Failed++
		} else {
			p.logger.Debug("turn completed", "id", item.ID, "turn", idx+1, "program", prediction.Program, "answer", prediction.Answer)
			stats.Successful++
		}

		enhanced = append(enhanced, models.Enhance(turn, prediction))
		history = append(history, turn)
	}

	out := item
	out.Conversation = enhanced
	return out, stats
}

// LogStats writes the final run statistics.
func (p *Processor) LogStats(stats Stats, outputFile string) {
	p.logger.Info("processing complete",
		"total_items", stats.TotalItems,
		"total_turns", stats.TotalTurns,
		"successful", stats.Successful,
		"failed", stats.Failed,
		"success_rate", formatRate(stats.SuccessRate),
		"output", outputFile,
	)
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 1, 64) + "%"
}
