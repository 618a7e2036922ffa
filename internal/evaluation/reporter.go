package evaluation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"finqa/internal/logging"
	"finqa/internal/models"
)

const timestampLayout = "20060102_150405"

// ResultsDocument is the file written after an evaluation run.
type ResultsDocument struct {
	Timestamp string                    `json:"timestamp"`
	RunID     string                    `json:"run_id"`
	Summary   models.EvaluationSummary  `json:"summary"`
	Results   []models.EvaluationResult `json:"results"`
}

// Reporter persists evaluation results and prints a console summary.
type Reporter struct {
	out     io.Writer
	noColor bool
	now     func() time.Time
	logger  *slog.Logger
}

type ReporterOption func(*Reporter)

func WithNoColor(noColor bool) ReporterOption {
	return func(r *Reporter) { r.noColor = noColor }
}

// WithClock overrides the time source used for file names.
func WithClock(now func() time.Time) ReporterOption {
	return func(r *Reporter) { r.now = now }
}

func NewReporter(out io.Writer, opts ...ReporterOption) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	r := &Reporter{
		out:    out,
		now:    time.Now,
		logger: logging.New("reporter"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SaveResults writes results and summary to dir/evaluation_results_<timestamp>.json
// and returns the file path.
func (r *Reporter) SaveResults(results []models.EvaluationResult, summary models.EvaluationSummary, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	timestamp := r.now().Format(timestampLayout)
	if results == nil {
		results = []models.EvaluationResult{}
	}
	doc := ResultsDocument{
		Timestamp: timestamp,
		RunID:     uuid.NewString(),
		Summary:   summary,
		Results:   results,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}

	path := filepath.Join(dir, "evaluation_results_"+timestamp+".json")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}

	r.logger.Info("results saved", "path", path, "run_id", doc.RunID)
	return path, nil
}

// PrintSummary writes the accuracy breakdown to the reporter's output.
func (r *Reporter) PrintSummary(summary models.EvaluationSummary, resultsFile string) {
	rule := strings.Repeat("=", 50)

	var b strings.Builder
	b.WriteString("\n" + rule + "\n")
	b.WriteString(r.style("EVALUATION SUMMARY", lipgloss.Color("33")) + "\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Total Questions: %d\n", summary.Total)
	fmt.Fprintf(&b, "Answer Accuracy: %s\n", r.ratio(summary.AnswerCorrect, summary.Total, summary.AnswerAccuracy))
	fmt.Fprintf(&b, "Program Accuracy: %s\n", r.ratio(summary.ProgramCorrect, summary.Total, summary.ProgramAccuracy))
	fmt.Fprintf(&b, "Both Correct: %s\n", r.ratio(summary.BothCorrect, summary.Total, summary.OverallAccuracy))
	if resultsFile != "" {
		fmt.Fprintf(&b, "\nResults saved to: %s\n", resultsFile)
	}
	b.WriteString(rule + "\n")

	fmt.Fprint(r.out, b.String())
}

func (r *Reporter) ratio(count, total int, pct float64) string {
	text := fmt.Sprintf("%d/%d (%.1f%%)", count, total, pct)
	return r.style(text, accuracyColor(pct, total))
}

func (r *Reporter) style(text string, color lipgloss.Color) string {
	if r.noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func accuracyColor(pct float64, total int) lipgloss.Color {
	switch {
	case total == 0:
		return lipgloss.Color("244")
	case pct >= 80:
		return lipgloss.Color("42")
	case pct >= 50:
		return lipgloss.Color("220")
	default:
		return lipgloss.Color("196")
	}
}
