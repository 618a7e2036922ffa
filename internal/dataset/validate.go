package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrInvalidJSON  = errors.New("input is not valid JSON")
	ErrNotArray     = errors.New("input must contain a JSON array")
	ErrEmptyDataset = errors.New("input contains no data")
)

// Issue is one structural problem found in a dataset.
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// ValidationError reports every issue found, not only the first.
type ValidationError struct {
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "dataset validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, issue.String())
	}
	return fmt.Sprintf("dataset validation failed with %d issue(s):\n%s", len(err.Issues), strings.Join(lines, "\n"))
}

type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// Validate checks that data is a non-empty array of items and collects every
// structural issue of every item.
func Validate(data []byte) error {
	root, err := parseArray(data)
	if err != nil {
		return err
	}

	collector := &issueCollector{}
	for i, item := range root.Array() {
		for _, issue := range ItemIssues(i, item) {
			collector.add(issue.Field, issue.Message)
		}
	}
	return collector.result()
}

// ItemIssues lists the structural problems of item at index idx.
func ItemIssues(idx int, item gjson.Result) []Issue {
	field := fmt.Sprintf("Item %d", idx)
	if !item.IsObject() {
		return []Issue{{Field: field, Message: "Must be an object"}}
	}

	collector := &issueCollector{}
	for _, name := range []string{"id", "financial_report", "conversation"} {
		if !item.Get(name).Exists() {
			collector.add(field, fmt.Sprintf("Missing required field '%s'", name))
		}
	}

	if id := item.Get("id"); id.Exists() && id.Type != gjson.String {
		collector.add(field, "'id' must be a string")
	}

	if report := item.Get("financial_report"); report.Exists() {
		if !report.IsObject() {
			collector.add(field, "'financial_report' must be an object")
		} else {
			reportIssues(collector, field, report)
		}
	}

	if conversation := item.Get("conversation"); conversation.Exists() {
		if !conversation.IsArray() {
			collector.add(field, "'conversation' must be a list")
		} else {
			for j, turn := range conversation.Array() {
				turnField := fmt.Sprintf("%s, Turn %d", field, j)
				switch {
				case !turn.IsObject():
					collector.add(turnField, "Turn must be an object")
				case !turn.Get("question").Exists():
					collector.add(turnField, "Missing 'question' field")
				case turn.Get("question").Type != gjson.String:
					collector.add(turnField, "'question' must be a string")
				}
			}
		}
	}

	return collector.issues
}

// reportIssues flags report fields models.FinancialReport cannot decode. Text
// fields may be lists or strings; an empty string table means no table.
func reportIssues(collector *issueCollector, field string, report gjson.Result) {
	for _, name := range []string{"pre_text", "post_text"} {
		text := report.Get(name)
		if text.Exists() && text.Type != gjson.Null && text.Type != gjson.String && !text.IsArray() {
			collector.add(field, fmt.Sprintf("'%s' must be a list or string", name))
		}
	}

	table := report.Get("table")
	switch {
	case !table.Exists(), table.Type == gjson.Null:
	case table.Type == gjson.String && table.Str == "":
	case !table.IsArray():
		collector.add(field, "'table' must be a list of rows")
	default:
		for _, row := range table.Array() {
			if row.Type != gjson.Null && !row.IsArray() {
				collector.add(field, "'table' must be a list of rows")
				return
			}
		}
	}
}

func parseArray(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return gjson.Result{}, ErrNotArray
	}
	if len(root.Array()) == 0 {
		return gjson.Result{}, ErrEmptyDataset
	}
	return root, nil
}
