package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"finqa/internal/models"
)

// FromConvFinQA reshapes raw ConvFinQA records into items. Questions come from
// annotation.dialogue_break; programs and answers are matched by position and
// left unset when the lists run short.
func FromConvFinQA(data []byte) ([]models.Item, error) {
	root, err := parseArray(data)
	if err != nil {
		return nil, err
	}

	collector := &issueCollector{}
	var items []models.Item

	for i, record := range root.Array() {
		field := fmt.Sprintf("Record %d", i)
		if !record.IsObject() {
			collector.add(field, "Must be an object")
			continue
		}

		questions := record.Get("annotation.dialogue_break")
		if !questions.IsArray() {
			collector.add(field, "Missing 'annotation.dialogue_break' list")
			continue
		}

		report, err := reportFrom(record)
		if err != nil {
			collector.add(field, err.Error())
			continue
		}

		programs := record.Get("annotation.turn_program").Array()
		answers := record.Get("annotation.exe_ans_list").Array()

		item := models.Item{
			ID:              record.Get("id").String(),
			FinancialReport: report,
			Conversation:    make([]models.ConversationTurn, 0, len(questions.Array())),
		}
		for j, q := range questions.Array() {
			turn := models.ConversationTurn{Question: q.String()}
			if j < len(programs) && programs[j].Type != gjson.Null {
				program := programs[j].String()
				turn.ExpectedProgram = &program
			}
			if j < len(answers) {
				turn.ExpectedAnswer = answerFrom(answers[j])
			}
			item.Conversation = append(item.Conversation, turn)
		}
		items = append(items, item)
	}

	if err := collector.result(); err != nil {
		return nil, err
	}
	return items, nil
}

func reportFrom(record gjson.Result) (models.FinancialReport, error) {
	var report models.FinancialReport

	if pre := record.Get("pre_text"); pre.IsArray() {
		if err := json.Unmarshal([]byte(pre.Raw), &report.PreText); err != nil {
			return report, fmt.Errorf("'pre_text': %w", err)
		}
	}
	if post := record.Get("post_text"); post.IsArray() {
		if err := json.Unmarshal([]byte(post.Raw), &report.PostText); err != nil {
			return report, fmt.Errorf("'post_text': %w", err)
		}
	}
	if table := record.Get("table"); table.IsArray() {
		if err := json.Unmarshal([]byte(table.Raw), &report.Table); err != nil {
			return report, fmt.Errorf("'table': %w", err)
		}
	}

	return report, nil
}

func answerFrom(v gjson.Result) *float64 {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Float()
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
