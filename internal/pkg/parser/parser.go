package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"finqa/internal/models"
)

var (
	reProgram = regexp.MustCompile(`"program":\s*"([^"]*)"`)
	reAnswer  = regexp.MustCompile(`"answer":\s*(-?(?:\d+\.?\d*|\.\d+))`)
)

// Parse extracts a program and answer from a raw model reply. It first decodes
// the widest {...} span as strict JSON and falls back to matching the two
// fields independently. It never fails: unrecoverable fields get their zero
// value.
func Parse(raw string) models.Prediction {
	if p, ok := ParseJSON(raw); ok {
		return p
	}
	return ParseFallback(raw)
}

// ParseJSON decodes the span between the first '{' and the last '}' of raw.
// ok is false when no span exists or it is not valid JSON.
func ParseJSON(raw string) (p models.Prediction, ok bool) {
	span := jsonSpan(raw)
	if span == "" || !gjson.Valid(span) {
		return models.Prediction{}, false
	}

	result := gjson.Parse(span)
	return models.Prediction{
		Program: programFrom(result.Get("program")),
		Answer:  answerFrom(result.Get("answer")),
	}, true
}

// ParseFallback matches "program": "..." and "answer": <number> anywhere in
// raw. A miss on one field does not discard the other.
func ParseFallback(raw string) models.Prediction {
	var p models.Prediction

	if m := reProgram.FindStringSubmatch(raw); m != nil {
		p.Program = m[1]
	}

	if m := reAnswer.FindStringSubmatch(raw); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil && finite(f) {
			p.Answer = f
		}
	}

	return p
}

func jsonSpan(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return ""
	}
	return raw[start : end+1]
}

func programFrom(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return r.Str
	default:
		return r.Raw
	}
}

// answerFrom coerces an answer field to a number. NaN and infinities cannot be
// written back as JSON and count as unparsable.
func answerFrom(r gjson.Result) float64 {
	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Float()
	case gjson.True:
		f = 1
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0
		}
		f = v
	default:
		return 0
	}
	if !finite(f) {
		return 0
	}
	return f
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
