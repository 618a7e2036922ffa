package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ConversationTurn is one question of a multi-turn conversation. The predicted
// fields stay nil until the turn has been enhanced with a Prediction.
type ConversationTurn struct {
	Question         string   `json:"question"`
	ExpectedProgram  *string  `json:"expected_program"`
	ExpectedAnswer   *float64 `json:"expected_answer"`
	PredictedProgram *string  `json:"predicted_program,omitempty"`
	PredictedAnswer  *float64 `json:"predicted_answer,omitempty"`
}

// Prediction is what the response parser produces for one turn. The zero value
// is the default prediction used whenever nothing could be recovered.
type Prediction struct {
	Program string  `json:"predicted_program"`
	Answer  float64 `json:"predicted_answer"`
}

// Enhance returns a copy of turn carrying the predicted program and answer.
// The original turn is left untouched.
func Enhance(turn ConversationTurn, p Prediction) ConversationTurn {
	out := turn
	program := p.Program
	answer := p.Answer
	out.PredictedProgram = &program
	out.PredictedAnswer = &answer
	return out
}

// Enhanced reports whether predictions have been merged into the turn.
func (t ConversationTurn) Enhanced() bool {
	return t.PredictedProgram != nil && t.PredictedAnswer != nil
}

// UnmarshalJSON accepts answers encoded either as JSON numbers or numeric
// strings. Anything else, NaN and infinities included, leaves the answer unset.
func (t *ConversationTurn) UnmarshalJSON(data []byte) error {
	type turnAlias ConversationTurn
	aux := struct {
		*turnAlias
		ExpectedAnswer  json.RawMessage `json:"expected_answer"`
		PredictedAnswer json.RawMessage `json:"predicted_answer"`
	}{turnAlias: (*turnAlias)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t.ExpectedAnswer = numberFromJSON(aux.ExpectedAnswer)
	t.PredictedAnswer = numberFromJSON(aux.PredictedAnswer)
	return nil
}

func numberFromJSON(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
