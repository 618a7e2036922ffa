package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FinancialReport is the document a conversation is grounded on. A nil slice
// means the field was absent from the source record.
type FinancialReport struct {
	PreText  []string `json:"pre_text"`
	PostText []string `json:"post_text"`
	// Table row 0 is the header row. Cells keep their decoded JSON type.
	Table [][]any `json:"table"`
}

type Item struct {
	ID              string             `json:"id"`
	FinancialReport FinancialReport    `json:"financial_report"`
	Conversation    []ConversationTurn `json:"conversation"`
}

// UnmarshalJSON accepts the text fields either as lists or as a single
// string, which is how the dataset loader writes reports without text. An
// empty string is present but empty. An empty string table counts as absent.
func (r *FinancialReport) UnmarshalJSON(data []byte) error {
	var aux struct {
		PreText  json.RawMessage `json:"pre_text"`
		PostText json.RawMessage `json:"post_text"`
		Table    json.RawMessage `json:"table"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if r.PreText, err = textFromJSON(aux.PreText); err != nil {
		return fmt.Errorf("pre_text: %w", err)
	}
	if r.PostText, err = textFromJSON(aux.PostText); err != nil {
		return fmt.Errorf("post_text: %w", err)
	}

	r.Table = nil
	raw := bytes.TrimSpace(aux.Table)
	if len(raw) == 0 || string(raw) == "null" || string(raw) == `""` {
		return nil
	}
	if err := json.Unmarshal(raw, &r.Table); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	return nil
}

func textFromJSON(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		if s == "" {
			return []string{}, nil
		}
		return []string{s}, nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, err
		}
		lines := make([]string, 0, len(elems))
		for _, elem := range elems {
			var s string
			if err := json.Unmarshal(elem, &s); err != nil {
				s = string(bytes.TrimSpace(elem))
			}
			lines = append(lines, s)
		}
		return lines, nil
	default:
		return nil, fmt.Errorf("must be a list or string, got %s", raw)
	}
}
