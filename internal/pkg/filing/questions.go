package filing

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"finqa/internal/models"
)

type questionSpec struct {
	Question        string   `yaml:"question"`
	ExpectedProgram *string  `yaml:"expected_program"`
	ExpectedAnswer  *float64 `yaml:"expected_answer"`
}

// LoadQuestions reads a YAML or JSON list of questions with optional
// reference programs and answers.
func LoadQuestions(path string) ([]models.ConversationTurn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return ParseQuestions(data)
}

func ParseQuestions(data []byte) ([]models.ConversationTurn, error) {
	var specs []questionSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&specs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("questions file is empty")
		}
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	if len(specs) == 0 {
		return nil, errors.New("questions file is empty")
	}

	var problems []string
	turns := make([]models.ConversationTurn, 0, len(specs))
	for i, spec := range specs {
		question := strings.TrimSpace(spec.Question)
		if question == "" {
			problems = append(problems, fmt.Sprintf("questions[%d]: question is required", i))
			continue
		}
		turns = append(turns, models.ConversationTurn{
			Question:        question,
			ExpectedProgram: spec.ExpectedProgram,
			ExpectedAnswer:  spec.ExpectedAnswer,
		})
	}
	if len(problems) > 0 {
		return nil, errors.New(strings.Join(problems, "; "))
	}
	return turns, nil
}
