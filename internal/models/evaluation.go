package models

// EvaluationResult is the judge's verdict for a single (item, turn) pair.
type EvaluationResult struct {
	QuestionID       string  `json:"question_id"`
	Question         string  `json:"question"`
	ExpectedAnswer   float64 `json:"expected_answer"`
	PredictedAnswer  float64 `json:"predicted_answer"`
	ExpectedProgram  string  `json:"expected_program"`
	PredictedProgram string  `json:"predicted_program"`
	AnswerCorrect    bool    `json:"answer_correct"`
	ProgramCorrect   bool    `json:"program_correct"`
	Reasoning        string  `json:"reasoning"`
	Error            *string `json:"error"`
}

type EvaluationSummary struct {
	Total           int     `json:"total"`
	AnswerCorrect   int     `json:"answer_correct"`
	ProgramCorrect  int     `json:"program_correct"`
	BothCorrect     int     `json:"both_correct"`
	AnswerAccuracy  float64 `json:"answer_accuracy"`
	ProgramAccuracy float64 `json:"program_accuracy"`
	OverallAccuracy float64 `json:"overall_accuracy"`
}
