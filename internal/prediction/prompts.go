package prediction

import "fmt"

// SystemPrompt describes the task and the program notation to the model.
const SystemPrompt = `You are a financial analysis expert specialized in answering questions about financial reports and performing calculations.

Your task is to:
1. Analyze financial report data (text and tables)
2. Answer questions about specific financial metrics
3. Generate both a "program" (calculation steps) and a numerical answer

For the "program" field:
- If the answer is a direct lookup from the data, just return the number (e.g., "206588")
- If calculation is needed, show the operation (e.g., "subtract(206588, 181001)" or "divide(25587, 181001)")
- For multi-step calculations, separate with commas and use #0, #1, etc. to reference previous results
- Common operations: add(), subtract(), multiply(), divide()

For the "answer" field:
- Always return a numerical value (float)
- Round to appropriate decimal places (typically 4-5 decimal places for percentages)

Examples:
- Direct lookup: program="206588", answer=206588.0
- Simple calculation: program="subtract(206588, 181001)", answer=25587.0
- Multi-step: program="subtract(206588, 181001), divide(#0, 181001)", answer=0.14136

Be precise with numbers and calculations. Pay attention to context from previous questions in multi-turn conversations.`

const userTemplate = `%s
%s
CURRENT QUESTION: %s

Please provide:
1. A "program" showing the calculation steps or direct lookup
2. A numerical "answer"

Respond in this exact JSON format:
{
    "program": "your_program_here",
    "answer": your_numerical_answer_here
}`

// UserMessage joins the formatted context, the formatted history and the
// current question into the user prompt.
func UserMessage(context, history, question string) string {
	return fmt.Sprintf(userTemplate, context, history, question)
}
