package llm

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"docqa/internal/domain"
)

//go:embed templates/answer_prompt.txt
var answerPromptText string

var answerPrompt = template.Must(template.New("answer").Parse(answerPromptText))

// PromptData is what the answer template sees.
type PromptData struct {
	Question string
	Body     string
}

// RenderPrompt renders the user message sent to the model for question.
func RenderPrompt(question string, c domain.Context) (string, error) {
	var buf bytes.Buffer
	err := answerPrompt.Execute(&buf, PromptData{
		Question: question,
		Body:     c.Body,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
