package imagegen

import (
	"context"
	"net/url"
)

const maxPromptLen = 120

// Generator produces an illustration URL for a prompt. The real
// generator is an external collaborator; Placeholder stands in until
// one is wired up.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClampPrompt enforces the 120-character prompt limit before a prompt
// reaches any generator. The limit counts characters, not bytes.
func ClampPrompt(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= maxPromptLen {
		return prompt
	}
	return string(runes[:maxPromptLen])
}

type Placeholder struct{}

func (Placeholder) Generate(_ context.Context, prompt string) (string, error) {
	return "https://placehold.co/1080x1920.png?text=" + url.QueryEscape(prompt), nil
}
