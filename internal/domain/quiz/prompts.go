package quiz

import (
	"embed"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/prompt"
)

//go:embed prompts/*.yml
var promptsFS embed.FS

// Prompts: answer and quiz-generation prompts.
type Prompts struct {
	bundle       *prompt.Bundle
	strictFormat bool
}

// NewPrompts: loads the embedded prompts. strictFormat appends the formatting rules to the quiz prompt.
func NewPrompts(strictFormat bool) (*Prompts, error) {
	bundle, err := prompt.LoadBundle(promptsFS, "prompts", "quiz", "prefix", "rules")
	if err != nil {
		return nil, err
	}
	p := &Prompts{bundle: bundle, strictFormat: strictFormat}
	// fail at startup rather than on the first request
	if _, err := p.Answer(""); err != nil {
		return nil, err
	}
	if _, err := p.Quiz(""); err != nil {
		return nil, err
	}
	return p, nil
}

// Answer: instruction prefix, a blank line, then the user message.
func (p *Prompts) Answer(message string) (string, error) {
	prefix, err := p.bundle.Field("answer", "prefix")
	if err != nil {
		return "", err
	}
	return prefix + "\n\n" + message, nil
}

// Quiz: quiz-generation prompt for answer.
func (p *Prompts) Quiz(answer string) (string, error) {
	formatted, err := p.bundle.Format("quiz", "user", map[string]string{"answer": answer})
	if err != nil {
		return "", err
	}
	if !p.strictFormat {
		return formatted, nil
	}
	rules, err := p.bundle.Field("quiz", "rules")
	if err != nil {
		return "", err
	}
	return formatted + "\n\n" + rules, nil
}
