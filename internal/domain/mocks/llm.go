package mocks

import (
	"context"

	"github.com/civistack/canvass/internal/domain/ports"
)

// LLM is a mock ports.LLMClient with canned responses.
type LLM struct {
	AnswerText   string
	Extraction   *ports.GraphExtraction
	AnswerErr    error
	ExtractErr   error
	LastQuestion string
	LastContext  string
}

func (m *LLM) Answer(_ context.Context, question, contextBlock string) (string, error) {
	m.LastQuestion = question
	m.LastContext = contextBlock
	if m.AnswerErr != nil {
		return "", m.AnswerErr
	}
	return m.AnswerText, nil
}

func (m *LLM) ExtractGraph(_ context.Context, _ string) (*ports.GraphExtraction, error) {
	if m.ExtractErr != nil {
		return nil, m.ExtractErr
	}
	if m.Extraction != nil {
		return m.Extraction, nil
	}
	return &ports.GraphExtraction{}, nil
}
