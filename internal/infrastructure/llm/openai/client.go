// Package openai provides an LLMClient implementation using OpenAI.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/civistack/canvass/internal/domain/ports"
	"github.com/civistack/canvass/internal/infrastructure/config"
)

const answerPrompt = `You are a campaign intelligence analyst. Answer the question using the provided context: known issues, entities and their relationships from the campaign knowledge graph, and retrieved intel snippets.

Ground every claim in the context. If the context does not cover the question, say so rather than guessing. Be concise and concrete.`

const extractionPrompt = `You are building a campaign knowledge graph. Extract entities and relationships from the given intel text.

Entity types: candidate, office, jurisdiction, issue, precinct, organization.
Relationship types: running_for, supports_issue, opposes_issue, represents, salient_in, campaigned_in, endorsed_by, donated_to, contains.

Return ONLY a valid JSON object, no other text:
{
  "entities": [{"name": "...", "type": "...", "party": "...", "category": "...", "confidence": 0.9}],
  "relationships": [{"source": "...", "type": "...", "target": "...", "confidence": 0.9}]
}

Example:
Input: "Alice Smith, the Democratic challenger for City Council, has made housing affordability her signature issue."
Output: {
  "entities": [
    {"name": "Alice Smith", "type": "candidate", "party": "DEM", "confidence": 0.95},
    {"name": "City Council", "type": "office", "confidence": 0.9},
    {"name": "Housing Affordability", "type": "issue", "category": "housing", "confidence": 0.9}
  ],
  "relationships": [
    {"source": "Alice Smith", "type": "running_for", "target": "City Council", "confidence": 0.95},
    {"source": "Alice Smith", "type": "supports_issue", "target": "Housing Affordability", "confidence": 0.9}
  ]
}`

// Client implements the LLMClient interface using OpenAI.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI LLM client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	client := openai.NewClient(cfg.APIKey)

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Answer responds to a question using the supplied context block.
func (c *Client) Answer(ctx context.Context, question, contextBlock string) (string, error) {
	user := question
	if contextBlock != "" {
		user = fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, question)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: answerPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ExtractGraph extracts entities and relationships from intel text.
func (c *Client) ExtractGraph(ctx context.Context, text string) (*ports.GraphExtraction, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)

	var extraction ports.GraphExtraction
	if err := json.Unmarshal([]byte(content), &extraction); err != nil {
		return nil, fmt.Errorf("parsing extraction JSON: %w (response: %s)", err, content)
	}

	return &extraction, nil
}

// cleanJSONResponse strips markdown code fences the model sometimes
// wraps around JSON output.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
