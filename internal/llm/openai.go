// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hewansirak/tutormate/pkg/types"
)

const (
	// defaultBaseURL is the Gemini OpenAI-compatibility endpoint.
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	defaultModel   = "gemini-2.0-flash-exp"
)

// openAIClient talks to any OpenAI-compatible chat completion API.
type openAIClient struct {
	client openai.Client
	model  string
}

func newOpenAIClient(cfg types.LLMConfig) *openAIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
	)
	return &openAIClient{client: client, model: model}
}

func (c *openAIClient) Name() string {
	return fmt.Sprintf("openai-compatible (%s)", c.model)
}

func (c *openAIClient) Summarize(ctx context.Context, title, abstract string) (string, error) {
	return c.complete(ctx, "You are a concise research assistant.", summaryPrompt(title, abstract))
}

func (c *openAIClient) ExtractSearchQuery(ctx context.Context, message string) (string, string, error) {
	raw, err := c.complete(ctx, "You extract structured search parameters from messages.", queryExtractionPrompt(message))
	if err != nil {
		return "", "", err
	}
	query, year, ok := parseQueryResponse(raw)
	if !ok {
		return message, "", nil
	}
	return query, year, nil
}

func (c *openAIClient) Chat(ctx context.Context, message string) (string, error) {
	return c.complete(ctx, chatPreamble, message)
}

func (c *openAIClient) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
