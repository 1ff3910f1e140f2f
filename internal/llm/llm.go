// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides clients for the summarization model. The agent
// depends only on the Client interface; implementations cover an
// OpenAI-compatible API and a static fallback.
package llm

import (
	"context"

	"github.com/hewansirak/tutormate/pkg/types"
)

// Client exposes the language-model capabilities the agent needs.
type Client interface {
	// Summarize produces a structured summary from a title and abstract.
	Summarize(ctx context.Context, title, abstract string) (string, error)

	// ExtractSearchQuery normalizes a conversational message into a
	// search query and an optional four-digit year. When the model
	// response cannot be parsed, the raw message is returned as the
	// query with an empty year.
	ExtractSearchQuery(ctx context.Context, message string) (query, year string, err error)

	// Chat answers a free-form message with the assistant preamble.
	Chat(ctx context.Context, message string) (string, error)

	Name() string
}

// New builds a Client from cfg. Without an API key the static client is
// used directly; with one, API failures on summaries and chat degrade to
// the static client's output instead of surfacing errors.
func New(cfg types.LLMConfig) Client {
	if cfg.APIKey == "" {
		return &staticClient{}
	}
	return &degradingClient{
		primary: newOpenAIClient(cfg),
		backup:  &staticClient{},
	}
}

// degradingClient tries the primary client and falls back to the backup
// when the provider is unreachable.
type degradingClient struct {
	primary Client
	backup  Client
}

func (d *degradingClient) Summarize(ctx context.Context, title, abstract string) (string, error) {
	if out, err := d.primary.Summarize(ctx, title, abstract); err == nil {
		return out, nil
	}
	return d.backup.Summarize(ctx, title, abstract)
}

func (d *degradingClient) ExtractSearchQuery(ctx context.Context, message string) (string, string, error) {
	if q, y, err := d.primary.ExtractSearchQuery(ctx, message); err == nil {
		return q, y, nil
	}
	return message, "", nil
}

func (d *degradingClient) Chat(ctx context.Context, message string) (string, error) {
	if out, err := d.primary.Chat(ctx, message); err == nil {
		return out, nil
	}
	return d.backup.Chat(ctx, message)
}

func (d *degradingClient) Name() string { return d.primary.Name() }
