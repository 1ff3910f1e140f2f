// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent routes user messages through the intent classifier to
// per-intent handlers and coordinates the store, the search provider,
// and the summarization model.
package agent

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/hewansirak/tutormate/internal/httputil"
	"github.com/hewansirak/tutormate/internal/intent"
	"github.com/hewansirak/tutormate/internal/llm"
	"github.com/hewansirak/tutormate/internal/search"
	"github.com/hewansirak/tutormate/internal/store"
	"github.com/hewansirak/tutormate/pkg/types"
)

// Response is the payload produced for one processed message.
type Response struct {
	Response string        `json:"response"`
	Papers   []types.Paper `json:"papers,omitempty"`
	Summary  string        `json:"summary,omitempty"`
	Error    bool          `json:"error,omitempty"`
}

// Message is one transcript entry.
type Message struct {
	Role string `json:"role"`
	Text string `json:"message"`
}

// Agent holds the collaborators and the process-lifetime conversation
// memory.
type Agent struct {
	store       *store.Store
	llm         llm.Client
	provider    search.Provider
	httpClient  *http.Client
	downloadCfg types.DownloadConfig
	searchLimit int

	// mu guards the memory map itself. Appends from concurrent requests
	// by the same user may still interleave; per-user ordering is not
	// enforced, matching the original behavior.
	mu     sync.Mutex
	memory map[string][]Message
}

// New builds an Agent. The search limit falls back to 3 when the config
// leaves it unset.
func New(st *store.Store, client llm.Client, provider search.Provider, searchCfg types.SearchConfig, downloadCfg types.DownloadConfig) *Agent {
	limit := searchCfg.MaxResults
	if limit <= 0 {
		limit = 3
	}
	return &Agent{
		store:       st,
		llm:         client,
		provider:    provider,
		httpClient:  httputil.NewClient(downloadCfg.HTTPConfig),
		downloadCfg: downloadCfg,
		searchLimit: limit,
		memory:      make(map[string][]Message),
	}
}

// ProcessMessage classifies the message, dispatches to the matching
// handler, records the exchange in the in-memory transcript, and logs it
// to the store. Handler errors never escape: they are converted into an
// apologetic response with Error set.
func (a *Agent) ProcessMessage(ctx context.Context, userID, message string) Response {
	a.remember(userID, "user", message)

	tag := intent.Classify(message)
	resp, err := a.dispatch(ctx, userID, message, tag)
	if err != nil {
		resp = Response{
			Response: fmt.Sprintf("I encountered an error: %v", err),
			Error:    true,
		}
	}

	a.remember(userID, "assistant", resp.Response)

	// Chat logging must not fail the exchange.
	_ = a.store.LogChat(ctx, userID, message, resp.Response, []string{string(tag)})

	return resp
}

func (a *Agent) dispatch(ctx context.Context, userID, message string, tag intent.Intent) (Response, error) {
	switch tag {
	case intent.DownloadPaper:
		return a.handleDownload(ctx, userID, message)
	case intent.GetDownloads:
		return a.handleDownloads(ctx, userID)
	case intent.GenerateSummary:
		return a.handleSummary(ctx, message)
	case intent.SearchPapers:
		return a.handleSearch(ctx, userID, message)
	case intent.GetHistory:
		return a.handleHistory(ctx, userID)
	case intent.GetInterests:
		return a.handleInterests(ctx, userID)
	default:
		return a.handleGeneralChat(ctx, message)
	}
}

func (a *Agent) remember(userID, role, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory[userID] = append(a.memory[userID], Message{Role: role, Text: text})
}

// Transcript returns a copy of the user's in-memory transcript. The
// transcript is never persisted and resets with the process.
func (a *Agent) Transcript(userID string) []Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	msgs := a.memory[userID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
