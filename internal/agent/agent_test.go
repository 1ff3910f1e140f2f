// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hewansirak/tutormate/internal/search"
	"github.com/hewansirak/tutormate/internal/store"
	"github.com/hewansirak/tutormate/pkg/types"
)

// --- fakes ---

type fakeLLM struct {
	summarizeCalls int
	chatCalls      int
	extractedQuery string
	extractedYear  string
	summary        string
	chatReply      string
}

func (f *fakeLLM) Summarize(_ context.Context, title, _ string) (string, error) {
	f.summarizeCalls++
	if f.summary != "" {
		return f.summary, nil
	}
	return "summary of " + title, nil
}

func (f *fakeLLM) ExtractSearchQuery(_ context.Context, message string) (string, string, error) {
	if f.extractedQuery != "" {
		return f.extractedQuery, f.extractedYear, nil
	}
	return message, "", nil
}

func (f *fakeLLM) Chat(_ context.Context, _ string) (string, error) {
	f.chatCalls++
	if f.chatReply != "" {
		return f.chatReply, nil
	}
	return "hello from the model", nil
}

func (f *fakeLLM) Name() string { return "fake" }

type fakeProvider struct {
	papers   []types.Paper
	err      error
	calls    int
	gotQuery string
	gotYear  string
	gotLimit int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(_ context.Context, query, year string, limit int) ([]types.Paper, error) {
	f.calls++
	f.gotQuery, f.gotYear, f.gotLimit = query, year, limit
	return f.papers, f.err
}

func samplePapers(query string) []types.Paper {
	var papers []types.Paper
	for i, arxivID := range []string{"2204.01691v2", "2205.11111v1", "2301.07041v1"} {
		papers = append(papers, types.Paper{
			ID:          search.PaperID(arxivID),
			Title:       fmt.Sprintf("Sample Paper %d", i+1),
			Authors:     []string{"Alice Example", "Bob Sample", "Carol Demo", "Dan Test"},
			Year:        2022,
			Abstract:    "An abstract.",
			URL:         "https://arxiv.org/abs/" + arxivID,
			SearchQuery: query,
			ArxivID:     arxivID,
		})
	}
	return papers
}

func newTestAgent(t *testing.T, f *fakeLLM, p search.Provider) (*Agent, *store.Store, string) {
	t.Helper()
	tmp := t.TempDir()
	st, err := store.New(types.StoreConfig{Path: filepath.Join(tmp, "test.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	downloadCfg := types.DownloadConfig{
		HTTPConfig:  types.HTTPConfig{Timeout: time.Second, UserAgent: "tutormate-test/0.1"},
		DownloadDir: filepath.Join(tmp, "downloads"),
	}
	a := New(st, f, p, types.SearchConfig{MaxResults: 3}, downloadCfg)
	return a, st, tmp
}

// --- search ---

func TestSearchFlow(t *testing.T) {
	f := &fakeLLM{extractedQuery: "quantum computing", extractedYear: "2022"}
	p := &fakeProvider{papers: samplePapers("quantum computing")}
	a, st, _ := newTestAgent(t, f, p)
	ctx := context.Background()

	resp := a.ProcessMessage(ctx, "u1", "Find papers about quantum computing from 2022")
	if resp.Error {
		t.Fatalf("unexpected error response: %s", resp.Response)
	}
	if p.gotQuery != "quantum computing" || p.gotYear != "2022" || p.gotLimit != 3 {
		t.Errorf("provider called with (%q, %q, %d)", p.gotQuery, p.gotYear, p.gotLimit)
	}
	if len(resp.Papers) != 3 {
		t.Fatalf("got %d papers, want 3", len(resp.Papers))
	}
	if !strings.Contains(resp.Response, "1. **Sample Paper 1** (2022)") {
		t.Errorf("response not numbered:\n%s", resp.Response)
	}
	// Only the first three authors are rendered.
	if strings.Contains(resp.Response, "Dan Test") {
		t.Errorf("response lists more than 3 authors:\n%s", resp.Response)
	}

	// Every result is cached under its deterministic identifier.
	for _, want := range p.papers {
		got, err := st.Paper(ctx, want.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got == nil {
			t.Errorf("paper %s not cached", want.ID)
		}
	}

	history, err := st.SearchHistory(ctx, "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Query != "quantum computing" {
		t.Errorf("history = %+v", history)
	}

	interests, err := st.Interests(ctx, "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(interests) != 2 {
		t.Fatalf("interests = %+v, want quantum and computing", interests)
	}
}

func TestSearchInterestMonotonicity(t *testing.T) {
	f := &fakeLLM{extractedQuery: "quantum computing"}
	p := &fakeProvider{papers: samplePapers("quantum computing")}
	a, st, _ := newTestAgent(t, f, p)
	ctx := context.Background()

	const n = 4
	for i := 0; i < n; i++ {
		a.ProcessMessage(ctx, "u1", "find papers about quantum computing")
	}

	interests, err := st.Interests(ctx, "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, in := range interests {
		if in.Score != n {
			t.Errorf("interest %q score = %d, want %d", in.Topic, in.Score, n)
		}
	}
}

func TestSearchNoResults(t *testing.T) {
	a, _, _ := newTestAgent(t, &fakeLLM{}, &fakeProvider{})
	resp := a.ProcessMessage(context.Background(), "u1", "find papers about nothing at all")
	if resp.Response != noResultsMessage {
		t.Errorf("response = %q", resp.Response)
	}
}

func TestSearchDegradesWhenProviderDown(t *testing.T) {
	failing := &fakeProvider{err: errors.New("connection timed out")}
	a, st, _ := newTestAgent(t, &fakeLLM{extractedQuery: "quantum computing"}, search.NewDegrading(failing))
	ctx := context.Background()

	resp := a.ProcessMessage(ctx, "u1", "find papers about quantum computing")
	if resp.Error {
		t.Fatalf("degraded search must not report an error, got: %s", resp.Response)
	}
	if len(resp.Papers) == 0 {
		t.Fatal("degraded search returned no papers")
	}
	if failing.calls != 1 {
		t.Errorf("primary provider called %d times", failing.calls)
	}

	// Placeholders are cached like real results, so a follow-up summary
	// request by ID still works.
	cached, err := st.Paper(ctx, resp.Papers[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if cached == nil || cached.Abstract == "" {
		t.Errorf("placeholder paper not cached: %+v", cached)
	}
}

func TestSearchProviderErrorIsCaught(t *testing.T) {
	p := &fakeProvider{err: errors.New("api down")}
	a, st, _ := newTestAgent(t, &fakeLLM{}, p)
	ctx := context.Background()

	resp := a.ProcessMessage(ctx, "u1", "find papers about attention")
	if !resp.Error {
		t.Fatal("expected Error to be set")
	}
	if !strings.HasPrefix(resp.Response, "I encountered an error: ") {
		t.Errorf("response = %q", resp.Response)
	}

	// The exchange is still logged.
	history, err := st.SearchHistory(ctx, "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Errorf("failed search must not be logged as history: %+v", history)
	}
}

// --- summary ---

func TestSummaryIdempotent(t *testing.T) {
	f := &fakeLLM{summary: "the one true summary"}
	a, st, _ := newTestAgent(t, f, &fakeProvider{})
	ctx := context.Background()

	paper := samplePapers("q")[0]
	if err := st.CachePaper(ctx, paper); err != nil {
		t.Fatal(err)
	}

	msg := "summarize " + paper.ID
	first := a.ProcessMessage(ctx, "u1", msg)
	second := a.ProcessMessage(ctx, "u1", msg)

	if f.summarizeCalls != 1 {
		t.Errorf("Summarize called %d times, want exactly 1", f.summarizeCalls)
	}
	if first.Summary != "the one true summary" || second.Summary != first.Summary {
		t.Errorf("summaries differ: %q vs %q", first.Summary, second.Summary)
	}
}

func TestSummaryNotCached(t *testing.T) {
	f := &fakeLLM{}
	a, _, _ := newTestAgent(t, f, &fakeProvider{})

	resp := a.ProcessMessage(context.Background(), "u1", "summarize paper_50af359f")
	if resp.Response != notCachedMessage {
		t.Errorf("response = %q", resp.Response)
	}
	if f.summarizeCalls != 0 {
		t.Errorf("Summarize called %d times for a missing paper", f.summarizeCalls)
	}
}

func TestSummaryNoReference(t *testing.T) {
	a, _, _ := newTestAgent(t, &fakeLLM{}, &fakeProvider{})
	resp := a.ProcessMessage(context.Background(), "u1", "please summarize it")
	if resp.Response != askForIDMessage {
		t.Errorf("response = %q", resp.Response)
	}
}

func TestSummaryMissingAbstract(t *testing.T) {
	f := &fakeLLM{}
	a, st, _ := newTestAgent(t, f, &fakeProvider{})
	ctx := context.Background()

	paper := samplePapers("q")[0]
	paper.Abstract = ""
	if err := st.CachePaper(ctx, paper); err != nil {
		t.Fatal(err)
	}

	resp := a.ProcessMessage(ctx, "u1", "summarize "+paper.ID)
	if resp.Response != noAbstractMessage {
		t.Errorf("response = %q", resp.Response)
	}
	if f.summarizeCalls != 0 {
		t.Error("Summarize called despite missing abstract")
	}
}

// --- download ---

func TestDownloadAlreadyExisted(t *testing.T) {
	a, st, tmp := newTestAgent(t, &fakeLLM{}, &fakeProvider{})
	ctx := context.Background()

	paper := samplePapers("q")[0]
	if err := st.CachePaper(ctx, paper); err != nil {
		t.Fatal(err)
	}

	// Pre-existing file: the handler must not touch the network.
	dir := filepath.Join(tmp, "downloads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, paper.ArxivID+".pdf")
	if err := os.WriteFile(path, []byte("%PDF existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	resp := a.ProcessMessage(ctx, "u1", "download "+paper.ID)
	if resp.Error {
		t.Fatalf("unexpected error: %s", resp.Response)
	}
	if !strings.Contains(resp.Response, "already saved") {
		t.Errorf("response = %q", resp.Response)
	}

	records, err := st.Downloads(ctx, "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].ArxivID != paper.ArxivID {
		t.Errorf("records = %+v", records)
	}
}

func TestDownloadNotCached(t *testing.T) {
	a, _, _ := newTestAgent(t, &fakeLLM{}, &fakeProvider{})
	resp := a.ProcessMessage(context.Background(), "u1", "download paper_50af359f")
	if resp.Response != notCachedMessage {
		t.Errorf("response = %q", resp.Response)
	}
}

func TestDownloadsEmpty(t *testing.T) {
	a, _, _ := newTestAgent(t, &fakeLLM{}, &fakeProvider{})
	resp := a.ProcessMessage(context.Background(), "u1", "show my downloads")
	if resp.Response != noDownloadsMessage {
		t.Errorf("response = %q", resp.Response)
	}
}

// --- history / interests / chat ---

func TestHistoryEmptyThenPopulated(t *testing.T) {
	f := &fakeLLM{extractedQuery: "graph neural networks"}
	p := &fakeProvider{papers: samplePapers("graph neural networks")}
	a, _, _ := newTestAgent(t, f, p)
	ctx := context.Background()

	resp := a.ProcessMessage(ctx, "u1", "show my history")
	if resp.Response != noHistoryMessage {
		t.Errorf("response = %q", resp.Response)
	}

	a.ProcessMessage(ctx, "u1", "find papers about graph neural networks")

	resp = a.ProcessMessage(ctx, "u1", "show my history")
	if !strings.Contains(resp.Response, "graph neural networks") {
		t.Errorf("history response = %q", resp.Response)
	}
}

func TestInterestsEmptyMessage(t *testing.T) {
	a, _, _ := newTestAgent(t, &fakeLLM{}, &fakeProvider{})
	resp := a.ProcessMessage(context.Background(), "u1", "what are my interests")
	if resp.Response != noInterestsMessage {
		t.Errorf("response = %q", resp.Response)
	}
}

func TestInterestsRendering(t *testing.T) {
	f := &fakeLLM{extractedQuery: "quantum computing"}
	p := &fakeProvider{papers: samplePapers("quantum computing")}
	a, _, _ := newTestAgent(t, f, p)
	ctx := context.Background()

	a.ProcessMessage(ctx, "u1", "find papers about quantum computing")
	resp := a.ProcessMessage(ctx, "u1", "what are my interests")

	if !strings.Contains(resp.Response, "Quantum (searched 1 times)") {
		t.Errorf("interests response = %q", resp.Response)
	}
}

func TestGeneralChatFallback(t *testing.T) {
	f := &fakeLLM{chatReply: "I'm doing well!"}
	a, _, _ := newTestAgent(t, f, &fakeProvider{})

	resp := a.ProcessMessage(context.Background(), "u1", "how are you today?")
	if resp.Response != "I'm doing well!" {
		t.Errorf("response = %q", resp.Response)
	}
	if f.chatCalls != 1 {
		t.Errorf("Chat called %d times", f.chatCalls)
	}
}

// --- orchestration ---

func TestTranscriptAccumulates(t *testing.T) {
	a, _, _ := newTestAgent(t, &fakeLLM{}, &fakeProvider{})
	ctx := context.Background()

	a.ProcessMessage(ctx, "u1", "hello")
	a.ProcessMessage(ctx, "u1", "hello again")

	transcript := a.Transcript("u1")
	if len(transcript) != 4 {
		t.Fatalf("transcript has %d entries, want 4", len(transcript))
	}
	wantRoles := []string{"user", "assistant", "user", "assistant"}
	for i, m := range transcript {
		if m.Role != wantRoles[i] {
			t.Errorf("entry %d role = %q, want %q", i, m.Role, wantRoles[i])
		}
	}

	if got := a.Transcript("stranger"); len(got) != 0 {
		t.Errorf("unknown user transcript = %v", got)
	}
}

func TestTopics(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"quantum computing", []string{"quantum", "computing"}},
		{"papers about the RL in games", []string{"papers", "games"}},
		{"Quantum Computing And ML", []string{"quantum", "computing"}},
		{"a an the", nil},
		{"one two three four five", []string{"one", "two", "three"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := Topics(tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("Topics(%q) = %v, want %v", tt.query, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Topics(%q) = %v, want %v", tt.query, got, tt.want)
				break
			}
		}
	}
}
