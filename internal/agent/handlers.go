// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hewansirak/tutormate/internal/download"
	"github.com/hewansirak/tutormate/internal/intent"
	"github.com/hewansirak/tutormate/pkg/types"
)

// Fixed responses for guiding and empty states.
const (
	noResultsMessage   = "No papers found for this query."
	askForIDMessage    = "Please tell me which paper you mean by its ID, e.g. paper_1a2b3c4d. Search for papers first if you don't have one."
	notCachedMessage   = "Paper not found in cache. Please search for papers first."
	noAbstractMessage  = "That paper has no abstract on record, so I can't generate a summary for it."
	noHistoryMessage   = "No search history found."
	noInterestsMessage = "I haven't identified your research interests yet. Search for some papers to get started!"
	noDownloadsMessage = "You haven't downloaded any papers yet."
)

// handleSearch extracts a query and optional year from the message,
// queries the provider, caches every result, and updates the user's
// search history and interest scores.
func (a *Agent) handleSearch(ctx context.Context, userID, message string) (Response, error) {
	query, year, err := a.llm.ExtractSearchQuery(ctx, message)
	if err != nil || strings.TrimSpace(query) == "" {
		query, year = message, ""
	}

	papers, err := a.provider.Search(ctx, query, year, a.searchLimit)
	if err != nil {
		return Response{}, fmt.Errorf("searching papers: %w", err)
	}
	if len(papers) == 0 {
		return Response{Response: noResultsMessage}, nil
	}

	for _, p := range papers {
		if err := a.store.CachePaper(ctx, p); err != nil {
			return Response{}, fmt.Errorf("caching paper: %w", err)
		}
	}

	if err := a.store.LogSearch(ctx, userID, query, "academic"); err != nil {
		return Response{}, fmt.Errorf("logging search: %w", err)
	}
	for _, topic := range Topics(query) {
		if err := a.store.BumpInterest(ctx, userID, topic); err != nil {
			return Response{}, fmt.Errorf("updating interests: %w", err)
		}
	}

	return Response{Response: renderPapers(papers), Papers: papers}, nil
}

// renderPapers formats search results as a numbered list.
func renderPapers(papers []types.Paper) string {
	var b strings.Builder
	b.WriteString("Here's what I found:\n\n")
	for i, p := range papers {
		authors := p.Authors
		if len(authors) > 3 {
			authors = authors[:3]
		}
		fmt.Fprintf(&b, "%d. **%s** (%d)\n", i+1, p.Title, p.Year)
		fmt.Fprintf(&b, "   Authors: %s\n", strings.Join(authors, ", "))
		fmt.Fprintf(&b, "   Paper ID: %s\n", p.ID)
		fmt.Fprintf(&b, "   URL: %s\n\n", p.URL)
	}
	return b.String()
}

// handleSummary resolves the referenced paper and returns its summary,
// generating and caching one on first request. A paper's summary is
// computed at most once; later requests are served from the cache.
func (a *Agent) handleSummary(ctx context.Context, message string) (Response, error) {
	ref := intent.PaperRef(message)
	if ref == "" {
		return Response{Response: askForIDMessage}, nil
	}

	paper, err := a.store.Paper(ctx, ref)
	if err != nil {
		return Response{}, fmt.Errorf("looking up %s: %w", ref, err)
	}
	if paper == nil {
		return Response{Response: notCachedMessage}, nil
	}

	if paper.Summary != "" {
		return Response{Response: paper.Summary, Summary: paper.Summary}, nil
	}

	if paper.Title == "" || paper.Abstract == "" {
		return Response{Response: noAbstractMessage}, nil
	}

	summary, err := a.llm.Summarize(ctx, paper.Title, paper.Abstract)
	if err != nil {
		return Response{}, fmt.Errorf("generating summary for %s: %w", ref, err)
	}
	if err := a.store.SaveSummary(ctx, ref, summary); err != nil {
		return Response{}, fmt.Errorf("saving summary for %s: %w", ref, err)
	}

	return Response{Response: summary, Summary: summary}, nil
}

// handleDownload resolves the referenced paper and fetches its PDF.
// Download failures are reported as formatted messages, not errors.
func (a *Agent) handleDownload(ctx context.Context, userID, message string) (Response, error) {
	ref := intent.PaperRef(message)
	if ref == "" {
		return Response{Response: askForIDMessage}, nil
	}

	paper, err := a.store.Paper(ctx, ref)
	if err != nil {
		return Response{}, fmt.Errorf("looking up %s: %w", ref, err)
	}
	if paper == nil {
		return Response{Response: notCachedMessage}, nil
	}

	result, err := download.Fetch(ctx, a.httpClient, paper, a.downloadCfg)
	if err != nil {
		return Response{Response: fmt.Sprintf("I couldn't download %s: %v", ref, err)}, nil
	}

	rec := types.DownloadRecord{
		UserID:   userID,
		PaperID:  result.PaperID,
		FilePath: result.FilePath,
		ArxivID:  result.ArxivID,
		FileSize: result.FileSize,
	}
	if err := a.store.LogDownload(ctx, rec); err != nil {
		return Response{}, fmt.Errorf("recording download: %w", err)
	}

	if result.AlreadyExisted {
		return Response{Response: fmt.Sprintf(
			"That paper is already saved as %s (%d bytes, arXiv %s).",
			result.FilePath, result.FileSize, result.ArxivID)}, nil
	}
	return Response{Response: fmt.Sprintf(
		"Downloaded %s to %s (%d bytes, arXiv %s).",
		ref, result.FilePath, result.FileSize, result.ArxivID)}, nil
}

// handleDownloads lists the user's download records, most recent first.
func (a *Agent) handleDownloads(ctx context.Context, userID string) (Response, error) {
	records, err := a.store.Downloads(ctx, userID, 10)
	if err != nil {
		return Response{}, fmt.Errorf("reading downloads: %w", err)
	}
	if len(records) == 0 {
		return Response{Response: noDownloadsMessage}, nil
	}

	var b strings.Builder
	b.WriteString("Your downloaded papers:\n")
	for _, r := range records {
		fmt.Fprintf(&b, "• %s: %s (%d bytes, %s)\n", r.PaperID, r.FilePath, r.FileSize, dateOf(r.Timestamp))
	}
	return Response{Response: b.String()}, nil
}

// handleHistory lists the user's recent searches.
func (a *Agent) handleHistory(ctx context.Context, userID string) (Response, error) {
	history, err := a.store.SearchHistory(ctx, userID, 10)
	if err != nil {
		return Response{}, fmt.Errorf("reading search history: %w", err)
	}
	if len(history) == 0 {
		return Response{Response: noHistoryMessage}, nil
	}

	var b strings.Builder
	b.WriteString("Your recent searches:\n")
	for _, e := range history {
		fmt.Fprintf(&b, "• %s (%s)\n", e.Query, dateOf(e.Timestamp))
	}
	return Response{Response: b.String()}, nil
}

// handleInterests lists the user's interest scores.
func (a *Agent) handleInterests(ctx context.Context, userID string) (Response, error) {
	interests, err := a.store.Interests(ctx, userID, 10)
	if err != nil {
		return Response{}, fmt.Errorf("reading interests: %w", err)
	}
	if len(interests) == 0 {
		return Response{Response: noInterestsMessage}, nil
	}

	var b strings.Builder
	b.WriteString("Your research interests:\n")
	for _, i := range interests {
		fmt.Fprintf(&b, "• %s (searched %d times)\n", titleCase(i.Topic), i.Score)
	}
	return Response{Response: b.String()}, nil
}

// handleGeneralChat forwards the message to the model verbatim.
func (a *Agent) handleGeneralChat(ctx context.Context, message string) (Response, error) {
	reply, err := a.llm.Chat(ctx, message)
	if err != nil {
		return Response{}, fmt.Errorf("chat completion: %w", err)
	}
	return Response{Response: reply}, nil
}

// dateOf returns the date portion of a store timestamp.
func dateOf(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
