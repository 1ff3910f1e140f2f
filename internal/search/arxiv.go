// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hewansirak/tutormate/internal/httputil"
	"github.com/hewansirak/tutormate/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// defaultYear is used when an entry carries no parseable published date.
const defaultYear = 2023

// ArxivProvider queries the arXiv API.
type ArxivProvider struct {
	Client *http.Client
	Config types.SearchConfig
}

// Name returns the provider identifier.
func (p *ArxivProvider) Name() string { return "arxiv" }

// Search queries arXiv for papers matching the free-text query, optionally
// restricted to a submission year, and returns at most limit results.
func (p *ArxivProvider) Search(ctx context.Context, query, year string, limit int) ([]types.Paper, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 {
		limit = p.Config.MaxResults
	}
	if limit <= 0 {
		limit = 3
	}

	searchQuery := "all:" + query
	if year != "" {
		searchQuery += fmt.Sprintf(" AND submittedDate:[%s0101 TO %s1231]", year, year)
	}

	apiURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, url.QueryEscape(searchQuery), limit)

	resp, err := httputil.Get(ctx, p.Client, apiURL, p.Config.HTTPConfig, "")
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var papers []types.Paper
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		paper := types.Paper{
			ID:          PaperID(arxivID),
			Title:       collapseWhitespace(entry.Title),
			Abstract:    collapseWhitespace(entry.Summary),
			Year:        defaultYear,
			URL:         "https://arxiv.org/abs/" + arxivID,
			SearchQuery: query,
			ArxivID:     arxivID,
		}

		for _, a := range entry.Authors {
			paper.Authors = append(paper.Authors, strings.TrimSpace(a.Name))
		}

		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			paper.Year = t.Year()
		}

		papers = append(papers, paper)
	}
	return papers, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041v1"). The
// version suffix is kept so PDF fetches resolve the exact revision.
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(idURL[idx+len(prefix):])
}

// collapseWhitespace trims the string and folds newlines into spaces, the
// way arXiv titles and abstracts arrive wrapped.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
