// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/hewansirak/tutormate/pkg/types"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2204.01691v2</id>
    <title>Quantum Error Correction
 with Surface Codes</title>
    <summary>We study surface codes
 for quantum error correction.</summary>
    <published>2022-04-04T17:58:00Z</published>
    <author><name>Alice Example</name></author>
    <author><name>Bob Sample</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2205.11111v1</id>
    <title>Variational Quantum Algorithms</title>
    <summary>A survey of variational methods.</summary>
    <published>2022-05-20T09:00:00Z</published>
    <author><name>Carol Demo</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Scaling Quantum Hardware</title>
    <summary>Hardware scaling considerations.</summary>
    <published>not-a-date</published>
    <author><name>Dan Test</name></author>
  </entry>
</feed>`

func testProvider(t *testing.T, handler http.HandlerFunc) *ArxivProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	origBase := arxivAPIBase
	arxivAPIBase = srv.URL
	t.Cleanup(func() { arxivAPIBase = origBase })

	return &ArxivProvider{
		Client: srv.Client(),
		Config: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "tutormate-test/0.1"},
			MaxResults: 3,
		},
	}
}

func TestArxivSearch(t *testing.T) {
	var gotQuery string
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		fmt.Fprint(w, sampleFeed)
	})

	papers, err := p.Search(context.Background(), "quantum computing", "2022", 3)
	if err != nil {
		t.Fatal(err)
	}

	if want := "all:quantum computing AND submittedDate:[20220101 TO 20221231]"; gotQuery != want {
		t.Errorf("search_query = %q, want %q", gotQuery, want)
	}

	if len(papers) != 3 {
		t.Fatalf("got %d papers, want 3", len(papers))
	}

	first := papers[0]
	if first.ArxivID != "2204.01691v2" {
		t.Errorf("ArxivID = %q, want %q", first.ArxivID, "2204.01691v2")
	}
	if first.Title != "Quantum Error Correction with Surface Codes" {
		t.Errorf("Title = %q (newlines not collapsed?)", first.Title)
	}
	if first.Year != 2022 {
		t.Errorf("Year = %d, want 2022", first.Year)
	}
	if first.URL != "https://arxiv.org/abs/2204.01691v2" {
		t.Errorf("URL = %q", first.URL)
	}
	if len(first.Authors) != 2 || first.Authors[0] != "Alice Example" {
		t.Errorf("Authors = %v", first.Authors)
	}
	if first.SearchQuery != "quantum computing" {
		t.Errorf("SearchQuery = %q", first.SearchQuery)
	}

	idPattern := regexp.MustCompile(`^paper_[0-9a-f]{8}$`)
	for _, paper := range papers {
		if !idPattern.MatchString(paper.ID) {
			t.Errorf("paper ID %q does not match paper_XXXXXXXX shape", paper.ID)
		}
	}

	// Unparseable published date falls back to the default year.
	if papers[2].Year != defaultYear {
		t.Errorf("fallback Year = %d, want %d", papers[2].Year, defaultYear)
	}
}

func TestArxivSearchNoYear(t *testing.T) {
	var gotQuery string
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		fmt.Fprint(w, sampleFeed)
	})

	if _, err := p.Search(context.Background(), "quantum computing", "", 3); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(gotQuery, "submittedDate") {
		t.Errorf("search_query %q has a date range without a year", gotQuery)
	}
}

func TestArxivSearchEmptyQuery(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleFeed)
	})
	if _, err := p.Search(context.Background(), "   ", "", 3); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestArxivSearchHTTPError(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	if _, err := p.Search(context.Background(), "quantum", "", 3); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}

func TestPaperIDDeterministic(t *testing.T) {
	a := PaperID("2301.07041v1")
	b := PaperID("2301.07041v1")
	if a != b {
		t.Errorf("PaperID not deterministic: %q vs %q", a, b)
	}
	if a == PaperID("2301.07041v2") {
		t.Error("distinct external IDs mapped to the same token")
	}
	if !regexp.MustCompile(`^paper_[0-9a-f]{8}$`).MatchString(a) {
		t.Errorf("PaperID shape = %q", a)
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041v1"},
		{"https://arxiv.org/abs/2301.07041", "2301.07041"},
		{"http://export.arxiv.org/abs/cond-mat/0207270v2", "cond-mat/0207270v2"},
		{"http://example.com/nothing", ""},
	}
	for _, tt := range tests {
		if got := extractArxivID(tt.in); got != tt.want {
			t.Errorf("extractArxivID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
