// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the tutormate assistant.
package types

// Paper holds metadata for a paper returned by a search and cached in the
// store. The ID is the opaque cache token ("paper_" followed by eight hex
// characters) that users reference in later messages.
type Paper struct {
	// ID is the deterministic cache identifier, e.g. "paper_50af359f".
	ID string `json:"id" yaml:"id"`

	// Title is the paper title with newlines collapsed.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// URL is the canonical abstract-page URL.
	URL string `json:"url" yaml:"url"`

	// SearchQuery is the query that first surfaced this paper.
	SearchQuery string `json:"search_query,omitempty" yaml:"search_query,omitempty"`

	// ArxivID is the provider identifier, e.g. "2301.07041v1".
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	// Summary is the cached generated summary; empty until one is made.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// SearchHistoryEntry is one logged search for a user. Rows are append-only.
type SearchHistoryEntry struct {
	Query string `json:"query" yaml:"query"`

	// SearchType is a category tag; searches issued by the assistant use
	// "academic".
	SearchType string `json:"search_type" yaml:"search_type"`

	// Timestamp is the store-assigned time, "YYYY-MM-DD HH:MM:SS".
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// Interest is a per-user topic counter. The score only ever increases.
type Interest struct {
	Topic        string `json:"topic" yaml:"topic"`
	Score        int    `json:"score" yaml:"score"`
	LastAccessed string `json:"last_accessed" yaml:"last_accessed"`
}

// ChatLogEntry records one processed exchange.
type ChatLogEntry struct {
	UserID    string   `json:"user_id" yaml:"user_id"`
	Message   string   `json:"message" yaml:"message"`
	Response  string   `json:"response" yaml:"response"`
	Handlers  []string `json:"handlers" yaml:"handlers"`
	Timestamp string   `json:"timestamp" yaml:"timestamp"`
}

// DownloadRecord records one completed download. A user may accumulate
// several records for the same paper; the most recent one is authoritative.
type DownloadRecord struct {
	UserID    string `json:"user_id" yaml:"user_id"`
	PaperID   string `json:"paper_id" yaml:"paper_id"`
	FilePath  string `json:"file_path" yaml:"file_path"`
	ArxivID   string `json:"arxiv_id" yaml:"arxiv_id"`
	FileSize  int64  `json:"file_size" yaml:"file_size"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}
