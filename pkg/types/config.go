// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "tutormate/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the paper search provider.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the number of results returned per search (default 3).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// LLMConfig holds settings for the summarization model.
type LLMConfig struct {
	// Model is the model identifier (e.g. "gemini-2.0-flash-exp").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the model API. When empty the static
	// fallback client is used.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL is the OpenAI-compatible endpoint. Defaults to the Gemini
	// compatibility endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// DownloadConfig holds settings for PDF downloads.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadDir is the directory PDFs and their metadata records are
	// written to (default "downloads").
	DownloadDir string `json:"download_dir" yaml:"download_dir"`
}

// StoreConfig holds settings for the SQLite store.
type StoreConfig struct {
	// Path is the database file path (default "data/tutormate.db").
	Path string `json:"path" yaml:"path"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr"`

	// HistoryLimit bounds the search-history endpoint (default 20).
	HistoryLimit int `json:"history_limit" yaml:"history_limit"`

	// InterestsLimit bounds the user-interests endpoint (default 10).
	InterestsLimit int `json:"interests_limit" yaml:"interests_limit"`
}

// Config groups all component configurations.
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Search   SearchConfig   `json:"search" yaml:"search"`
	LLM      LLMConfig      `json:"llm" yaml:"llm"`
	Download DownloadConfig `json:"download" yaml:"download"`
}
