// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package intent classifies user messages into a closed set of intents
// using an ordered list of keyword rules.
package intent

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a user message.
type Intent string

const (
	DownloadPaper   Intent = "download_paper"
	GetDownloads    Intent = "get_downloads"
	GenerateSummary Intent = "generate_summary"
	SearchPapers    Intent = "search_papers"
	GetHistory      Intent = "get_history"
	GetInterests    Intent = "get_interests"
	GeneralChat     Intent = "general_chat"
)

// paperRefPattern matches cache identifiers such as "paper_50af359f".
var paperRefPattern = regexp.MustCompile(`paper_[0-9a-f]{8}`)

// PaperRef returns the first paper identifier mentioned in the message,
// or "" when there is none. Matching is case-insensitive on the token.
func PaperRef(message string) string {
	return paperRefPattern.FindString(strings.ToLower(message))
}

// rule pairs a predicate with the intent it selects.
type rule struct {
	intent Intent
	match  func(m string) bool
}

// rules is evaluated in order; the first match wins. The ordering is a
// contract: it disambiguates "summarize paper_50af359f" (summary) from
// "find papers about attention" (search) when both mention "paper".
// Matching is on literal substrings, with one carve-out: "search"
// occurring only inside "research" does not trip the exclusion in the
// fourth rule, so "summarize the research on X" stays a summary.
var rules = []rule{
	{DownloadPaper, func(m string) bool {
		return containsAny(m, "download", "get pdf", "save paper") &&
			!containsAny(m, "my downloads", "downloaded papers", "show downloads")
	}},
	{GetDownloads, func(m string) bool {
		return containsAny(m, "my downloads", "downloaded papers", "show downloads")
	}},
	{GenerateSummary, func(m string) bool {
		return paperRefPattern.MatchString(m) &&
			containsAny(m, "summarize", "summary", "explain")
	}},
	{GenerateSummary, func(m string) bool {
		return containsAny(m, "summarize", "summary", "explain") &&
			!mentionsSearchVerb(m)
	}},
	{SearchPapers, func(m string) bool {
		return containsAny(m, "search", "find", "paper", "research") &&
			!paperRefPattern.MatchString(m)
	}},
	{GetHistory, func(m string) bool {
		return containsAny(m, "history", "previous", "past searches")
	}},
	{GetInterests, func(m string) bool {
		return containsAny(m, "interests", "topics", "my research")
	}},
}

// Classify maps a raw user message to exactly one Intent. Messages that
// match no rule fall through to GeneralChat.
func Classify(message string) Intent {
	m := strings.ToLower(message)
	for _, r := range rules {
		if r.match(m) {
			return r.intent
		}
	}
	return GeneralChat
}

// mentionsSearchVerb reports whether the message asks to search, with
// "search" inside "research" masked out first.
func mentionsSearchVerb(m string) bool {
	return strings.Contains(strings.ReplaceAll(m, "research", ""), "search") ||
		strings.Contains(m, "find")
}

func containsAny(m string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(m, s) {
			return true
		}
	}
	return false
}
