// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"fmt"
	"strings"
)

// chatPreamble is the system prompt for general conversation.
const chatPreamble = `You are an Academic Research Assistant. You help users find and
understand academic papers. Be conversational, helpful, and academic in
tone. When users ask about capabilities, mention that you can search for
papers, summarize them by paper ID, download arXiv PDFs, and track their
search history and research interests.`

// summaryPrompt asks for a structured summary of a paper.
func summaryPrompt(title, abstract string) string {
	return fmt.Sprintf(`Please provide a concise but comprehensive summary of this academic paper:

Title: %s
Abstract: %s

Structure your summary with:
**Key Findings:**
• [2-3 bullet points of main findings]

**Methodology:**
[Brief overview of the research approach]

**Significance:**
[Why this research matters and its potential impact]

Keep it accessible but accurate, suitable for someone wanting to quickly
understand the paper's contribution.`, title, abstract)
}

// queryExtractionPrompt asks the model to normalize a conversational
// message into labeled QUERY/YEAR lines.
func queryExtractionPrompt(message string) string {
	return fmt.Sprintf(`Extract the paper search query and optional publication year from the
user's message. Respond with exactly two lines and nothing else:

QUERY: <normalized search terms>
YEAR: <four-digit year, or "none">

Message: %s`, message)
}

// parseQueryResponse reads the labeled QUERY/YEAR lines from a model
// response. ok is false when no QUERY line is present.
func parseQueryResponse(raw string) (query, year string, ok bool) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "QUERY:"):
			query = strings.TrimSpace(strings.TrimPrefix(line, "QUERY:"))
		case strings.HasPrefix(line, "YEAR:"):
			year = strings.TrimSpace(strings.TrimPrefix(line, "YEAR:"))
		}
	}
	if query == "" {
		return "", "", false
	}
	if !isYear(year) {
		year = ""
	}
	return query, year, true
}

// isYear reports whether s is a plausible four-digit year.
func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s[0] == '1' || s[0] == '2'
}
