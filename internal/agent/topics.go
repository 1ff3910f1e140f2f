// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import "strings"

// stopwords are filler words excluded from interest tracking.
var stopwords = map[string]bool{
	"in": true, "on": true, "for": true, "about": true, "and": true,
	"or": true, "the": true, "a": true, "an": true, "with": true,
}

// Topics derives up to three interest tokens from a search query:
// lowercased words, minus stopwords and anything two characters or
// shorter.
func Topics(query string) []string {
	var topics []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if stopwords[word] || len(word) <= 2 {
			continue
		}
		topics = append(topics, word)
		if len(topics) == 3 {
			break
		}
	}
	return topics
}
