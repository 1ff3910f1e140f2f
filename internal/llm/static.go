// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"
)

// staticClient is the degraded fallback used when no API key is
// configured or the real provider cannot be reached. Its output is
// deterministic and derived only from the inputs.
type staticClient struct{}

func (s *staticClient) Name() string { return "static" }

func (s *staticClient) Summarize(_ context.Context, title, abstract string) (string, error) {
	lead := abstract
	if len(lead) > 300 {
		lead = lead[:297] + "..."
	}
	return fmt.Sprintf(`**Key Findings:**
• This paper, "%s", is summarized from its abstract only.
• %s

**Methodology:**
Not available without the full model; see the abstract above.

**Significance:**
Generated offline. Configure an API key for a full summary.`, title, lead), nil
}

func (s *staticClient) ExtractSearchQuery(_ context.Context, message string) (string, string, error) {
	return strings.TrimSpace(message), "", nil
}

func (s *staticClient) Chat(_ context.Context, _ string) (string, error) {
	return "I'm running without a language model right now, but I can still " +
		"search for papers, summarize cached ones, download arXiv PDFs, and " +
		"show your history and interests.", nil
}
