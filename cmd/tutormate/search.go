// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hewansirak/tutormate/internal/search"
	"github.com/hewansirak/tutormate/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search arXiv and cache the results",
	Long: `Search queries arXiv directly, bypassing the conversational layer, and
caches the results so they can be summarized or downloaded by paper ID.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("year", "", "restrict results to a publication year (YYYY)")
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (default 3)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search query")
	}
	query := strings.Join(args, " ")
	year, _ := cmd.Flags().GetString("year")

	cfg := buildConfig()
	if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
		cfg.Search.MaxResults = n
	}

	st, err := store.New(cfg.Store)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	provider := &search.ArxivProvider{
		Client: &http.Client{Timeout: cfg.Search.Timeout},
		Config: cfg.Search,
	}

	papers, err := provider.Search(cmd.Context(), query, year, cfg.Search.MaxResults)
	if err != nil {
		return fmt.Errorf("searching arXiv: %w", err)
	}
	if len(papers) == 0 {
		fmt.Println("No papers found.")
		return nil
	}

	for i, p := range papers {
		if err := st.CachePaper(cmd.Context(), p); err != nil {
			return fmt.Errorf("caching %s: %w", p.ID, err)
		}
		fmt.Printf("%d. %s (%d)\n   %s\n   %s\n", i+1, p.Title, p.Year, p.ID, p.URL)
	}
	return nil
}
