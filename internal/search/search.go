// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries an academic API for candidate papers and derives
// stable cache identifiers for the results.
package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/hewansirak/tutormate/pkg/types"
)

// Provider searches a single academic API. Implementations follow the
// Strategy pattern so the agent does not care which API backs a search.
type Provider interface {
	Name() string
	Search(ctx context.Context, query, year string, limit int) ([]types.Paper, error)
}

// PaperID derives the deterministic cache identifier for an external
// identifier: "paper_" plus the first eight hex characters of its
// SHA-256 digest. The same external ID always maps to the same token.
func PaperID(externalID string) string {
	sum := sha256.Sum256([]byte(externalID))
	return "paper_" + hex.EncodeToString(sum[:])[:8]
}
