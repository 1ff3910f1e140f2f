// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/hewansirak/tutormate/pkg/types"
)

// metadataRecord is the YAML sidecar written next to each downloaded PDF.
type metadataRecord struct {
	Paper        types.Paper `yaml:"paper"`
	Download     Result      `yaml:"download"`
	DownloadedAt string      `yaml:"downloaded_at"`
}

// writeMetadata writes the sidecar record for a completed download.
func writeMetadata(paper *types.Paper, result *Result, path string) error {
	rec := metadataRecord{
		Paper:        *paper,
		Download:     *result,
		DownloadedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := yaml.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadMetadata reads a download sidecar record back; used by tooling and
// tests.
func ReadMetadata(path string) (*types.Paper, *Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var rec metadataRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, nil, fmt.Errorf("parsing metadata: %w", err)
	}
	return &rec.Paper, &rec.Download, nil
}
