// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download fetches paper PDFs from arXiv and records metadata.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hewansirak/tutormate/internal/httputil"
	"github.com/hewansirak/tutormate/pkg/types"
)

// arxivPDFBase is the arXiv PDF endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivPDFBase = "https://arxiv.org/pdf/"

// minPDFSize rejects implausibly small payloads; arXiv sometimes serves
// error pages where a PDF is expected.
const minPDFSize = 1024

// URL shapes that embed an arXiv ID.
var arxivURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`arxiv\.org/abs/([^/?]+)`),
	regexp.MustCompile(`export\.arxiv\.org/abs/([^/?]+)`),
}

// ArxivIDFromURL extracts the arXiv ID embedded in an abstract-page URL,
// or "" when the URL does not point at arXiv.
func ArxivIDFromURL(rawURL string) string {
	for _, p := range arxivURLPatterns {
		if m := p.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// Result describes a completed download.
type Result struct {
	FilePath       string `json:"file_path" yaml:"file_path"`
	FileSize       int64  `json:"file_size" yaml:"file_size"`
	ArxivID        string `json:"arxiv_id" yaml:"arxiv_id"`
	PaperID        string `json:"paper_id" yaml:"paper_id"`
	DownloadURL    string `json:"download_url" yaml:"download_url"`
	AlreadyExisted bool   `json:"already_existed" yaml:"already_existed"`
}

// Fetch downloads the PDF for a cached paper into cfg.DownloadDir. A
// pre-existing file of the same name is reused without a network fetch
// and reported with AlreadyExisted set. Rejected payloads (HTML error
// pages, undersized files) never leave a partial file behind. Fetch tries
// once; there is no retry.
func Fetch(ctx context.Context, client *http.Client, paper *types.Paper, cfg types.DownloadConfig) (*Result, error) {
	dir := cfg.DownloadDir
	if dir == "" {
		dir = "downloads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating download directory: %w", err)
	}

	arxivID := ArxivIDFromURL(paper.URL)
	if arxivID == "" {
		return nil, fmt.Errorf("could not find an arXiv ID for this paper; only arXiv papers can be downloaded")
	}

	pdfURL := arxivPDFBase + arxivID + ".pdf"
	safeName := strings.NewReplacer("/", "_", ":", "_").Replace(arxivID)
	destPath := filepath.Join(dir, safeName+".pdf")

	if info, err := os.Stat(destPath); err == nil {
		return &Result{
			FilePath:       destPath,
			FileSize:       info.Size(),
			ArxivID:        arxivID,
			PaperID:        paper.ID,
			DownloadURL:    pdfURL,
			AlreadyExisted: true,
		}, nil
	}

	resp, err := httputil.Get(ctx, client, pdfURL, cfg.HTTPConfig, "application/pdf")
	if err != nil {
		if httputil.IsTimeout(err) {
			return nil, fmt.Errorf("download timed out; the paper might be large or the server slow")
		}
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: HTTP %d from %s", resp.StatusCode, pdfURL)
	}

	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "html") {
		return nil, fmt.Errorf("paper not available for download (received HTML instead of PDF)")
	}

	size, err := writeFile(resp.Body, destPath)
	if err != nil {
		return nil, err
	}

	if size < minPDFSize {
		os.Remove(destPath)
		return nil, fmt.Errorf("downloaded file appears to be invalid (too small: %d bytes)", size)
	}

	result := &Result{
		FilePath:    destPath,
		FileSize:    size,
		ArxivID:     arxivID,
		PaperID:     paper.ID,
		DownloadURL: pdfURL,
	}

	if err := writeMetadata(paper, result, destPath+".yaml"); err != nil {
		return nil, fmt.Errorf("writing download metadata: %w", err)
	}

	return result, nil
}

// writeFile copies body to destPath via a temporary file, renamed on
// success so readers never see a partial PDF.
func writeFile(body io.Reader, destPath string) (int64, error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	size, copyErr := io.Copy(tmpFile, body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return size, nil
}
