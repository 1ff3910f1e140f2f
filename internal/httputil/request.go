// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across components.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/hewansirak/tutormate/pkg/types"
)

// NewClient builds an http.Client honoring the configured timeout.
func NewClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// Get issues a GET request with the configured User-Agent and an optional
// Accept header. The caller owns the response body.
func Get(ctx context.Context, client *http.Client, rawURL string, cfg types.HTTPConfig, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return client.Do(req)
}

// IsTimeout reports whether err represents a request timeout, either from
// the client deadline or the context.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
