package compose

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// fetchTimeout bounds each upstream request. A slow upstream is skipped the
// same way an unreachable one is; the next scheduled run retries.
const fetchTimeout = 10 * time.Second

// Fetcher retrieves compose documents from upstream repositories.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with the default request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: fetchTimeout,
		},
	}
}

// Fetch downloads and parses the compose document at url. Transport errors,
// non-200 responses and unparsable YAML all mean the same thing to the
// caller: the upstream surface could not be read this run.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return Parse(body)
}
