package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client for the remote scraping backend. The backend owns the actual
// supermarket scraping; we only fetch its JSON, whatever shape it happens
// to be in, and hand it to the pipeline. Transient failures are retried a
// few times with a linear backoff before giving up.

type BackendClient struct {
	baseURL string
	http    *http.Client
	retries int
}

// NewBackendClient builds a client for the given backend base URL.
func NewBackendClient(baseURL string, timeout time.Duration, retries int) *BackendClient {
	if retries < 0 {
		retries = 0
	}
	return &BackendClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		retries: retries,
	}
}

// Search fetches the raw search payload for a query. The body comes back
// undecoded so the shape normalizer can deal with it.
func (c *BackendClient) Search(ctx context.Context, query string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(query))

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		body, err := c.fetch(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("backend search %q: %w", query, lastErr)
}

func (c *BackendClient) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
