package weburl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const (
	// maxFetchBytes caps the response body read during enrichment.
	maxFetchBytes = 2 << 20 // 2 MiB

	defaultFetchTimeout = 10 * time.Second
)

// PageInfo holds metadata extracted from a fetched page.
type PageInfo struct {
	Title    string `json:"title,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
	SiteName string `json:"site_name,omitempty"`
}

// Enricher fetches page metadata for captured URLs.
type Enricher struct {
	client *http.Client
}

// NewEnricher creates an Enricher with a bounded-timeout HTTP client.
func NewEnricher(timeout time.Duration) *Enricher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Enricher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the page at rawURL and extracts readable metadata.
// The URL is validated against private address ranges before any
// network access.
func (e *Enricher) Fetch(ctx context.Context, rawURL string) (*PageInfo, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("url rejected: %w", err)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "memoryos-capture/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", rawURL, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxFetchBytes)
	article, err := readability.FromReader(body, parsed)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rawURL, err)
	}

	return &PageInfo{
		Title:    article.Title,
		Excerpt:  article.Excerpt,
		SiteName: article.SiteName,
	}, nil
}
