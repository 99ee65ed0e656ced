// Package opss fetches the prohibited ingredients dataset from the
// OPSS publication page. The page embeds the dataset as Drupal
// settings JSON inside a script tag; no API is offered.
package opss

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"golang.org/x/time/rate"

	"github.com/gooosetavo/dod-prohibited/internal/core/domain"
	"github.com/gooosetavo/dod-prohibited/internal/core/ports/driven"
	"github.com/gooosetavo/dod-prohibited/internal/logger"
)

// DefaultURL is the OPSS prohibited ingredients publication page.
const DefaultURL = "https://www.opss.org/dod-prohibited-dietary-supplement-ingredients"

// datasetKey is the settings entry holding the record array.
const datasetKey = "dodProhibited"

// settingsTag matches the Drupal settings script tag and captures its
// JSON payload.
var settingsTag = regexp.MustCompile(
	`(?s)<script type="application/json" data-drupal-selector="drupal-settings-json">(.*?)</script>`)

// Ensure Client implements the interface.
var _ driven.SourceFetcher = (*Client)(nil)

// Config holds fetcher settings.
type Config struct {
	// URL of the publication page. Defaults to DefaultURL.
	URL string

	// UserAgent sent with every request, when set.
	UserAgent string

	// Timeout per request. Defaults to 30 seconds.
	Timeout time.Duration

	// RequestsPerSecond throttles outbound requests. Defaults to 1.
	RequestsPerSecond float64
}

// Client retrieves and decodes the published dataset.
type Client struct {
	httpClient *http.Client
	url        string
	userAgent  string
	limiter    *rate.Limiter
}

// New creates a fetcher for the publication page.
func New(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// Fetch downloads the publication page and extracts the record array
// from the embedded settings JSON.
func (c *Client) Fetch(ctx context.Context) ([]domain.Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", c.url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	records, err := extractRecords(body)
	if err != nil {
		return nil, err
	}
	logger.Debug("Extracted %d records from %s", len(records), c.url)
	return records, nil
}

// extractRecords pulls the dataset out of the page HTML.
func extractRecords(page []byte) ([]domain.Record, error) {
	match := settingsTag.FindSubmatch(page)
	if match == nil {
		return nil, fmt.Errorf("%w: settings script tag missing", domain.ErrSourceFormat)
	}

	var settings map[string]json.RawMessage
	if err := json.Unmarshal(match[1], &settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}

	raw, ok := settings[datasetKey]
	if !ok {
		return nil, fmt.Errorf("%w: %q key missing", domain.ErrSourceFormat, datasetKey)
	}

	var records []domain.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}
