package dandi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"dandiscope/internal/core/domain"
)

// Client talks to a DANDI-style archive API. Listing follows the paginated
// assets endpoint until the next link runs out; content URLs come from the
// per-asset metadata endpoint.
type Client struct {
	baseURL  string
	pageSize int
	client   *http.Client
}

// NewClient creates an archive API client
func NewClient(baseURL string, pageSize int, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.dandiarchive.org/api"
	}
	if pageSize <= 0 {
		pageSize = 1000
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: pageSize,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// listEnvelope is one page of the assets listing endpoint. A null next link
// decodes to the empty string and ends the walk.
type listEnvelope struct {
	Count   int                      `json:"count"`
	Next    string                   `json:"next"`
	Results []domain.AssetDescriptor `json:"results"`
}

// assetMetadata is the slice of the per-asset metadata document we need
type assetMetadata struct {
	ContentURL []string `json:"contentUrl"`
}

// ListAssets retrieves every asset descriptor of one dataset version,
// following pagination links in order.
func (c *Client) ListAssets(ctx context.Context, datasetID, version string) ([]domain.AssetDescriptor, error) {
	next := fmt.Sprintf("%s/dandisets/%s/versions/%s/assets/?page_size=%d",
		c.baseURL, datasetID, version, c.pageSize)

	var descriptors []domain.AssetDescriptor
	for next != "" {
		page, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, page.Results...)
		next = page.Next
	}

	return descriptors, nil
}

func (c *Client) fetchPage(ctx context.Context, url string) (*listEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("asset listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("archive returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var page listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode asset listing: %w", err)
	}

	return &page, nil
}

// ResolveContentURL fetches the asset's metadata and returns its first
// content URL matching the backend pattern. No match is a data condition,
// reported as an empty URL with a nil error.
func (c *Client) ResolveContentURL(ctx context.Context, assetID, backend string) (string, error) {
	pattern, err := regexp.Compile(backend)
	if err != nil {
		return "", fmt.Errorf("invalid backend pattern %q: %w", backend, err)
	}

	url := fmt.Sprintf("%s/assets/%s/", c.baseURL, assetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("asset metadata request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("archive returned status %d for asset %s", resp.StatusCode, assetID)
	}

	var meta assetMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", fmt.Errorf("failed to decode asset metadata: %w", err)
	}

	for _, candidate := range meta.ContentURL {
		if pattern.MatchString(candidate) {
			return candidate, nil
		}
	}

	return "", nil
}
