// Package release discovers published versions of external tools from
// the GitHub releases API.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultAPIBase = "https://api.github.com"

// Doer issues a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client looks up release metadata for owner/repo slugs.
type Client struct {
	HTTPClient Doer
	APIBase    string
}

// NewClient returns a Client backed by httpClient, or by
// http.DefaultClient when nil.
func NewClient(httpClient Doer) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{HTTPClient: httpClient, APIBase: defaultAPIBase}
}

// LatestTag returns the tag name of the latest published release of
// ownerRepo (e.g. "microsoft/fabrikate").
func (c *Client) LatestTag(ctx context.Context, ownerRepo string) (string, error) {
	slug := strings.TrimSpace(ownerRepo)
	if slug == "" || strings.Count(slug, "/") != 1 {
		return "", fmt.Errorf("invalid repository slug %q", ownerRepo)
	}

	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimSuffix(c.APIBase, "/"), slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	response, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request latest release of %s: %w", slug, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s for latest release of %s", response.Status, slug)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("read release metadata: %w", err)
	}

	return tagFromRelease(body)
}

// tagFromRelease is the single validator for release metadata shape: a
// JSON object carrying a non-empty tag_name field.
func tagFromRelease(body []byte) (string, error) {
	var payload struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode release metadata: %w", err)
	}
	tag := strings.TrimSpace(payload.TagName)
	if tag == "" {
		return "", fmt.Errorf("release metadata has no tag_name field")
	}
	return tag, nil
}

// AssetURL builds the direct download URL for a named asset of a
// released tag.
func AssetURL(ownerRepo, tag, asset string) string {
	return fmt.Sprintf("https://github.com/%s/releases/download/%s/%s", ownerRepo, tag, asset)
}
