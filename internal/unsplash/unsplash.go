// Package unsplash locates an illustrative image for a topic via the
// Unsplash random-photo endpoint.
package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/omjanipms/LinkedIn-Agent/internal/logger"
)

const defaultBaseURL = "https://api.unsplash.com"

type Client struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
}

func NewClient(accessKey string) *Client {
	return &Client{
		accessKey:  accessKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type randomPhotoResponse struct {
	URLs struct {
		Regular string `json:"regular"`
	} `json:"urls"`
}

// FindImage returns the URL of a random photo matching the topic.
func (c *Client) FindImage(ctx context.Context, topic string) (string, error) {
	if c.accessKey == "" {
		return "", fmt.Errorf("UNSPLASH_ACCESS_KEY is not set")
	}

	endpoint := fmt.Sprintf("%s/photos/random?query=%s&client_id=%s",
		c.baseURL, url.QueryEscape(topic), url.QueryEscape(c.accessKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build image request: %w", err)
	}

	logger.Debug("requesting image", "topic", topic)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image lookup failed with status %d: %s", resp.StatusCode, body)
	}

	var photo randomPhotoResponse
	if err := json.Unmarshal(body, &photo); err != nil {
		return "", fmt.Errorf("failed to decode image response: %w", err)
	}

	if photo.URLs.Regular == "" {
		return "", fmt.Errorf("image response contained no usable URL for topic %q", topic)
	}

	return photo.URLs.Regular, nil
}
