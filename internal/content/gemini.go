// Package content generates marketing copy for a topic with the Gemini
// generateContent REST API.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/omjanipms/LinkedIn-Agent/internal/logger"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Generator produces LinkedIn copy for a topic.
type Generator struct {
	apiKey     string
	model      string
	maxLength  int
	baseURL    string
	httpClient *http.Client
}

func NewGenerator(apiKey, model string, maxLength int) *Generator {
	return &Generator{
		apiKey:     apiKey,
		model:      model,
		maxLength:  maxLength,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate asks the model for a post about topic. The result is trimmed to
// the configured character budget.
func (g *Generator) Generate(ctx context.Context, topic string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, g.model, url.QueryEscape(g.apiKey))

	payload, err := json.Marshal(generateRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildPrompt(topic)}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("requesting content generation", "model", g.model, "topic", topic)
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read generation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation failed with status %d: %s", resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}

	text := firstCandidateText(genResp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("model returned no content for topic %q", topic)
	}

	return truncatePost(text, g.maxLength), nil
}

func firstCandidateText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}
