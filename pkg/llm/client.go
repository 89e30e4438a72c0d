// Package llm provides the HTTP client for the local text-generation service.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/hrkit/chartbot/pkg/config"
)

// Client talks to an Ollama-compatible generation endpoint. A nil or
// unreachable service is an expected condition, not a fault: callers probe
// with Available and fall back to templates when generation fails.
type Client struct {
	generateURL string
	probeURL    string
	model       string
	httpClient  *http.Client
	probeClient *http.Client
	logger      *slog.Logger
}

// NewClient creates a client from the LLM configuration. The liveness probe
// hits the service's tags endpoint on the same host as the generate endpoint.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	probeURL, err := tagsURL(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse llm endpoint: %w", err)
	}

	return &Client{
		generateURL: cfg.Endpoint,
		probeURL:    probeURL,
		model:       cfg.Model,
		httpClient:  &http.Client{Timeout: cfg.GenerateTimeout},
		probeClient: &http.Client{Timeout: cfg.ProbeTimeout},
		logger:      slog.Default(),
	}, nil
}

// tagsURL derives the model-list endpoint from the generate endpoint.
func tagsURL(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("endpoint %q must be an absolute URL", endpoint)
	}
	u.Path = "/api/tags"
	u.RawQuery = ""
	return u.String(), nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends a single non-streaming completion request and returns the
// generated text. Every failure mode (connection refused, timeout, non-2xx,
// malformed body) comes back as an error so the caller can fall back.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.generateURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call generate endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generate endpoint returned HTTP %d: %s", resp.StatusCode, body)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if out.Response == "" {
		return "", fmt.Errorf("generate response missing text")
	}

	return out.Response, nil
}

// Available reports whether the generation service answers its tags endpoint.
// Used to skip generation entirely when the service is known to be down.
func (c *Client) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.probeURL, nil)
	if err != nil {
		return false
	}

	resp, err := c.probeClient.Do(req)
	if err != nil {
		c.logger.Debug("LLM probe failed", "url", c.probeURL, "error", err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
