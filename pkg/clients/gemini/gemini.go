package gemini

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// DefaultModel is the model used for business summaries.
const DefaultModel = "gemini-2.5-flash"

// Client wraps the Gemini API for single-shot text generation.
type Client struct {
	client *genai.Client
	model  string
}

// Option customises a Client.
type Option func(*genai.ClientConfig)

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(url string) Option {
	return func(cfg *genai.ClientConfig) { cfg.HTTPOptions.BaseURL = url }
}

// WithHTTPClient sets the HTTP client used for the calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(cfg *genai.ClientConfig) { cfg.HTTPClient = hc }
}

// NewClient builds a Gemini API client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize gemini client: %w", err)
	}
	return &Client{client: client, model: DefaultModel}, nil
}

// Summarize generates text for userContent under the systemPrompt instruction.
func (c *Client) Summarize(ctx context.Context, systemPrompt, userContent string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}}
	}


	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userContent), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return resp.Text(), nil
}
