package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
	defaultModel   = "claude-3-haiku-20240307"
	maxTokens      = 1024
)

// Client sends single-turn prompts to the Messages API.
type Client struct {
	httpClient *resty.Client
	model      string
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.httpClient.SetBaseURL(strings.TrimSuffix(url, "/")) }
}

// WithTimeout bounds each request. Requests have no deadline unless this is set.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.SetTimeout(d) }
}

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string, opts ...Option) *Client {
	httpClient := resty.New().
		SetBaseURL(defaultBaseURL).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json")

	c := &Client{httpClient: httpClient, model: defaultModel}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
}

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Summarize sends userContent under systemPrompt and returns the concatenated text blocks.
// A reply without text blocks yields "" and no error.
func (c *Client) Summarize(ctx context.Context, systemPrompt, userContent string) (string, error) {
	reqBody := messageRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		System:      systemPrompt,
		Temperature: 0.2,
		Messages:    []Message{{Role: "user", Content: userContent}},
	}

	var respBody messageResponse
	var errBody apiError
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(&errBody).
		Post("/v1/messages")
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		msg := errBody.Error.Message
		if msg == "" {
			msg = resp.String()
		}
		return "", fmt.Errorf("anthropic api error: status=%d, message=%s", resp.StatusCode(), msg)
	}

	var b strings.Builder
	for _, block := range respBody.Content {
		if block.Type == "" || block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
