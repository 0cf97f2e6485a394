// Package aireview asks a chat completion API to summarize and rate
// review text. Prompts come from the per-search configuration.
package aireview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultEndpoint    = "https://api.openai.com/v1/chat/completions"
	defaultHTTPTimeout = 60 * time.Second
)

// Prompt is one configured request shape: role text, question, model
// settings, and an optional function schema for structured output.
type Prompt struct {
	Question       string
	RolePrompt     string
	Model          string
	MaxTokens      int
	Temperature    float64
	FunctionSchema map[string]any
}

// Client wraps the chat completion API.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// Option customizes the completion client.
type Option func(*Client)

// WithEndpoint overrides the completion endpoint (useful for tests/mocks).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		endpoint = strings.TrimSpace(endpoint)
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a completion API client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model        string           `json:"model"`
	Messages     []chatMessage    `json:"messages"`
	MaxTokens    int              `json:"max_tokens"`
	Temperature  float64          `json:"temperature"`
	Functions    []map[string]any `json:"functions,omitempty"`
	FunctionCall map[string]any   `json:"function_call,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content      string `json:"content"`
			FunctionCall *struct {
				Arguments string `json:"arguments"`
			} `json:"function_call"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Query sends text through the configured prompt and returns the model's
// answer. With a function schema attached, the function call arguments are
// returned verbatim; otherwise the message content.
func (c *Client) Query(ctx context.Context, text string, p Prompt) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("aireview query: api key required")
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("aireview query: text required")
	}
	if p.Question == "" || p.Model == "" {
		return "", errors.New("aireview query: prompt question and model required")
	}

	content := fmt.Sprintf("%s\n%s\n\n###\n\n%s\nAnswer:", p.RolePrompt, text, p.Question)
	request := chatRequest{
		Model:       p.Model,
		Messages:    []chatMessage{{Role: "user", Content: content}},
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
	}
	if p.FunctionSchema != nil {
		request.Functions = []map[string]any{p.FunctionSchema}
		if name, ok := p.FunctionSchema["name"].(string); ok {
			request.FunctionCall = map[string]any{"name": name}
		}
	}

	encoded, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("aireview query: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("aireview query: request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("aireview query: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("aireview query: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("aireview query: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("aireview query: decode response: %w", err)
	}
	if completion.Error != nil {
		return "", fmt.Errorf("aireview query: api error: %s", strings.TrimSpace(completion.Error.Message))
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("aireview query: empty choices")
	}

	message := completion.Choices[0].Message
	if p.FunctionSchema != nil && message.FunctionCall != nil {
		return message.FunctionCall.Arguments, nil
	}
	return message.Content, nil
}
