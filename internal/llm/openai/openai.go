package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"docqa/internal/llm"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	// FallbackModel is used when model discovery fails.
	FallbackModel = "gpt-4o-mini"
)

// Client is an OpenAI-compatible chat completions client implementing llm.Client.
type Client struct {
	client openai.Client
	model  string
}

var (
	_ llm.Client      = (*Client)(nil)
	_ llm.ModelLister = (*Client)(nil)
)

// Config configures the OpenAI-compatible client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Timeout   time.Duration
}

// NewClient creates a new chat client using the provided configuration.
// An API key is only required for the hosted OpenAI endpoint.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		if strings.HasPrefix(cfg.BaseURL, defaultBaseURL) {
			return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
		}
		key = "unused"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	client := openai.NewClient(
		option.WithAPIKey(key),
		option.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")+"/"),
		option.WithHTTPClient(&http.Client{Timeout: t}),
		option.WithMaxRetries(0),
	)
	return &Client{client: client, model: FallbackModel}, nil
}

// UseModel sets the model identifier used by Generate.
func (c *Client) UseModel(name string) { c.model = name }

// Model returns the model identifier used by Generate.
func (c *Client) Model() string { return c.model }

// ListModels returns the model IDs served by the endpoint.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	page, err := c.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	names := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		names = append(names, m.ID)
	}
	return names, nil
}

// Generate sends the prompt as a single user message and returns the reply text.
func (c *Client) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	o := llm.Apply(options...)
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	}
	if o.Temperature != nil {
		params.Temperature = openai.Float(*o.Temperature)
	}
	if o.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.MaxTokens))
	}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
