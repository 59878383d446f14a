package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"google.golang.org/genai"

	"docqa/internal/llm"
)

// FallbackModel is used when model discovery fails.
const FallbackModel = "models/gemini-flash-latest"

// LegacyKeyEnv is read when the configured key variable is unset.
const LegacyKeyEnv = "GOOGLE_API_KEY"

const generateAction = "generateContent"

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("gemini returned no text")

// Client is a Gemini API client implementing llm.Client and llm.ModelLister.
type Client struct {
	client *genai.Client
	model  string
}

var (
	_ llm.Client      = (*Client)(nil)
	_ llm.ModelLister = (*Client)(nil)
)

// Config configures the Gemini client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Timeout   time.Duration
}

// NewClient creates a Gemini client. The model is chosen later with UseModel.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		key = os.Getenv(LegacyKeyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s or %s", cfg.APIKeyEnv, LegacyKeyEnv)
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	cc := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: t},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, model: FallbackModel}, nil
}

// UseModel sets the model identifier used by Generate.
func (c *Client) UseModel(name string) { c.model = name }

// Model returns the model identifier used by Generate.
func (c *Client) Model() string { return c.model }

// ListModels returns the models that support content generation, in API order.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	page, err := c.client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	var names []string
	for {
		for _, m := range page.Items {
			if m != nil && slices.Contains(m.SupportedActions, generateAction) {
				names = append(names, m.Name)
			}
		}
		if page.NextPageToken == "" {
			break
		}
		page, err = page.Next(ctx)
		if errors.Is(err, genai.ErrPageDone) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
	}
	return names, nil
}

// Generate sends a single prompt and returns the response text.
func (c *Client) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	o := llm.Apply(options...)
	var cfg *genai.GenerateContentConfig
	if o.Temperature != nil || o.MaxTokens > 0 {
		cfg = &genai.GenerateContentConfig{}
		if o.Temperature != nil {
			cfg.Temperature = genai.Ptr(float32(*o.Temperature))
		}
		if o.MaxTokens > 0 {
			cfg.MaxOutputTokens = int32(o.MaxTokens)
		}
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini generate: %w (%s)", ErrEmptyResponse, emptyReason(resp))
	}
	return text, nil
}

// emptyReason describes why a response carried no text: a prompt block or the
// finish reason of the first candidate.
func emptyReason(resp *genai.GenerateContentResponse) string {
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "prompt blocked: " + string(fb.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "no candidates"
	}
	if fr := resp.Candidates[0].FinishReason; fr != "" {
		return "finish reason " + string(fr)
	}
	return "no text parts"
}
