package factory

import (
	"context"
	"fmt"
	"time"

	"docqa/internal/llm"
	"docqa/internal/llm/gemini"
	"docqa/internal/llm/openai"
)

// Config selects and configures the model backend.
type Config struct {
	Provider      string
	APIKeyEnv     string
	BaseURL       string
	Model         string
	FallbackModel string
	Timeout       time.Duration
}

type provider interface {
	llm.Client
	llm.ModelLister
	UseModel(name string)
}

// NewLLMProvider builds the configured client and binds it to a model chosen by
// llm.ResolveModel. The returned choice tells the caller how the model was picked.
func NewLLMProvider(ctx context.Context, cfg Config) (llm.Client, llm.ModelChoice, error) {
	var (
		p        provider
		fallback = cfg.FallbackModel
	)
	switch cfg.Provider {
	case "gemini", "":
		c, err := gemini.NewClient(ctx, gemini.Config{BaseURL: cfg.BaseURL, APIKeyEnv: cfg.APIKeyEnv, Timeout: cfg.Timeout})
		if err != nil {
			return nil, llm.ModelChoice{}, err
		}
		if fallback == "" {
			fallback = gemini.FallbackModel
		}
		p = c
	case "openai":
		c, err := openai.NewClient(openai.Config{BaseURL: cfg.BaseURL, APIKeyEnv: cfg.APIKeyEnv, Timeout: cfg.Timeout})
		if err != nil {
			return nil, llm.ModelChoice{}, err
		}
		if fallback == "" {
			fallback = openai.FallbackModel
		}
		p = c
	default:
		return nil, llm.ModelChoice{}, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	choice := llm.ResolveModel(ctx, p, cfg.Model, fallback)
	p.UseModel(choice.Name)
	return p, choice, nil
}
