package llm

import (
	"context"
)

// Option allows for optional sampling parameters like Temperature and MaxTokens.
type Option func(*Options)

type Options struct {
	Temperature *float64
	MaxTokens   int
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = &temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// Apply folds opts into a fresh Options value.
func Apply(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Client defines the contract for any generative model backend.
// Calling Generate without options is the plain prompt-in/text-out shape.
type Client interface {
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
	Model() string
}

// ModelLister discovers the models a backend can use for text generation.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}
