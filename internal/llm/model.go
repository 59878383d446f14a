package llm

import (
	"context"
	"errors"
	"strings"
)

// ModelSource tells where the selected model identifier came from.
type ModelSource string

const (
	SourceConfigured ModelSource = "configured"
	SourceDiscovered ModelSource = "discovered"
	SourceFallback   ModelSource = "fallback"
)

// ModelChoice is the outcome of model selection.
// DiscoveryErr is set when discovery was attempted and did not produce a model.
type ModelChoice struct {
	Name         string
	Source       ModelSource
	DiscoveryErr error
}

var errNoModels = errors.New("no generative models available")

// ResolveModel picks the model identifier in two steps: a configured name is used
// as is; otherwise discovery is attempted and the first model returned wins. Any
// discovery failure, or an empty list, selects fallback.
func ResolveModel(ctx context.Context, lister ModelLister, configured, fallback string) ModelChoice {
	if name := strings.TrimSpace(configured); name != "" {
		return ModelChoice{Name: name, Source: SourceConfigured}
	}
	if lister == nil {
		return ModelChoice{Name: fallback, Source: SourceFallback, DiscoveryErr: errNoModels}
	}
	names, err := lister.ListModels(ctx)
	if err == nil && len(names) == 0 {
		err = errNoModels
	}
	if err != nil {
		return ModelChoice{Name: fallback, Source: SourceFallback, DiscoveryErr: err}
	}
	return ModelChoice{Name: names[0], Source: SourceDiscovered}
}
