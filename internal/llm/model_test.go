package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubLister struct {
	names []string
	err   error
	calls int
}

func (s *stubLister) ListModels(ctx context.Context) ([]string, error) {
	s.calls++
	return s.names, s.err
}

func TestResolveModel(t *testing.T) {
	ctx := context.Background()
	const fallback = "models/gemini-flash-latest"

	t.Run("configured name skips discovery", func(t *testing.T) {
		l := &stubLister{names: []string{"models/other"}}
		got := ResolveModel(ctx, l, " models/pinned ", fallback)

		assert.Equal(t, ModelChoice{Name: "models/pinned", Source: SourceConfigured}, got)
		assert.Zero(t, l.calls)
	})

	t.Run("first discovered model wins", func(t *testing.T) {
		l := &stubLister{names: []string{"models/a", "models/b"}}
		got := ResolveModel(ctx, l, "", fallback)

		assert.Equal(t, "models/a", got.Name)
		assert.Equal(t, SourceDiscovered, got.Source)
		assert.NoError(t, got.DiscoveryErr)
	})

	t.Run("discovery error uses fallback", func(t *testing.T) {
		cause := errors.New("permission denied")
		got := ResolveModel(ctx, &stubLister{err: cause}, "", fallback)

		assert.Equal(t, fallback, got.Name)
		assert.Equal(t, SourceFallback, got.Source)
		assert.ErrorIs(t, got.DiscoveryErr, cause)
	})

	t.Run("empty discovery uses fallback", func(t *testing.T) {
		got := ResolveModel(ctx, &stubLister{}, "", fallback)

		assert.Equal(t, fallback, got.Name)
		assert.Equal(t, SourceFallback, got.Source)
		assert.Error(t, got.DiscoveryErr)
	})

	t.Run("nil lister uses fallback", func(t *testing.T) {
		got := ResolveModel(ctx, nil, "", fallback)

		assert.Equal(t, SourceFallback, got.Source)
	})
}

func TestApplyOptions(t *testing.T) {
	o := Apply()
	assert.Nil(t, o.Temperature)
	assert.Zero(t, o.MaxTokens)

	o = Apply(WithTemperature(0.3), WithMaxTokens(1700))
	if assert.NotNil(t, o.Temperature) {
		assert.InDelta(t, 0.3, *o.Temperature, 1e-9)
	}
	assert.Equal(t, 1700, o.MaxTokens)
}
