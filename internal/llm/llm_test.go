package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/geolens/internal/models"
)

type stubProvider struct{ name string }

func (s stubProvider) Name() string                           { return s.name }
func (s stubProvider) Validate(config map[string]string) error { return nil }
func (s stubProvider) Generate(ctx context.Context, prompt string, config Config) (*Response, error) {
	return &Response{Text: prompt, Provider: s.name}, nil
}
func (s stubProvider) ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(stubProvider{name: "openai"})
	r.Register(stubProvider{name: "anthropic"})
	r.Register(stubProvider{name: "openai"})

	assert.Equal(t, []string{"anthropic", "openai"}, r.List())

	p, err := r.Get("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.Name())

	_, err = r.Get("cohere")
	assert.EqualError(t, err, "provider not found: cohere")
}
