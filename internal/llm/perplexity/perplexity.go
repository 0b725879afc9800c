package perplexity

import (
	"context"
	"fmt"
	"time"

	"github.com/sgaunet/perplexity-go/v2"

	"github.com/AI2HU/geolens/internal/llm"
	"github.com/AI2HU/geolens/internal/models"
)

const defaultModel = "sonar"

// Provider implements the LLM Provider interface for Perplexity
type Provider struct {
	apiKey string
	client *perplexity.Client
}

// New creates a new Perplexity provider
func New(apiKey string) *Provider {
	return &Provider{
		apiKey: apiKey,
		client: perplexity.NewClient(apiKey),
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "perplexity"
}

// Validate validates the provider configuration
func (p *Provider) Validate(config map[string]string) error {
	if config["api_key"] == "" {
		return fmt.Errorf("api_key is required")
	}
	return nil
}

// Generate sends a prompt to Perplexity. The client call is synchronous,
// so cancellation is honored only before the request is sent.
func (p *Provider) Generate(ctx context.Context, prompt string, config llm.Config) (*llm.Response, error) {
	startTime := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model := defaultModel
	if config.Model != "" {
		model = config.Model
	}

	req := perplexity.NewCompletionRequest(
		perplexity.WithMessages([]perplexity.Message{{Role: "user", Content: prompt}}),
		perplexity.WithModel(model),
	)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid perplexity request: %w", err)
	}

	res, err := p.client.SendCompletionRequest(req)
	if err != nil {
		return &llm.Response{
			Error:     err.Error(),
			LatencyMs: time.Since(startTime).Milliseconds(),
			Provider:  p.Name(),
		}, nil
	}

	return &llm.Response{
		Text:       res.GetLastContent(),
		TokensUsed: res.Usage.TotalTokens,
		LatencyMs:  time.Since(startTime).Milliseconds(),
		Model:      res.Model,
		Provider:   p.Name(),
	}, nil
}

// ListModels returns the Sonar family; Perplexity has no public models endpoint
func (p *Provider) ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error) {
	return []models.ModelInfo{
		{ID: "sonar", Name: "Sonar", Description: "Lightweight search-grounded model"},
		{ID: "sonar-pro", Name: "Sonar Pro", Description: "Advanced search-grounded model"},
		{ID: "sonar-reasoning", Name: "Sonar Reasoning", Description: "Search-grounded reasoning model"},
	}, nil
}
