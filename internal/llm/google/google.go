package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/AI2HU/geolens/internal/llm"
	"github.com/AI2HU/geolens/internal/models"
)

const defaultModel = "gemini-2.0-flash"

// Provider implements the LLM Provider interface for Gemini
type Provider struct {
	apiKey string
	client *genai.Client
}

// New creates a new Google provider. Client creation is retried lazily on first use.
func New(apiKey string) *Provider {
	client, _ := newClient(context.Background(), apiKey)
	return &Provider{
		apiKey: apiKey,
		client: client,
	}
}

func newClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "google"
}

// Validate validates the provider configuration
func (p *Provider) Validate(config map[string]string) error {
	if config["api_key"] == "" {
		return fmt.Errorf("api_key is required")
	}
	return nil
}

// Generate sends a prompt to Gemini and returns the concatenated text parts
func (p *Provider) Generate(ctx context.Context, prompt string, config llm.Config) (*llm.Response, error) {
	startTime := time.Now()

	model := defaultModel
	if config.Model != "" {
		model = config.Model
	}

	if p.client == nil {
		client, err := newClient(ctx, p.apiKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Google client: %w", err)
		}
		p.client = client
	}

	content := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature: float32Ptr(float32(config.Temperature)),
	}
	if config.TopP > 0 {
		genConfig.TopP = float32Ptr(float32(config.TopP))
	}
	if config.TopK > 0 {
		genConfig.TopK = float32Ptr(float32(config.TopK))
	}
	if config.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(config.MaxTokens)
	}
	if config.JSON {
		genConfig.ResponseMIMEType = "application/json"
	}

	result, err := p.client.Models.GenerateContent(ctx, model, content, genConfig)
	if err != nil {
		return &llm.Response{
			Error:     err.Error(),
			LatencyMs: time.Since(startTime).Milliseconds(),
			Provider:  p.Name(),
		}, nil
	}

	var text strings.Builder
	if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		for _, part := range result.Candidates[0].Content.Parts {
			if part != nil {
				text.WriteString(part.Text)
			}
		}
	}

	tokensUsed := 0
	if result.UsageMetadata != nil {
		tokensUsed = int(result.UsageMetadata.TotalTokenCount)
	}

	return &llm.Response{
		Text:       text.String(),
		TokensUsed: tokensUsed,
		LatencyMs:  time.Since(startTime).Milliseconds(),
		Model:      model,
		Provider:   p.Name(),
	}, nil
}

// ListModels lists the Gemini text models available to the key
func (p *Provider) ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error) {
	client, err := newClient(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google client: %w", err)
	}

	page, err := client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var textModels []models.ModelInfo
	for _, m := range page.Items {
		lower := strings.ToLower(m.Name)
		if !strings.Contains(lower, "gemini") {
			continue
		}
		if strings.Contains(lower, "embed") || strings.Contains(lower, "vision") || strings.Contains(lower, "image") {
			continue
		}
		textModels = append(textModels, models.ModelInfo{
			ID:          m.Name,
			Name:        strings.TrimPrefix(m.Name, "models/"),
			Description: m.Description,
		})
	}

	return textModels, nil
}

func float32Ptr(f float32) *float32 {
	return &f
}
