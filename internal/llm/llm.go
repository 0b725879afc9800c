package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/AI2HU/geolens/internal/models"
)

// Config holds generation parameters for one call
type Config struct {
	Model       string
	Temperature float64
	TopP        float64
	TopK        float64
	MaxTokens   int
	// JSON asks the backend for a JSON object answer when it supports it
	JSON bool
}

// Response is the text and accounting returned by a provider.
// Transport failures are reported in Error with a nil Go error so callers can degrade.
type Response struct {
	Text       string
	TokensUsed int
	LatencyMs  int64
	Model      string
	Provider   string
	Error      string
}

// Provider is a text-generation backend
type Provider interface {
	Name() string
	Validate(config map[string]string) error
	Generate(ctx context.Context, prompt string, config Config) (*Response, error)
	ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error)
}

// Registry holds the configured providers by name
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds or replaces a provider
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns a provider by name
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return p, nil
}

// List returns the registered provider names in order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
