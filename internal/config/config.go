package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AI2HU/geolens/internal/curation"
	"github.com/AI2HU/geolens/internal/metrics"
	"github.com/AI2HU/geolens/internal/models"
)

// EnvConfigPath overrides the default config location
const EnvConfigPath = "GEOLENS_CONFIG_PATH"

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig `yaml:"database"`
	Engine    EngineConfig   `yaml:"engine"`
	Curation  CurationConfig `yaml:"curation"`
	API       APIConfig      `yaml:"api"`
	Digest    DigestConfig   `yaml:"digest"`
	LogLevel  string         `yaml:"log_level"`
	LogFormat string         `yaml:"log_format,omitempty"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Provider string            `yaml:"provider"` // sqlite, mongodb
	URI      string            `yaml:"uri"`
	Database string            `yaml:"database"`
	Options  map[string]string `yaml:"options,omitempty"`
}

// EngineConfig tunes the metrics engine
type EngineConfig struct {
	MinOccurrences int      `yaml:"min_occurrences"`
	SampleFraction float64  `yaml:"sample_fraction"`
	ExtraStopwords []string `yaml:"extra_stopwords,omitempty"`
	BrandPattern   string   `yaml:"brand_pattern,omitempty"`
	TopPairs       int      `yaml:"top_pairs"`
	KeyInfluencers int      `yaml:"key_influencers"`
	MaxInsights    int      `yaml:"max_insights"`
	FoldDiscovered bool     `yaml:"fold_discovered"`
}

// CurationConfig selects the LLM used for quote curation
type CurationConfig struct {
	Provider          string  `yaml:"provider"` // openai, anthropic, google, ollama, perplexity
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"api_key,omitempty"`
	BaseURL           string  `yaml:"base_url,omitempty"`
	RequestsPerMinute int     `yaml:"requests_per_minute"`
	CostPer1KTokens   float64 `yaml:"cost_per_1k_tokens"`
	QuotesPerBrand    int     `yaml:"quotes_per_brand"`
}

// APIConfig configures the HTTP server
type APIConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// DigestConfig configures the scheduled insight digest
type DigestConfig struct {
	Cron string `yaml:"cron"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	engine := metrics.DefaultConfig()
	return &Config{
		Database: DatabaseConfig{
			Provider: "sqlite",
			URI:      "~/.geolens/geolens.db",
			Database: "geolens",
		},
		Engine: EngineConfig{
			MinOccurrences: engine.Discovery.MinOccurrences,
			SampleFraction: engine.Discovery.SampleFraction,
			TopPairs:       engine.TopPairs,
			KeyInfluencers: engine.KeyInfluencers,
			MaxInsights:    engine.MaxInsights,
			FoldDiscovered: engine.FoldDiscovered,
		},
		Curation: CurationConfig{
			Provider:          "openai",
			Model:             "gpt-4o-mini",
			RequestsPerMinute: 20,
			CostPer1KTokens:   0.0006,
			QuotesPerBrand:    8,
		},
		API: APIConfig{
			Host:       "0.0.0.0",
			Port:       8989,
			CORSOrigin: "*",
		},
		Digest: DigestConfig{
			Cron: "0 8 * * *",
		},
		LogLevel:  "INFO",
		LogFormat: "console",
	}
}

// Load loads configuration from file; missing keys keep their defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// Validate checks the values the rest of the program relies on
func (c *Config) Validate() error {
	switch c.Database.Provider {
	case "sqlite", "mongodb":
	default:
		return fmt.Errorf("unsupported database provider: %s", c.Database.Provider)
	}
	if strings.TrimSpace(c.Database.URI) == "" {
		return fmt.Errorf("database uri is required")
	}
	if c.Engine.SampleFraction < 0 || c.Engine.SampleFraction > 1 {
		return fmt.Errorf("engine.sample_fraction must be between 0 and 1")
	}
	if c.Engine.MinOccurrences < 0 {
		return fmt.Errorf("engine.min_occurrences cannot be negative")
	}
	if c.Curation.CostPer1KTokens < 0 {
		return fmt.Errorf("curation.cost_per_1k_tokens cannot be negative")
	}
	return nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// StoreConfig converts the database section for the store factory
func (c *Config) StoreConfig() *models.Config {
	return &models.Config{
		Provider: c.Database.Provider,
		URI:      c.Database.URI,
		Database: c.Database.Database,
		Options:  c.Database.Options,
	}
}

// MetricsConfig converts the engine section for metrics.New
func (c *Config) MetricsConfig() metrics.Config {
	cfg := metrics.DefaultConfig()
	if c.Engine.MinOccurrences > 0 {
		cfg.Discovery.MinOccurrences = c.Engine.MinOccurrences
	}
	if c.Engine.SampleFraction > 0 {
		cfg.Discovery.SampleFraction = c.Engine.SampleFraction
	}
	if c.Engine.BrandPattern != "" {
		cfg.Discovery.Pattern = c.Engine.BrandPattern
	}
	cfg.Discovery.ExtraStopwords = c.Engine.ExtraStopwords
	if c.Engine.TopPairs > 0 {
		cfg.TopPairs = c.Engine.TopPairs
	}
	if c.Engine.KeyInfluencers > 0 {
		cfg.KeyInfluencers = c.Engine.KeyInfluencers
	}
	if c.Engine.MaxInsights > 0 {
		cfg.MaxInsights = c.Engine.MaxInsights
	}
	cfg.FoldDiscovered = c.Engine.FoldDiscovered
	return cfg
}

// CurationSettings converts the curation section for curation.New
func (c *Config) CurationSettings() curation.Config {
	cfg := curation.DefaultConfig()
	cfg.Model = c.Curation.Model
	cfg.CostPer1KTokens = c.Curation.CostPer1KTokens
	cfg.RequestsPerMinute = c.Curation.RequestsPerMinute
	return cfg
}

// ResolveAPIKey returns the configured curation key or the provider's environment variable
func (c *CurationConfig) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	for _, name := range apiKeyEnv[strings.ToLower(c.Provider)] {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

var apiKeyEnv = map[string][]string{
	"openai":     {"OPENAI_API_KEY"},
	"anthropic":  {"ANTHROPIC_API_KEY"},
	"google":     {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"perplexity": {"PERPLEXITY_API_KEY", "PPLX_API_KEY"},
}

// GetConfigPath returns the config file path, honoring GEOLENS_CONFIG_PATH
func GetConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".geolens/config.yaml"
	}
	return filepath.Join(home, ".geolens", "config.yaml")
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
