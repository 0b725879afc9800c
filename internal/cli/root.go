package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/config"
	"github.com/AI2HU/geolens/internal/curation"
	"github.com/AI2HU/geolens/internal/db"
	"github.com/AI2HU/geolens/internal/llm"
	"github.com/AI2HU/geolens/internal/llm/anthropic"
	"github.com/AI2HU/geolens/internal/llm/google"
	"github.com/AI2HU/geolens/internal/llm/ollama"
	"github.com/AI2HU/geolens/internal/llm/openai"
	"github.com/AI2HU/geolens/internal/llm/perplexity"
	"github.com/AI2HU/geolens/internal/logger"
	"github.com/AI2HU/geolens/internal/metrics"
	"github.com/AI2HU/geolens/internal/services"
)

var (
	cfgFile        string
	logLevel       string
	cfg            *config.Config
	store          db.ResultStore
	llmRegistry    *llm.Registry
	metricsService *services.MetricsService
)

// commands that manage their own setup
var standalone = map[string]bool{
	"init":    true,
	"migrate": true,
	"up":      true,
	"status":  true,
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "geolens",
	Short: "Visibility metrics for brands in LLM responses",
	Long: `Geolens turns recorded LLM responses into brand visibility metrics.

Import a run of responses, then inspect mention rates, share of voice, rank,
sentiment, cited sources, co-mentions and brands nobody is tracking yet,
filtered by provider, prompt, brand or source domain.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if standalone[cmd.Name()] {
			return nil
		}

		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}

		initLogger(cfg)

		store, err = db.New(cfg.StoreConfig())
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		if err := store.Connect(cmd.Context()); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		engine, err := metrics.New(cfg.MetricsConfig())
		if err != nil {
			return fmt.Errorf("failed to configure metrics engine: %w", err)
		}

		llmRegistry = newRegistry(cfg)

		curator, err := newCurator(cfg, llmRegistry)
		if err != nil {
			logger.Warning("Quote curation disabled: %v", err)
		}

		metricsService = services.NewMetricsService(store, engine, curator, cfg.Curation.QuotesPerBrand)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Disconnect(context.Background())
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.geolens/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (DEBUG, INFO, WARNING, ERROR); overrides the config file")

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(quotesCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(digestCmd)
}

// configPath resolves --config, then GEOLENS_CONFIG_PATH, then the default location
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.GetConfigPath()
}

func loadConfig() (*config.Config, error) {
	path := configPath()
	if !config.Exists(path) {
		return nil, fmt.Errorf("configuration file not found at %s. Run 'geolens init' to create one", path)
	}

	c, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return c, nil
}

func initLogger(c *config.Config) {
	level := c.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger.InitWithFormat(logger.ParseLogLevel(level), os.Stderr, c.LogFormat)
}

// newProvider builds an LLM provider by name
func newProvider(name, apiKey, baseURL string) (llm.Provider, error) {
	switch strings.ToLower(name) {
	case "openai":
		return openai.New(apiKey, baseURL), nil
	case "anthropic":
		return anthropic.New(apiKey, baseURL), nil
	case "ollama":
		return ollama.New(baseURL), nil
	case "google":
		return google.New(apiKey), nil
	case "perplexity":
		return perplexity.New(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", name)
	}
}

// newRegistry registers every provider; the curation provider gets its configured credentials
func newRegistry(c *config.Config) *llm.Registry {
	registry := llm.NewRegistry()
	for _, name := range supportedProviders {
		apiKey, baseURL := "", ""
		if strings.EqualFold(name, c.Curation.Provider) {
			apiKey = c.Curation.ResolveAPIKey()
			baseURL = c.Curation.BaseURL
		} else {
			apiKey = (&config.CurationConfig{Provider: name}).ResolveAPIKey()
		}
		provider, err := newProvider(name, apiKey, baseURL)
		if err != nil {
			continue
		}
		registry.Register(provider)
	}
	return registry
}

var supportedProviders = []string{"openai", "anthropic", "ollama", "google", "perplexity"}

// newCurator returns nil with a reason when curation cannot run
func newCurator(c *config.Config, registry *llm.Registry) (*curation.Curator, error) {
	name := strings.ToLower(strings.TrimSpace(c.Curation.Provider))
	if name == "" || name == "none" {
		return nil, fmt.Errorf("no curation provider configured")
	}

	provider, err := registry.Get(name)
	if err != nil {
		return nil, err
	}

	settings := map[string]string{
		"api_key":  c.Curation.ResolveAPIKey(),
		"base_url": c.Curation.BaseURL,
	}
	if err := provider.Validate(settings); err != nil {
		return nil, fmt.Errorf("%s provider is not usable: %w", name, err)
	}

	return curation.New(provider, c.CurationSettings()), nil
}
