package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/config"
	"github.com/AI2HU/geolens/internal/db"
)

var initDefaults bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize geolens configuration",
	Long:  `Interactive wizard to set up the result store, the quote-curation LLM and the digest schedule.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDefaults, "defaults", false, "Write the default configuration without prompting")
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	path := configPath()

	fmt.Println("🚀 Welcome to Geolens - Visibility Metrics Setup")
	fmt.Println("================================================")
	fmt.Println()

	if config.Exists(path) && !initDefaults {
		fmt.Printf("Configuration file already exists at: %s\n", path)
		confirmed, err := promptYesNo(reader, "Do you want to overwrite it? (y/N): ")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	c := config.DefaultConfig()
	if !initDefaults {
		if err := promptConfig(reader, c); err != nil {
			return err
		}
	}

	fmt.Println("\n🔌 Testing database connection...")
	if err := testConnection(cmd.Context(), c); err != nil {
		fmt.Printf("❌ %v\n", err)
		fmt.Println("\nPlease check your database configuration and try again.")
		return err
	}
	fmt.Println("✅ Database connection successful!")

	fmt.Println("\n💾 Saving configuration...")
	if err := c.Save(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("✅ Configuration saved to: %s\n", path)

	fmt.Println("\n📋 Configuration Summary")
	fmt.Println("========================")
	fmt.Printf("Database: %s (%s)\n", c.Database.Provider, c.Database.URI)
	fmt.Printf("Curation: %s / %s (key %s)\n", c.Curation.Provider, c.Curation.Model, maskSensitiveData(c.Curation.ResolveAPIKey()))
	fmt.Printf("Digest:   %s\n", c.Digest.Cron)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Import a run:      geolens import results.json")
	fmt.Println("  2. View the report:   geolens report latest")
	fmt.Println("  3. Serve the API:     geolens api")

	return nil
}

func promptConfig(reader *bufio.Reader, c *config.Config) error {
	fmt.Println("\n📊 Database Configuration")
	fmt.Println("--------------------------")

	provider, err := promptChoice(reader, "Database provider (sqlite/mongodb) [sqlite]: ", []string{"sqlite", "mongodb"}, "sqlite")
	if err != nil {
		return err
	}
	c.Database.Provider = provider

	if provider == "mongodb" {
		if c.Database.URI, err = promptOptional(reader, "Database URI [mongodb://localhost:27017]: ", "mongodb://localhost:27017"); err != nil {
			return err
		}
		if c.Database.Database, err = promptOptional(reader, "Database name [geolens]: ", "geolens"); err != nil {
			return err
		}
	} else {
		if c.Database.URI, err = promptOptional(reader, fmt.Sprintf("Database file [%s]: ", c.Database.URI), c.Database.URI); err != nil {
			return err
		}
	}

	fmt.Println("\n💬 Quote Curation")
	fmt.Println("-----------------")

	choices := append([]string{"none"}, supportedProviders...)
	if c.Curation.Provider, err = promptChoice(reader, "LLM provider (none/openai/anthropic/ollama/google/perplexity) [openai]: ", choices, "openai"); err != nil {
		return err
	}
	if c.Curation.Provider != "none" {
		if c.Curation.Model, err = promptOptional(reader, "Model (empty for provider default): ", ""); err != nil {
			return err
		}
		if c.Curation.Provider != "ollama" {
			if c.Curation.APIKey, err = promptOptional(reader, "API key (empty to read from the environment): ", ""); err != nil {
				return err
			}
		}
		if c.Curation.BaseURL, err = promptWithRetry(reader, "Base URL (optional): ", validateBaseURL); err != nil {
			return err
		}
		rpm, err := promptWithRetry(reader, "Requests per minute [20]: ", func(input string) (string, error) {
			if input == "" {
				input = "20"
			}
			n, err := validateNumber(input, 1, 600)
			return strconv.Itoa(n), err
		})
		if err != nil {
			return err
		}
		c.Curation.RequestsPerMinute, _ = strconv.Atoi(rpm)
	}

	fmt.Println("\n⏰ Insight Digest")
	fmt.Println("-----------------")
	if c.Digest.Cron, err = promptWithRetry(reader, fmt.Sprintf("Cron expression [%s]: ", c.Digest.Cron), func(input string) (string, error) {
		if input == "" {
			return c.Digest.Cron, nil
		}
		return validateCronExpression(input)
	}); err != nil {
		return err
	}

	return c.Validate()
}

func testConnection(ctx context.Context, c *config.Config) error {
	testStore, err := db.New(c.StoreConfig())
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	if err := testStore.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer testStore.Disconnect(ctx)

	if err := testStore.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
