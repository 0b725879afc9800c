package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/db/sqlite"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
	Long:  `Apply or inspect the embedded SQLite schema migrations.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run all pending migrations",
	RunE:  runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current migration version",
	RunE:  runMigrateStatus,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

// openSQLite connects to the configured SQLite store; Connect applies pending migrations
func openSQLite(cmd *cobra.Command) (*sqlite.SQLite, error) {
	c, err := loadConfig()
	if err != nil {
		return nil, err
	}
	initLogger(c)

	if c.Database.Provider != "sqlite" {
		return nil, fmt.Errorf("migrations only apply to sqlite (configured provider: %s)", c.Database.Provider)
	}

	s, err := sqlite.New(c.StoreConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	if err := s.Connect(cmd.Context()); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return s, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	fmt.Println("🔄 Running database migrations...")

	s, err := openSQLite(cmd)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer s.Disconnect(cmd.Context())

	version, _, err := sqlite.SchemaVersion(s.DB())
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	fmt.Printf("%s✅ Migrations completed successfully (version %d)%s\n", SuccessStyle, version, Reset)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	printHeader("📊 Migration Status")

	s, err := openSQLite(cmd)
	if err != nil {
		return err
	}
	defer s.Disconnect(cmd.Context())

	version, dirty, err := sqlite.SchemaVersion(s.DB())
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Printf("%s\n", FormatLabelValue("Current migration version:", fmt.Sprintf("%d", version)))
	if dirty {
		fmt.Printf("%s⚠️  Schema is dirty; the last migration did not finish%s\n", WarningStyle, Reset)
	}
	return nil
}
