package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/api"
	"github.com/AI2HU/geolens/internal/logger"
	"github.com/AI2HU/geolens/internal/scheduler"
	"github.com/AI2HU/geolens/internal/services"
)

var (
	apiPort      int
	apiHost      string
	corsOrigin   string
	apiNoDigest  bool
	apiDigestRun string
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the Geolens REST API server",
	Long: `Start the Geolens REST API server. It serves run listing, filtered reports,
CSV export, keyword search and quote curation, and runs the insight digest
on the configured cron schedule.`,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().IntVarP(&apiPort, "port", "p", 0, "Port to run the API server on (default from config, 8989)")
	apiCmd.Flags().StringVarP(&apiHost, "host", "H", "", "Host to bind the API server to (default from config, 0.0.0.0)")
	apiCmd.Flags().StringVarP(&corsOrigin, "cors-origin", "c", "", "CORS origin to allow (overrides config file, use '*' for all origins)")
	apiCmd.Flags().BoolVar(&apiNoDigest, "no-digest", false, "Do not run the scheduled insight digest")
	apiCmd.Flags().StringVar(&apiDigestRun, "digest-run", services.LatestRunID, "Run the digest reports on")
}

func runAPI(cmd *cobra.Command, args []string) error {
	host := cfg.API.Host
	if apiHost != "" {
		host = apiHost
	}
	port := cfg.API.Port
	if apiPort != 0 {
		port = apiPort
	}
	origin := cfg.API.CORSOrigin
	if corsOrigin != "" {
		origin = corsOrigin
	}
	if origin == "" {
		origin = "*"
	}

	if err := store.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	server := api.NewServer(metricsService, origin)
	server.SetCuration(api.CurationInfo{
		Provider: cfg.Curation.Provider,
		Model:    cfg.Curation.Model,
		APIKey:   cfg.Curation.ResolveAPIKey(),
		BaseURL:  cfg.Curation.BaseURL,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !apiNoDigest && cfg.Digest.Cron != "" {
		digest := scheduler.New(metricsService, apiDigestRun)
		if err := digest.Start(ctx, cfg.Digest.Cron); err != nil {
			return fmt.Errorf("failed to start digest: %w", err)
		}
		defer digest.Stop()
		server.SetDigest(digest, cfg.Digest.Cron)
	}

	address := fmt.Sprintf("%s:%d", host, port)

	fmt.Printf("🚀 Starting Geolens API Server\n")
	fmt.Printf("==============================\n")
	fmt.Printf("URL: http://%s/api/v1\n", address)
	fmt.Printf("CORS Origin: %s\n", origin)
	fmt.Printf("Quote curation: %v\n", metricsService.CurationEnabled())
	fmt.Println()
	fmt.Println("📚 Available Endpoints:")
	fmt.Println("    GET    /api/v1/health                 - Health check")
	fmt.Println("    GET    /api/v1/runs                   - List runs")
	fmt.Println("    POST   /api/v1/runs                   - Import a run snapshot")
	fmt.Println("    GET    /api/v1/runs/:id               - Run overview (:id may be 'latest')")
	fmt.Println("    DELETE /api/v1/runs/:id               - Delete run")
	fmt.Println("    GET    /api/v1/runs/:id/report        - Filtered report (tab, brand, llm, prompt, scope, domain)")
	fmt.Println("    GET    /api/v1/runs/:id/export.csv    - CSV export")
	fmt.Println("    GET    /api/v1/runs/:id/search?q=     - Keyword search")
	fmt.Println("    POST   /api/v1/runs/:id/quotes        - Curate quotes for a run")
	fmt.Println("    POST   /api/v1/curate                 - Curate caller-provided candidates")
	fmt.Println("    GET    /api/v1/digest                 - Digest status")
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop the server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	fmt.Println("\n🛑 Shutting down API server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server shutdown failed: %v", err)
	}
	return <-errCh
}
