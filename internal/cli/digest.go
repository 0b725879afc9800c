package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/scheduler"
	"github.com/AI2HU/geolens/internal/services"
)

var (
	digestCron  string
	digestRunID string
	digestOnce  bool
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Log the latest run's insights on a schedule",
	Long: `Recompute the unfiltered report on a cron schedule and log its insights.
The run defaults to "latest", so newly imported runs are picked up automatically.`,
	RunE: runDigest,
}

func init() {
	digestCmd.Flags().StringVar(&digestCron, "cron", "", "Cron expression (default from config)")
	digestCmd.Flags().StringVarP(&digestRunID, "run", "r", services.LatestRunID, "Run to report on")
	digestCmd.Flags().BoolVar(&digestOnce, "once", false, "Run the digest once and exit")
}

func runDigest(cmd *cobra.Command, args []string) error {
	digest := scheduler.New(metricsService, digestRunID)

	if digestOnce {
		report, err := digest.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		printOverview(cmd.OutOrStdout(), report, 10)
		return nil
	}

	expr := cfg.Digest.Cron
	if digestCron != "" {
		expr = digestCron
	}
	expr, err := validateCronExpression(expr)
	if err != nil {
		return err
	}

	printHeader("⏰ Insight Digest")
	fmt.Printf("%s\n", FormatLabelValue("Cron:", expr))
	fmt.Printf("%s\n", FormatLabelValue("Run:", digestRunID))
	fmt.Println()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := digest.Start(ctx, expr); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	fmt.Printf("%s✅ Digest scheduled%s\n", SuccessStyle, Reset)
	fmt.Printf("%s📝 Press Ctrl+C to stop the scheduler%s\n", InfoStyle, Reset)
	fmt.Println()

	<-ctx.Done()
	fmt.Printf("\n%s⏹️  Stopping scheduler...%s\n", InfoStyle, Reset)
	digest.Stop()
	fmt.Printf("%s✅ Scheduler stopped%s\n", SuccessStyle, Reset)

	return nil
}
