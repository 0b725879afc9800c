package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List and manage imported runs",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a run with its providers and prompts",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run and its results",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "l", 20, "Maximum number of runs to list")
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	runs, err := metricsService.ListRuns(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Printf("%sNo runs imported yet. Use 'geolens import <file>' to add one.%s\n", WarningStyle, Reset)
		return nil
	}

	printHeader("📁 Runs")

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sID\tBRAND\tTYPE\tCALLS\tCOST\tCREATED%s\n", LabelStyle, Reset)
	fmt.Fprintf(w, "%s──\t─────\t────\t─────\t────\t───────%s\n", DimStyle, Reset)
	for _, run := range runs {
		label := run.Brand
		if run.IsCategory() {
			label = run.CategoryLabel()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			run.ID,
			FormatValue(label),
			run.SearchType,
			run.CompletedCalls, run.TotalCalls,
			FormatCost(run.TotalCost),
			FormatMeta(run.CreatedAt.Local().Format("2006-01-02 15:04")),
		)
	}
	return w.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	overview, err := metricsService.Overview(cmd.Context(), runArg(args))
	if err != nil {
		return err
	}

	run := overview.Run
	printHeader(fmt.Sprintf("📁 Run %s", run.ID))
	fmt.Printf("%s\n", FormatLabelValue("Brand:", run.Brand))
	fmt.Printf("%s\n", FormatLabelValue("Search type:", run.SearchType))
	if run.IsCategory() {
		fmt.Printf("%s\n", FormatLabelValue("Category:", run.CategoryLabel()))
	}
	fmt.Printf("%s\n", FormatLabelValue("Results:", fmt.Sprintf("%d (%d/%d calls completed)", overview.Results, run.CompletedCalls, run.TotalCalls)))
	fmt.Printf("%s %s\n", FormatLabelValue("Cost:", ""), FormatCost(run.TotalCost))
	fmt.Printf("%s\n", FormatLabelValue("Created:", run.CreatedAt.Local().Format("2006-01-02 15:04:05")))
	fmt.Println()

	fmt.Printf("%sProviders:%s\n", SuccessStyle, Reset)
	for _, p := range overview.Providers {
		fmt.Printf("  • %s\n", FormatValue(p))
	}
	fmt.Printf("\n%sPrompts:%s\n", SuccessStyle, Reset)
	for i, p := range overview.Prompts {
		fmt.Printf("  %s%d.%s %s\n", CountStyle, i+1, Reset, truncateMiddle(p, 80))
	}
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	if err := metricsService.DeleteRun(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	fmt.Printf("%s✅ Run %s deleted%s\n", SuccessStyle, args[0], Reset)
	return nil
}
