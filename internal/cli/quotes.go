package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	quotesJSON       bool
	quotesCandidates bool
)

var quotesCmd = &cobra.Command{
	Use:   "quotes [run-id]",
	Short: "Pick representative quotes per brand with an LLM",
	Long: `Collect sentences that mention each brand and ask the configured curation
LLM to pick up to three representative quotes per brand with a short summary.
Use --candidates to print the collected sentences without calling the LLM.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuotes,
}

func init() {
	addFilterFlags(quotesCmd)
	quotesCmd.Flags().BoolVar(&quotesJSON, "json", false, "Print JSON")
	quotesCmd.Flags().BoolVar(&quotesCandidates, "candidates", false, "Only list candidate sentences")
}

func runQuotes(cmd *cobra.Command, args []string) error {
	filters, err := filterFlags()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	if quotesCandidates {
		candidates, err := metricsService.Candidates(cmd.Context(), runArg(args), filters)
		if err != nil {
			return err
		}
		if quotesJSON {
			return enc.Encode(candidates)
		}
		printHeader("💬 Quote Candidates")
		for _, brand := range sortedKeys(candidates) {
			fmt.Printf("%s%s%s\n", SuccessStyle, brand, Reset)
			for i, q := range candidates[brand] {
				fmt.Printf("  %s[%d]%s %s %s\n", CountStyle, i, Reset, q.Text, FormatMeta("("+q.Provider+")"))
			}
			fmt.Println()
		}
		return nil
	}

	if !metricsService.CurationEnabled() {
		return fmt.Errorf("quote curation is not configured; set curation.provider and an API key in the config file")
	}

	result, err := metricsService.Quotes(cmd.Context(), runArg(args), filters)
	if err != nil {
		return fmt.Errorf("failed to curate quotes: %w", err)
	}
	if quotesJSON {
		return enc.Encode(result)
	}

	printHeader("💬 Representative Quotes")
	if len(result.Quotes) == 0 {
		fmt.Printf("%sNo quotes selected%s\n", WarningStyle, Reset)
	}
	for _, brand := range sortedKeys(result.Quotes) {
		fmt.Printf("%s%s%s\n", SuccessStyle, brand, Reset)
		for _, q := range result.Quotes[brand] {
			fmt.Printf("  “%s”\n", q.Text)
			fmt.Printf("    %s %s\n", FormatValue(q.Summary), FormatMeta("("+q.Provider+")"))
		}
		fmt.Println()
	}
	fmt.Printf("%s %s %s\n", FormatLabelValue("Tokens:", formatCount(result.TokensUsed)), FormatLabelValue("Cost:", ""), FormatCost(result.Cost))
	return nil
}
