package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/services"
	"github.com/AI2HU/geolens/internal/shared"
)

var (
	reportProvider string
	reportPrompt   string
	reportBrand    string
	reportScope    string
	reportDomain   string
	reportTab      string
	reportJSON     bool
	reportLimit    int
)

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Compute visibility metrics for a run",
	Long: `Compute the visibility report for a run (default: the latest run).

Filters are ANDed together; "all" or an empty value means no restriction.
--tab limits the output to one view: overview, reference, competitive,
sentiment, sources or responses.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	addFilterFlags(reportCmd)
	reportCmd.Flags().StringVarP(&reportTab, "tab", "t", "", "Only print one view ("+strings.Join(shared.Tabs, ", ")+")")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the full report as JSON")
	reportCmd.Flags().IntVarP(&reportLimit, "limit", "l", 10, "Rows per table")
}

// addFilterFlags registers the global filter flags on a command
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&reportProvider, "llm", shared.FilterAll, "Only results from this provider")
	cmd.Flags().StringVar(&reportPrompt, "prompt", shared.FilterAll, "Only results for this prompt")
	cmd.Flags().StringVar(&reportBrand, "brand", shared.FilterAll, "Only results mentioning this brand")
	cmd.Flags().StringVar(&reportScope, "scope", shared.ScopeAll, "Brand scope (all, tracked)")
	cmd.Flags().StringVar(&reportDomain, "domain", shared.FilterAll, "Only results citing this source domain")
}

func filterFlags() (shared.FilterSelection, error) {
	scope, err := validateScope(reportScope)
	if err != nil {
		return shared.FilterSelection{}, err
	}
	return shared.FilterSelection{
		Provider: reportProvider,
		Prompt:   reportPrompt,
		Brand:    reportBrand,
		Scope:    scope,
		Domain:   reportDomain,
	}, nil
}

func runArg(args []string) string {
	if len(args) == 0 {
		return services.LatestRunID
	}
	return args[0]
}

func runReport(cmd *cobra.Command, args []string) error {
	filters, err := filterFlags()
	if err != nil {
		return err
	}
	if reportTab != "" {
		if _, err := validateChoice(reportTab, shared.Tabs, ""); err != nil {
			return err
		}
	}

	report, err := metricsService.Report(cmd.Context(), runArg(args), filters)
	if err != nil {
		return fmt.Errorf("failed to compute report: %w", err)
	}

	out := cmd.OutOrStdout()
	if reportJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printHeader(fmt.Sprintf("📊 Visibility Report: %s", report.Brand))
	fmt.Fprintf(out, "%s\n", FormatMeta(fmt.Sprintf("Run %s (%s)", report.RunID, report.SearchType)))
	if values := shared.FiltersToValues("", filters); len(values) > 0 {
		fmt.Fprintf(out, "%s\n", FormatMeta("Filters: "+values.Encode()))
	}
	fmt.Fprintln(out)

	sections := map[string]func(io.Writer, *models.Report, int){
		"overview":    printOverview,
		"reference":   printReference,
		"competitive": printCompetitive,
		"sentiment":   printSentiment,
		"sources":     printSources,
		"responses":   printResponses,
	}
	for _, tab := range shared.Tabs {
		if reportTab != "" && !strings.EqualFold(reportTab, tab) {
			continue
		}
		sections[tab](out, report, reportLimit)
	}
	return nil
}

func sectionTitle(w io.Writer, title string) {
	fmt.Fprintf(w, "%s%s%s\n", SuccessStyle, title, Reset)
	fmt.Fprintf(w, "%s%s%s\n", DimStyle, strings.Repeat("─", len([]rune(title))), Reset)
}

func sentiment(score *float64) string {
	if score == nil {
		return FormatMeta("n/a")
	}
	return FormatSentiment(*score)
}

func rank(avg float64) string {
	if avg <= 0 {
		return FormatMeta("-")
	}
	return fmt.Sprintf("%.1f", avg)
}

func printOverview(w io.Writer, r *models.Report, limit int) {
	s := r.Summary
	sectionTitle(w, "Overview")
	fmt.Fprintf(w, "%s\n", FormatLabelValue("Responses in scope:", fmt.Sprintf("%d of %d", s.InScopeResults, s.TotalResults)))
	fmt.Fprintf(w, "%s\n", FormatLabelValue("Errored responses:", fmt.Sprintf("%d", s.ErrorResults)))
	if s.AIOverviewsUnavailable > 0 {
		fmt.Fprintf(w, "%s\n", FormatLabelValue("AI Overviews unavailable:", fmt.Sprintf("%d", s.AIOverviewsUnavailable)))
	}
	fmt.Fprintf(w, "%s\n", FormatLabelValue("Providers / prompts:", fmt.Sprintf("%d / %d", s.Providers, s.Prompts)))
	fmt.Fprintf(w, "%s %s\n", FormatLabelValue("Tokens:", formatCount(s.TotalTokens)), FormatCost(s.TotalCost))
	fmt.Fprintln(w)

	sectionTitle(w, "Brand Mentions")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sBRAND\tRESPONSES\tRATE\tTRACKED%s\n", LabelStyle, Reset)
	for i, m := range r.Mentions {
		if i >= limit {
			break
		}
		name := m.Brand
		if m.IsSearchedBrand {
			name += " ★"
		}
		tracked := "no"
		if m.IsTracked {
			tracked = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", FormatValue(name), FormatCount(m.Count), FormatPercent(m.Rate), tracked)
	}
	tw.Flush()
	fmt.Fprintln(w)

	sectionTitle(w, "Insights")
	if len(r.Insights) == 0 {
		fmt.Fprintf(w, "%sNo insights for this selection%s\n", DimStyle, Reset)
	}
	for _, in := range r.Insights {
		fmt.Fprintf(w, "  • %s %s\n", in.Text, FormatMeta("["+in.Kind+"]"))
	}
	fmt.Fprintln(w)
}

func printReference(w io.Writer, r *models.Report, limit int) {
	sectionTitle(w, "By Provider")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sPROVIDER\tRESPONSES\tMENTION RATE\tVISIBILITY\tAVG RANK\tSENTIMENT\tCOST%s\n", LabelStyle, Reset)
	for _, p := range r.Providers {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.1f\t%s\t%s\t%s\n",
			FormatValue(p.Provider), p.TotalResponses, FormatPercent(p.MentionRate), p.Visibility,
			rank(p.AvgRank), sentiment(p.AvgSentiment), FormatCost(p.TotalCost))
	}
	tw.Flush()
	fmt.Fprintln(w)

	sectionTitle(w, "By Prompt")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sPROMPT\tRESPONSES\tMENTION RATE\tAVG RANK\tBRANDS%s\n", LabelStyle, Reset)
	for i, p := range r.Prompts {
		if i >= limit {
			break
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\n",
			FormatValue(truncateMiddle(p.Prompt, 60)), p.TotalResponses, FormatPercent(p.MentionRate), rank(p.AvgRank), p.BrandsMentioned)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printCompetitive(w io.Writer, r *models.Report, limit int) {
	sectionTitle(w, "Share of Voice")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sBRAND\tMENTIONS\tSHARE%s\n", LabelStyle, Reset)
	for _, s := range r.ShareOfVoice {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", FormatValue(s.Brand), s.Mentions, CountStyle+fmt.Sprintf("%.1f%%", s.Percentage)+Reset)
	}
	tw.Flush()
	fmt.Fprintln(w)

	sectionTitle(w, "Brand Breakdown")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sBRAND\tVISIBILITY\tAVG RANK\t#1 SPOTS\tSENTIMENT\tPROVIDERS%s\n", LabelStyle, Reset)
	for i, b := range r.Brands {
		if i >= limit {
			break
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%s\t%d\t%s\t%d\n",
			FormatValue(b.Brand), b.Visibility, rank(b.AvgRank), b.FirstPositionCount, sentiment(b.AvgSentiment), b.ProviderCount)
	}
	tw.Flush()
	fmt.Fprintln(w)

	if len(r.CoOccurrences) > 0 {
		sectionTitle(w, "Mentioned Together")
		for _, c := range r.CoOccurrences {
			fmt.Fprintf(w, "  %s + %s: %s responses %s\n", FormatValue(c.BrandA), FormatValue(c.BrandB), FormatCount(c.Count), FormatMeta(fmt.Sprintf("(%.1f%%)", c.Percentage)))
		}
		fmt.Fprintln(w)
	}

	if len(r.Discovered) > 0 {
		sectionTitle(w, "Untracked Brands")
		for _, d := range r.Discovered {
			fmt.Fprintf(w, "  %s in %s responses\n", FormatValue(d.Brand), FormatCount(d.Responses))
		}
		fmt.Fprintln(w)
	}
}

func printSentiment(w io.Writer, r *models.Report, limit int) {
	sectionTitle(w, "Sentiment")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sBRAND\tOBSERVED\tSCORE\tLABEL%s\n", LabelStyle, Reset)
	for i, s := range r.Sentiment {
		if i >= limit {
			break
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", FormatValue(s.Brand), s.Observed, sentiment(s.AvgSentiment), s.Label)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printSources(w io.Writer, r *models.Report, limit int) {
	sectionTitle(w, "Cited Domains")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sDOMAIN\tCATEGORY\tCITATIONS\tRESPONSES\tPROVIDERS%s\n", LabelStyle, Reset)
	for i, d := range r.Sources.PerDomain {
		if i >= limit {
			break
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", FormatValue(d.Domain), d.Category, d.Citations, d.Responses, strings.Join(d.Providers, ","))
	}
	tw.Flush()
	fmt.Fprintln(w)

	if len(r.Sources.KeyInfluencers) > 0 {
		sectionTitle(w, "Key Influencers")
		for _, d := range r.Sources.KeyInfluencers {
			fmt.Fprintf(w, "  %s cited by %s providers\n", FormatValue(d.Domain), FormatCount(d.ProviderCount))
		}
		fmt.Fprintln(w)
	}

	sectionTitle(w, "Top URLs")
	for i, u := range r.Sources.URLs {
		if i >= limit {
			break
		}
		fmt.Fprintf(w, "  %s %s\n", FormatCount(u.Citations), truncateMiddle(u.URL, 90))
	}
	fmt.Fprintln(w)
}

func printResponses(w io.Writer, r *models.Report, limit int) {
	sectionTitle(w, "Rank Distribution")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sPROVIDER\tBANDS%s\n", LabelStyle, Reset)
	for _, provider := range sortedKeys(r.RankDistribution.ByProvider) {
		bands := r.RankDistribution.ByProvider[provider]
		parts := make([]string, 0, len(bands))
		for _, band := range sortedKeys(bands) {
			parts = append(parts, fmt.Sprintf("%s=%d", band, bands[band]))
		}
		fmt.Fprintf(tw, "%s\t%s\n", FormatValue(provider), strings.Join(parts, " "))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
