package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/services"
)

var (
	searchRunID         string
	searchLimit         int
	searchCaseSensitive bool
)

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search a run's responses for a keyword",
	Long:  `Search the responses of a run (default: the latest run) and show the context around each match.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchRunID, "run", "r", services.LatestRunID, "Run to search")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 50, "Maximum number of matches to display")
	searchCmd.Flags().BoolVarP(&searchCaseSensitive, "case-sensitive", "c", false, "Make search case-sensitive")
}

// SearchMatch is one keyword occurrence inside a result
type SearchMatch struct {
	ResultID string
	Provider string
	Model    string
	Prompt   string
	Context  string
}

func runSearch(cmd *cobra.Command, args []string) error {
	keyword := args[0]

	fmt.Printf("%s🔍 Searching for keyword: \"%s\"%s\n", HeaderStyle, CountStyle+keyword+Reset, Reset)
	fmt.Println()

	results, err := metricsService.Search(cmd.Context(), searchRunID, keyword, 0)
	if err != nil {
		return fmt.Errorf("failed to search results: %w", err)
	}

	pattern := regexp.QuoteMeta(keyword)
	if !searchCaseSensitive {
		pattern = "(?i)" + pattern
	}
	regex := regexp.MustCompile(pattern)

	var matches []SearchMatch
	for i := range results {
		matches = append(matches, findMatches(&results[i], regex)...)
	}

	if len(matches) == 0 {
		fmt.Printf("%s❌ No matches found for keyword \"%s\"%s\n", ErrorStyle, CountStyle+keyword+Reset, Reset)
		return nil
	}

	fmt.Printf("%s✅ Found %s matches in %s responses%s\n", SuccessStyle, FormatCount(len(matches)), FormatCount(len(results)), Reset)
	fmt.Println()

	for i, match := range matches {
		if i >= searchLimit {
			fmt.Printf("\n%s... and %s more matches (use --limit to see more)%s\n", DimStyle, FormatCount(len(matches)-i), Reset)
			break
		}

		fmt.Printf("%s📄 Match %s:%s\n", TitleStyle, FormatCount(i+1), Reset)
		fmt.Printf("   %s🏷️  Prompt:%s %s\n", LabelStyle, Reset, FormatValue(truncateMiddle(match.Prompt, 80)))
		fmt.Printf("   %s🤖 LLM:%s %s %s\n", LabelStyle, Reset, FormatValue(match.Provider), FormatMeta(match.Model))
		fmt.Printf("   %s📝 Context:%s\n", SuccessStyle, Reset)
		fmt.Printf("   %s\n", match.Context)
		fmt.Printf("   %s%s%s\n", DimStyle, strings.Repeat("─", 80), Reset)
		fmt.Println()
	}

	return nil
}

// findMatches returns every occurrence with up to 100 bytes of context on each side
func findMatches(result *models.Result, regex *regexp.Regexp) []SearchMatch {
	var matches []SearchMatch
	text := result.ResponseText

	for _, index := range regex.FindAllStringIndex(text, -1) {
		start, end := index[0], index[1]

		contextStart := max(start-100, 0)
		contextEnd := min(end+100, len(text))
		for contextStart > 0 && !isRuneStart(text[contextStart]) {
			contextStart--
		}
		for contextEnd < len(text) && !isRuneStart(text[contextEnd]) {
			contextEnd++
		}

		snippet := text[contextStart:start] + FormatHighlight(text[start:end]) + text[end:contextEnd]
		snippet = strings.Join(strings.Fields(snippet), " ")

		matches = append(matches, SearchMatch{
			ResultID: result.ID,
			Provider: result.Provider,
			Model:    result.Model,
			Prompt:   result.Prompt,
			Context:  snippet,
		})
	}

	return matches
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
