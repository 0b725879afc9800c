package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/models"
)

var (
	importRunID      string
	importBrand      string
	importSearchType string
	importCategory   string
)

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import a run of recorded LLM responses",
	Long: `Import a JSON snapshot into the result store.

The file is either {"run": {...}, "results": [...]} or a bare results array,
in which case --brand (or --search-type category --category) describes the run.
Use "-" to read from stdin. Re-importing a run ID replaces its results.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importRunID, "run-id", "", "Run ID (generated when absent)")
	importCmd.Flags().StringVarP(&importBrand, "brand", "b", "", "Searched brand")
	importCmd.Flags().StringVar(&importSearchType, "search-type", models.SearchTypeBrand, "Search type (brand, category)")
	importCmd.Flags().StringVar(&importCategory, "category", "", "Category label for category runs")
}

func runImport(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()
		in = f
	}

	searchType, err := validateChoice(importSearchType, []string{models.SearchTypeBrand, models.SearchTypeCategory}, models.SearchTypeBrand)
	if err != nil {
		return err
	}

	fallback := models.Run{
		ID:         importRunID,
		Brand:      importBrand,
		SearchType: searchType,
		Category:   importCategory,
	}
	snap, err := metricsService.Import(cmd.Context(), in, fallback)
	if err != nil {
		return fmt.Errorf("failed to import run: %w", err)
	}

	failed := 0
	for i := range snap.Results {
		if snap.Results[i].Failed() {
			failed++
		}
	}

	fmt.Printf("%s✅ Imported run %s%s\n", SuccessStyle, snap.Run.ID, Reset)
	fmt.Printf("%s\n", FormatLabelValue("Brand:", snap.Run.Brand))
	fmt.Printf("%s\n", FormatLabelValue("Results:", fmt.Sprintf("%d (%d errored)", len(snap.Results), failed)))
	fmt.Printf("%s %s\n", FormatLabelValue("Cost:", ""), FormatCost(snap.Run.TotalCost))
	fmt.Println()
	fmt.Printf("%s💡 View it with 'geolens report %s'%s\n", InfoStyle, snap.Run.ID, Reset)
	return nil
}
