package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export a run's results as CSV",
	Long:  `Write one CSV row per non-error result of a run (default: the latest run).`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	var out io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	rows, err := metricsService.Export(cmd.Context(), runArg(args), out)
	if err != nil {
		return fmt.Errorf("failed to export run: %w", err)
	}

	if exportOutput != "" {
		fmt.Printf("%s✅ Wrote %d rows to %s%s\n", SuccessStyle, rows, exportOutput, Reset)
	}
	return nil
}
