package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/config"
)

var modelsCmd = &cobra.Command{
	Use:   "models [provider]",
	Short: "List models available for quote curation",
	Long: `List the models a provider offers (default: the configured curation provider).
Supported providers: openai, anthropic, ollama, google, perplexity.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runModels,
}

func runModels(cmd *cobra.Command, args []string) error {
	name := strings.ToLower(cfg.Curation.Provider)
	if len(args) > 0 {
		name = strings.ToLower(args[0])
	}

	provider, err := llmRegistry.Get(name)
	if err != nil {
		return fmt.Errorf("unknown provider %q (supported: %s)", name, strings.Join(llmRegistry.List(), ", "))
	}

	apiKey := (&config.CurationConfig{Provider: name}).ResolveAPIKey()
	baseURL := ""
	if strings.EqualFold(name, cfg.Curation.Provider) {
		apiKey = cfg.Curation.ResolveAPIKey()
		baseURL = cfg.Curation.BaseURL
	}

	fmt.Printf("%s🔄 Fetching %s models...%s\n", InfoStyle, name, Reset)
	list, err := provider.ListModels(cmd.Context(), apiKey, baseURL)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	if len(list) == 0 {
		fmt.Printf("%sNo models returned%s\n", WarningStyle, Reset)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sMODEL\tNAME\tDESCRIPTION%s\n", LabelStyle, Reset)
	for _, m := range list {
		marker := ""
		if m.ID == cfg.Curation.Model && strings.EqualFold(name, cfg.Curation.Provider) {
			marker = " ★"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", FormatValue(m.ID+marker), m.Name, FormatMeta(truncateMiddle(m.Description, 60)))
	}
	return w.Flush()
}
