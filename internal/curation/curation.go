package curation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/AI2HU/geolens/internal/llm"
	"github.com/AI2HU/geolens/internal/logger"
	"github.com/AI2HU/geolens/internal/shared"
)

// MaxQuotesPerBrand caps the curated quotes returned for one brand
const MaxQuotesPerBrand = 3

// Quote is one candidate sentence taken from a response
type Quote struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Prompt   string `json:"prompt"`
}

// CuratedQuote is a candidate selected by the curator, with its short summary
type CuratedQuote struct {
	Index    int    `json:"index"`
	Summary  string `json:"summary"`
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Prompt   string `json:"prompt"`
}

// Result is the curated output. Quotes is never nil.
type Result struct {
	Quotes     map[string][]CuratedQuote `json:"quotes"`
	Cost       float64                   `json:"cost"`
	TokensUsed int                       `json:"tokens_used"`
}

// Config holds curation settings
type Config struct {
	Model             string
	Temperature       float64
	MaxTokens         int
	CostPer1KTokens   float64
	RequestsPerMinute int
	MaxQuotes         int
}

// DefaultConfig returns the default curation settings
func DefaultConfig() Config {
	return Config{
		Temperature:       0.2,
		MaxTokens:         1500,
		RequestsPerMinute: 20,
		MaxQuotes:         MaxQuotesPerBrand,
	}
}

// Curator selects representative quotes per brand through an LLM provider
type Curator struct {
	provider llm.Provider
	config   Config
	limiter  *rate.Limiter
}

// New creates a curator backed by the given provider
func New(provider llm.Provider, config Config) *Curator {
	if config.MaxQuotes <= 0 || config.MaxQuotes > MaxQuotesPerBrand {
		config.MaxQuotes = MaxQuotesPerBrand
	}

	limit := rate.Inf
	if config.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(config.RequestsPerMinute))
	}

	return &Curator{
		provider: provider,
		config:   config,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

func emptyResult() *Result {
	return &Result{Quotes: make(map[string][]CuratedQuote)}
}

// Curate asks the provider to pick up to three quotes per brand. Empty input, provider
// failures and unparseable answers all yield an empty result with zero cost; only
// context cancellation is returned as an error.
func (c *Curator) Curate(ctx context.Context, candidates map[string][]Quote) (*Result, error) {
	brands := candidateBrands(candidates)
	if len(brands) == 0 || c.provider == nil {
		return emptyResult(), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	prompt := BuildPrompt(brands, candidates, c.config.MaxQuotes)
	response, err := c.provider.Generate(ctx, prompt, llm.Config{
		Model:       c.config.Model,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warning("Quote curation via %s failed: %v", c.provider.Name(), err)
		return emptyResult(), nil
	}
	if response.Error != "" {
		logger.Warning("Quote curation via %s failed: %s", c.provider.Name(), response.Error)
		return emptyResult(), nil
	}

	selections, err := ParseSelections(response.Text)
	if err != nil {
		logger.Warning("Quote curation returned an unreadable answer: %v", err)
		return emptyResult(), nil
	}

	result := &Result{
		Quotes:     Resolve(selections, candidates, c.config.MaxQuotes),
		TokensUsed: response.TokensUsed,
		Cost:       float64(response.TokensUsed) / 1000 * c.config.CostPer1KTokens,
	}
	logger.Debug("Curated quotes for %d brands using %d tokens", len(result.Quotes), response.TokensUsed)
	return result, nil
}

func candidateBrands(candidates map[string][]Quote) []string {
	var brands []string
	for brand, quotes := range candidates {
		if strings.TrimSpace(brand) == "" || len(quotes) == 0 {
			continue
		}
		brands = append(brands, brand)
	}
	sort.Strings(brands)
	return brands
}

// BuildPrompt renders the curation request. Quote indices are zero-based per brand.
func BuildPrompt(brands []string, candidates map[string][]Quote, maxQuotes int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are curating quotes from AI assistant answers for a brand visibility report.\n")
	fmt.Fprintf(&b, "For each brand below, pick between 1 and %d quotes that best show how AI assistants describe the brand.\n", maxQuotes)
	b.WriteString("Prefer quotes that are specific, distinct from each other and come from different providers.\n")
	b.WriteString("Write a summary of at most 12 words for each pick.\n\n")

	for _, brand := range brands {
		fmt.Fprintf(&b, "Brand: %s\n", brand)
		for i, q := range candidates[brand] {
			fmt.Fprintf(&b, "[%d] (%s) %s\n", i, q.Provider, q.Text)
		}
		b.WriteString("\n")
	}

	b.WriteString(`Answer with a JSON object only, mapping each brand name to its picks, for example:
{"Brand": [{"index": 0, "summary": "short summary"}]}`)
	return b.String()
}

// Selection is one pick in the curator's answer
type Selection struct {
	Index   int    `json:"index"`
	Summary string `json:"summary"`
}

// ParseSelections decodes the curator's answer, tolerating code fences and a "quotes" wrapper
func ParseSelections(text string) (map[string][]Selection, error) {
	text = stripFences(text)
	if text == "" {
		return nil, fmt.Errorf("empty answer")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse answer: %w", err)
	}
	if inner, ok := raw["quotes"]; ok && len(raw) == 1 {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(inner, &nested); err == nil {
			raw = nested
		}
	}

	selections := make(map[string][]Selection, len(raw))
	for brand, msg := range raw {
		var picks []Selection
		if err := json.Unmarshal(msg, &picks); err != nil {
			continue
		}
		selections[brand] = picks
	}
	return selections, nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// Resolve maps selections back to candidate quotes. Unknown brands, out-of-range and
// repeated indices are dropped; at most maxQuotes are kept per brand.
func Resolve(selections map[string][]Selection, candidates map[string][]Quote, maxQuotes int) map[string][]CuratedQuote {
	byKey := make(map[string]string, len(candidates))
	for brand := range candidates {
		byKey[shared.BrandKey(brand)] = brand
	}

	out := make(map[string][]CuratedQuote)
	for name, picks := range selections {
		brand, ok := byKey[shared.BrandKey(name)]
		if !ok {
			continue
		}
		quotes := candidates[brand]
		used := make(map[int]bool)
		for _, pick := range picks {
			if len(out[brand]) >= maxQuotes {
				break
			}
			if pick.Index < 0 || pick.Index >= len(quotes) || used[pick.Index] {
				continue
			}
			used[pick.Index] = true
			q := quotes[pick.Index]
			out[brand] = append(out[brand], CuratedQuote{
				Index:    pick.Index,
				Summary:  strings.TrimSpace(pick.Summary),
				Text:     q.Text,
				Provider: q.Provider,
				Prompt:   q.Prompt,
			})
		}
	}
	return out
}
