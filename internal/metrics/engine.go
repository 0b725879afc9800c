package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

// Config tunes one engine instance
type Config struct {
	Discovery      DiscoveryConfig
	TopPairs       int
	KeyInfluencers int
	MaxInsights    int
	// FoldDiscovered collapses discovered brands into an Other share-of-voice bucket
	FoldDiscovered bool
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	return Config{
		Discovery:      DefaultDiscoveryConfig(),
		TopPairs:       10,
		KeyInfluencers: 5,
		MaxInsights:    5,
		FoldDiscovered: true,
	}
}

// Engine computes visibility metrics from a result snapshot.
// It holds no state between calls; every method is a pure function of its inputs.
type Engine struct {
	cfg      Config
	detector *Detector
}

// New creates an engine
func New(cfg Config) (*Engine, error) {
	detector, err := NewDetector(cfg.Discovery)
	if err != nil {
		return nil, fmt.Errorf("failed to create brand detector: %w", err)
	}
	return &Engine{cfg: cfg, detector: detector}, nil
}

// NewDefault creates an engine with the default configuration
func NewDefault() *Engine {
	return &Engine{cfg: DefaultConfig(), detector: MustDetector(DefaultDiscoveryConfig())}
}

// Detector returns the engine's brand detector
func (e *Engine) Detector() *Detector {
	return e.detector
}

// Compute evaluates every component over the filtered results in one pass
func (e *Engine) Compute(run models.Run, results []models.Result, f shared.FilterSelection) *models.Report {
	s := e.buildSnapshot(run, results, f)

	mentions := s.mentions()
	report := &models.Report{
		RunID:            run.ID,
		Brand:            s.searched,
		SearchType:       run.SearchType,
		Summary:          s.summary(),
		Mentions:         mentions,
		ShareOfVoice:     s.shareOfVoice(mentions, e.cfg.FoldDiscovered),
		Brands:           s.brandStats(mentions),
		Providers:        s.providerBreakdown(),
		Prompts:          s.promptBreakdown(),
		Sentiment:        s.sentimentBreakdown(mentions),
		Sources:          s.sources(e.cfg.KeyInfluencers),
		CoOccurrences:    s.coOccurrences(e.cfg.TopPairs),
		Discovered:       s.discovered,
		RankDistribution: s.rankDistribution(),
	}
	if report.Discovered == nil {
		report.Discovered = []models.DiscoveredBrand{}
	}
	report.Insights = Insights(report, run.CategoryLabel(), e.cfg.MaxInsights)
	return report
}

// Mentions returns per-brand mention counts and rates
func (e *Engine) Mentions(run models.Run, results []models.Result, f shared.FilterSelection) []models.BrandMention {
	return e.buildSnapshot(run, results, f).mentions()
}

// ShareOfVoice returns each brand's share of all brand mentions
func (e *Engine) ShareOfVoice(run models.Run, results []models.Result, f shared.FilterSelection) []models.ShareOfVoice {
	s := e.buildSnapshot(run, results, f)
	return s.shareOfVoice(s.mentions(), e.cfg.FoldDiscovered)
}

// Sources returns the per-domain citation report and brand-by-source matrix
func (e *Engine) Sources(run models.Run, results []models.Result, f shared.FilterSelection) models.SourceReport {
	return e.buildSnapshot(run, results, f).sources(e.cfg.KeyInfluencers)
}

// CoOccurrences returns the most frequent brand pairs
func (e *Engine) CoOccurrences(run models.Run, results []models.Result, f shared.FilterSelection) []models.CoOccurrence {
	return e.buildSnapshot(run, results, f).coOccurrences(e.cfg.TopPairs)
}

// Discovered returns the untracked brands that pass the frequency floor
func (e *Engine) Discovered(run models.Run, results []models.Result, f shared.FilterSelection) []models.DiscoveredBrand {
	s := e.buildSnapshot(run, results, f)
	if s.discovered == nil {
		return []models.DiscoveredBrand{}
	}
	return s.discovered
}

// ResultRank returns the searched brand's text position in one result, 0 when not mentioned.
// Category runs have no searched brand and always yield 0.
func ResultRank(run models.Run, r *models.Result) int {
	if run.IsCategory() || !r.BrandMentioned || strings.TrimSpace(run.Brand) == "" {
		return 0
	}
	candidates := append(append([]string{}, r.CompetitorsMentioned...), r.AllBrandsMentioned...)
	return Rank(r.ResponseText, run.Brand, candidates)
}

// Dimensions lists the distinct providers and prompts among non-error results, for filter pickers
func Dimensions(results []models.Result) (providers []string, prompts []string) {
	seenProvider := make(map[string]bool)
	seenPrompt := make(map[string]bool)
	for i := range results {
		r := &results[i]
		if r.Failed() {
			continue
		}
		if p := strings.TrimSpace(r.Provider); p != "" && !seenProvider[strings.ToLower(p)] {
			seenProvider[strings.ToLower(p)] = true
			providers = append(providers, p)
		}
		if p := strings.TrimSpace(r.Prompt); p != "" && !seenPrompt[p] {
			seenPrompt[p] = true
			prompts = append(prompts, p)
		}
	}
	sort.Strings(providers)
	return providers, prompts
}
